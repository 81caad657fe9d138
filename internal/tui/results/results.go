package results

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/minadmin/internal/database"
	"github.com/joacominatel/minadmin/internal/tui/theme"
)

// nullDisplay is how a NULL cell is drawn. Copy actions still see "".
const nullDisplay = "∅"

const maxColWidth = 40

// Model is the table contents component.
type Model struct {
	table     string
	result    *database.ResultTable
	err       error
	width     int
	height    int
	focused   bool
	loading   bool
	colWidths []int

	cursorX int
	cursorY int
	scrollY int
	scrollX int

	statusMessage string
}

// New creates a new results model.
func New() Model {
	return Model{}
}

// SetSize updates the component dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
}

// SetFocused sets the focus state.
func (m *Model) SetFocused(f bool) {
	m.focused = f
}

// Focused returns whether the results pane has focus.
func (m Model) Focused() bool {
	return m.focused
}

// SetLoading sets the loading state.
func (m *Model) SetLoading(l bool) {
	m.loading = l
}

// SetResult shows the contents of table.
func (m *Model) SetResult(table string, r *database.ResultTable) {
	m.table = table
	m.result = r
	m.err = nil
	m.cursorX, m.cursorY = 0, 0
	m.scrollX, m.scrollY = 0, 0
	m.loading = false
	m.calculateColumnWidths()
}

// SetError sets an error to display. No partial result is kept.
func (m *Model) SetError(err error) {
	m.err = err
	m.result = nil
	m.colWidths = nil
	m.loading = false
}

// Table returns the name of the table being shown.
func (m Model) Table() string {
	return m.table
}

// Result returns the result being shown, or nil.
func (m Model) Result() *database.ResultTable {
	return m.result
}

// TakeStatus returns and clears the last action message.
func (m *Model) TakeStatus() string {
	s := m.statusMessage
	m.statusMessage = ""
	return s
}

func (m *Model) calculateColumnWidths() {
	if m.result == nil || len(m.result.Columns) == 0 {
		m.colWidths = nil
		return
	}

	m.colWidths = make([]int, len(m.result.Columns))

	// Use display width (not byte length) for accurate measurement
	for i, col := range m.result.Columns {
		m.colWidths[i] = lipgloss.Width(col)
	}

	for r := range m.result.Rows {
		for i, cell := range m.displayRow(r) {
			if w := lipgloss.Width(cell); w > m.colWidths[i] {
				m.colWidths[i] = w
			}
		}
	}

	for i := range m.colWidths {
		m.colWidths[i] = min(max(m.colWidths[i], 1), maxColWidth)
	}
}

func (m Model) displayRow(i int) []string {
	row := m.result.Rows[i]
	cells := make([]string, len(m.result.Columns))
	for j, col := range m.result.Columns {
		if row.IsNull(col) {
			cells[j] = nullDisplay
		} else {
			cells[j] = row.Get(col)
		}
	}
	return cells
}

// Init returns the initial command (none).
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the results pane.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused || m.result == nil {
		return m, nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	rows := len(m.result.Rows)
	cols := len(m.result.Columns)

	switch key.String() {
	case "up", "k":
		if m.cursorY > 0 {
			m.cursorY--
		}
	case "down", "j":
		if m.cursorY < rows-1 {
			m.cursorY++
		}
	case "left", "h":
		if m.cursorX > 0 {
			m.cursorX--
		}
	case "right", "l":
		if m.cursorX < cols-1 {
			m.cursorX++
		}
	case "pgup":
		m.cursorY = max(m.cursorY-m.visibleRows(), 0)
	case "pgdown":
		m.cursorY = max(min(m.cursorY+m.visibleRows(), rows-1), 0)
	case "home", "g":
		m.cursorY = 0
	case "end", "G":
		m.cursorY = max(rows-1, 0)
	case "c":
		m.doCopyCell()
	case "y":
		m.doCopyRowCSV()
	case "J":
		m.doCopyRowJSON()
	case "d":
		return m, m.doDeleteByValue()
	}

	m.clampScroll()
	return m, nil
}

func (m Model) visibleRows() int {
	return max(m.height-4, 1)
}

func (m *Model) clampScroll() {
	if m.cursorY < m.scrollY {
		m.scrollY = m.cursorY
	}
	if m.cursorY >= m.scrollY+m.visibleRows() {
		m.scrollY = m.cursorY - m.visibleRows() + 1
	}
	if m.cursorX < m.scrollX {
		m.scrollX = m.cursorX
	}
	for m.scrollX < m.cursorX && m.columnsWidth(m.scrollX, m.cursorX) > m.width-4 {
		m.scrollX++
	}
}

// columnsWidth is the rendered width of columns [from, to].
func (m Model) columnsWidth(from, to int) int {
	w := 2
	for i := from; i <= to && i < len(m.colWidths); i++ {
		w += m.colWidths[i] + 3
	}
	return w
}

// View renders the results pane.
func (m Model) View() string {
	title := theme.StylePaneTitle.Render("Data")
	if m.table != "" {
		title = theme.StylePaneTitle.Render("Data: " + m.table)
	}

	if m.loading {
		return title + "\n" + theme.StyleMuted.Render("  Loading...")
	}

	if m.err != nil {
		return title + "\n" + theme.StyleError.Render("  Could not load data: "+m.err.Error())
	}

	if m.result == nil {
		return title + "\n" + theme.StyleMuted.Render("  Select a table and press s to view it")
	}

	stats := fmt.Sprintf("%d row(s) | %s", len(m.result.Rows), m.result.Duration.Round(1000).String())
	header := title + "  " + theme.StyleMuted.Render(stats)

	if len(m.result.Columns) == 0 {
		return header + "\n" + theme.StyleMuted.Render("  No columns")
	}

	var b strings.Builder
	b.WriteString(header)
	b.WriteString("\n")
	b.WriteString(m.renderRow(m.result.Columns, -1))
	b.WriteString("\n")
	b.WriteString(m.renderSeparator())

	if len(m.result.Rows) == 0 {
		b.WriteString("\n" + theme.StyleMuted.Render("  No data to show"))
		return b.String()
	}

	end := min(m.scrollY+m.visibleRows(), len(m.result.Rows))
	for i := m.scrollY; i < end; i++ {
		b.WriteString("\n")
		b.WriteString(m.renderRow(m.displayRow(i), i))
	}

	return b.String()
}

// renderRow draws one line; rowIdx -1 is the header.
func (m Model) renderRow(cells []string, rowIdx int) string {
	var parts []string
	used := 2
	for i := m.scrollX; i < len(cells); i++ {
		width := m.colWidths[i]
		if used+width > m.width && len(parts) > 0 {
			break
		}
		used += width + 3

		display := fit(cells[i], width)
		switch {
		case rowIdx < 0:
			display = lipgloss.NewStyle().Bold(true).Foreground(theme.ColorPrimary).Render(display)
		case m.focused && rowIdx == m.cursorY && i == m.cursorX:
			display = lipgloss.NewStyle().Reverse(true).Render(display)
		case rowIdx == m.cursorY:
			display = theme.StyleSelected.Render(display)
		}
		parts = append(parts, display)
	}
	return "  " + strings.Join(parts, " │ ")
}

// fit truncates or pads s to exactly width display cells.
func fit(s string, width int) string {
	if lipgloss.Width(s) > width {
		runes := []rune(s)
		for len(runes) > 0 && lipgloss.Width(string(runes)) >= width {
			runes = runes[:len(runes)-1]
		}
		s = string(runes) + "…"
	}
	if pad := width - lipgloss.Width(s); pad > 0 {
		s += strings.Repeat(" ", pad)
	}
	return s
}

func (m Model) renderSeparator() string {
	var parts []string
	used := 2
	for i := m.scrollX; i < len(m.colWidths); i++ {
		if used+m.colWidths[i] > m.width && len(parts) > 0 {
			break
		}
		used += m.colWidths[i] + 3
		parts = append(parts, strings.Repeat("─", m.colWidths[i]))
	}
	return "  " + lipgloss.NewStyle().Foreground(theme.ColorBorder).Render(strings.Join(parts, "─┼─"))
}
