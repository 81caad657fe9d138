package form

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/minadmin/internal/database"
	"github.com/joacominatel/minadmin/internal/tui/theme"
)

// Kind identifies which operation a form collects input for.
type Kind int

const (
	KindNone Kind = iota
	KindCreate
	KindInsert
	KindDelete
)

func (k Kind) String() string {
	switch k {
	case KindCreate:
		return "Create Table"
	case KindInsert:
		return "Insert Data"
	case KindDelete:
		return "Delete Rows"
	default:
		return "Actions"
	}
}

// SubmitMsg carries the raw strings a form collected.
type SubmitMsg struct {
	Kind      Kind
	Table     string
	Columns   []database.ColumnSpec // KindCreate
	Values    map[string]string     // KindInsert
	Condition string                // KindDelete
}

// CancelMsg is sent when the user leaves a form with Esc.
type CancelMsg struct{}

// Model is the action form component.
type Model struct {
	kind    Kind
	table   string
	labels  []string
	inputs  []textinput.Model
	focus   int
	width   int
	height  int
	focused bool

	// Column-name completion for the delete condition
	columns     []string
	completing  bool
	completions []string
	compIndex   int
}

// New creates an empty form.
func New() Model {
	return Model{}
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 0
	ti.Prompt = "│ "
	ti.PromptStyle = lipgloss.NewStyle().Foreground(theme.ColorBorder)
	ti.PlaceholderStyle = lipgloss.NewStyle().Foreground(theme.ColorMuted)
	return ti
}

// NewCreate builds the create-table form with one empty column row.
func NewCreate() Model {
	m := Model{kind: KindCreate}
	m.labels = []string{"Table"}
	m.inputs = []textinput.Model{newInput("Enter Table Name")}
	m.addColumnRow()
	return m
}

// NewInsert builds an insert form with one field per discovered column.
func NewInsert(table string, columns []string) Model {
	m := Model{kind: KindInsert, table: table, columns: columns}
	for _, col := range columns {
		m.labels = append(m.labels, col)
		m.inputs = append(m.inputs, newInput(col))
	}
	return m
}

// NewDelete builds a delete form. columns feed Tab completion.
func NewDelete(table string, columns []string, condition string) Model {
	m := Model{kind: KindDelete, table: table, columns: columns}
	m.labels = []string{"WHERE"}
	in := newInput("Enter WHERE condition (e.g., id=1)")
	in.SetValue(condition)
	m.inputs = []textinput.Model{in}
	return m
}

func (m *Model) addColumnRow() {
	n := (len(m.inputs)-1)/2 + 1
	m.labels = append(m.labels, fmt.Sprintf("Column %d", n), fmt.Sprintf("Type %d", n))
	m.inputs = append(m.inputs,
		newInput("Column Name"),
		newInput("Data Type (e.g., INT, VARCHAR(100))"),
	)
}

// Kind returns the form kind.
func (m Model) Kind() Kind {
	return m.kind
}

// Table returns the form's target table.
func (m Model) Table() string {
	return m.table
}

// SetSize updates the component dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	for i := range m.inputs {
		m.inputs[i].Width = max(w-lipgloss.Width(theme.StyleLabel.Render(""))-6, 10)
	}
}

// SetFocused sets the focus state.
func (m *Model) SetFocused(f bool) {
	m.focused = f
	m.syncFocus()
}

// Focused returns whether the form has focus.
func (m Model) Focused() bool {
	return m.focused
}

func (m *Model) syncFocus() {
	for i := range m.inputs {
		if m.focused && i == m.focus {
			m.inputs[i].Focus()
			m.inputs[i].PromptStyle = lipgloss.NewStyle().Foreground(theme.ColorPrimary)
		} else {
			m.inputs[i].Blur()
			m.inputs[i].PromptStyle = lipgloss.NewStyle().Foreground(theme.ColorBorder)
		}
	}
}

// CompletionActive reports whether Tab is cycling column completions.
func (m Model) CompletionActive() bool {
	return m.completing
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles messages for the form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused || m.kind == KindNone {
		return m, nil
	}

	if key, ok := msg.(tea.KeyMsg); ok {
		k := key.String()

		switch k {
		case "esc":
			if m.completing {
				m.cancelCompletion()
				return m, nil
			}
			return m, func() tea.Msg { return CancelMsg{} }

		case "ctrl+s":
			m.cancelCompletion()
			return m, m.submit()

		case "enter":
			if m.focus == len(m.inputs)-1 {
				m.cancelCompletion()
				return m, m.submit()
			}
			m.move(1)
			return m, nil

		case "ctrl+n":
			if m.kind == KindCreate {
				m.addColumnRow()
				m.SetSize(m.width, m.height)
				m.focus = len(m.inputs) - 2
				m.syncFocus()
			}
			return m, nil

		case "tab":
			if m.kind == KindDelete && m.tryCompletion() {
				return m, nil
			}
			m.move(1)
			return m, nil

		case "shift+tab", "up":
			m.move(-1)
			return m, nil

		case "down":
			m.move(1)
			return m, nil
		}

		// Any other key ends completion mode
		if m.completing {
			m.cancelCompletion()
		}
	}

	// A table created with no columns yields an insert form without fields.
	if len(m.inputs) == 0 {
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *Model) move(delta int) {
	if len(m.inputs) == 0 {
		return
	}
	m.focus = (m.focus + delta + len(m.inputs)) % len(m.inputs)
	m.syncFocus()
}

func (m Model) submit() tea.Cmd {
	out := SubmitMsg{Kind: m.kind, Table: m.table}

	switch m.kind {
	case KindCreate:
		out.Table = m.inputs[0].Value()
		for i := 1; i+1 < len(m.inputs); i += 2 {
			out.Columns = append(out.Columns, database.ColumnSpec{
				Name: m.inputs[i].Value(),
				Type: m.inputs[i+1].Value(),
			})
		}
	case KindInsert:
		out.Values = make(map[string]string, len(m.inputs))
		for i, col := range m.labels {
			out.Values[col] = m.inputs[i].Value()
		}
	case KindDelete:
		out.Condition = m.inputs[0].Value()
	}

	return func() tea.Msg { return out }
}

// tryCompletion completes the column name being typed at the end of the
// condition. Returns true if a completion was applied.
func (m *Model) tryCompletion() bool {
	if len(m.columns) == 0 {
		return false
	}

	// If already completing, cycle through candidates
	if m.completing && len(m.completions) > 0 {
		m.compIndex = (m.compIndex + 1) % len(m.completions)
		m.applyCompletion()
		return true
	}

	partial := extractLastWord(m.inputs[0].Value())
	if partial == "" {
		return false
	}

	lower := strings.ToLower(partial)
	var matches []string
	for _, name := range m.columns {
		if strings.HasPrefix(strings.ToLower(name), lower) {
			matches = append(matches, name)
		}
	}
	if len(matches) == 0 {
		return false
	}

	m.completing = true
	m.completions = matches
	m.compIndex = 0
	m.applyCompletion()
	return true
}

// applyCompletion replaces the partial word with the current candidate.
func (m *Model) applyCompletion() {
	val := m.inputs[0].Value()
	base := strings.TrimSuffix(val, extractLastWord(val))
	m.inputs[0].SetValue(base + m.completions[m.compIndex])
	m.inputs[0].CursorEnd()
}

func (m *Model) cancelCompletion() {
	m.completing = false
	m.completions = nil
	m.compIndex = 0
}

// extractLastWord returns the identifier being typed at the end of s.
func extractLastWord(s string) string {
	i := len(s) - 1
	for i >= 0 && isIdentChar(rune(s[i])) {
		i--
	}
	return s[i+1:]
}

func isIdentChar(c rune) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') || c == '_'
}

// View renders the form.
func (m Model) View() string {
	titleText := m.kind.String()
	if m.table != "" {
		titleText += ": " + m.table
	}
	title := theme.StylePaneTitle.Render(titleText)

	if m.kind == KindNone {
		return title + "\n" + theme.StyleMuted.Render("  Pick a table, then s: view  i: insert  x: delete  c: create")
	}
	if m.kind == KindInsert && len(m.inputs) == 0 {
		return title + "\n" + theme.StyleMuted.Render("  Table has no columns")
	}

	lines := []string{title}

	visible := max(m.height-3, 1)
	start := 0
	if m.focus >= visible {
		start = m.focus - visible + 1
	}
	end := min(start+visible, len(m.inputs))

	for i := start; i < end; i++ {
		label := theme.StyleLabel.Render(m.labels[i])
		if m.focused && i == m.focus {
			label = theme.StyleLabel.Foreground(theme.ColorHighlight).Render(m.labels[i])
		}
		lines = append(lines, " "+label+m.inputs[i].View())
	}

	if m.completing && len(m.completions) > 1 {
		hint := make([]string, 0, len(m.completions))
		for i, c := range m.completions {
			if i == m.compIndex {
				hint = append(hint, theme.StyleSelected.Render(c))
			} else {
				hint = append(hint, theme.StyleMuted.Render(c))
			}
		}
		lines = append(lines, " "+theme.StyleMuted.Render("Tab: ")+strings.Join(hint, " │ "))
	}

	help := "Ctrl+S: Submit │ Esc: Cancel"
	if m.kind == KindCreate {
		help += " │ Ctrl+N: Add column"
	}
	lines = append(lines, theme.StyleMuted.Render(" "+help))

	return strings.Join(lines, "\n")
}
