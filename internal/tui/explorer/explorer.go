package explorer

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/minadmin/internal/tui/theme"
)

// NodeKind identifies the type of a tree node.
type NodeKind int

const (
	NodeDatabase NodeKind = iota
	NodeTable
	NodeColumn
)

// TreeNode represents a single node in the table tree.
type TreeNode struct {
	Kind     NodeKind
	Name     string
	Children []*TreeNode
	Expanded bool

	Table string // parent table name (for columns)
}

// flatItem is a visible item in the flattened tree view.
type flatItem struct {
	node  *TreeNode
	depth int
}

// Action is an operation requested from the explorer.
type Action int

const (
	ActionView Action = iota
	ActionInsert
	ActionDelete
	ActionCreate
	ActionRefresh
)

// ActionMsg asks the app to run an operation. Table is empty for
// ActionCreate and ActionRefresh.
type ActionMsg struct {
	Action Action
	Table  string
}

// Model is the explorer (table tree) component.
type Model struct {
	tree    *TreeNode
	items   []flatItem
	cursor  int
	width   int
	height  int
	focused bool
	loading bool
}

// New creates a new explorer model.
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

// Focused returns whether the explorer has focus.
func (m Model) Focused() bool {
	return m.focused
}

// SetLoading sets the loading state.
func (m *Model) SetLoading(l bool) {
	m.loading = l
}

// SetTables replaces the tree with the given tables, keeping the order
// the catalog returned them in.
func (m *Model) SetTables(database string, tables []string) {
	root := &TreeNode{
		Kind:     NodeDatabase,
		Name:     database,
		Expanded: true,
	}
	for _, t := range tables {
		root.Children = append(root.Children, &TreeNode{Kind: NodeTable, Name: t})
	}

	m.tree = root
	m.flatten()
	m.loading = false
}

// Tables returns the table names currently shown.
func (m Model) Tables() []string {
	if m.tree == nil {
		return nil
	}
	names := make([]string, len(m.tree.Children))
	for i, t := range m.tree.Children {
		names[i] = t.Name
	}
	return names
}

// SetColumns replaces the column nodes of a table.
func (m *Model) SetColumns(table string, columns []string) {
	if m.tree == nil {
		return
	}
	for _, t := range m.tree.Children {
		if t.Name != table {
			continue
		}
		t.Children = nil
		for _, col := range columns {
			t.Children = append(t.Children, &TreeNode{
				Kind:  NodeColumn,
				Name:  col,
				Table: table,
			})
		}
		break
	}
	m.flatten()
}

// SelectedTable returns the table under the cursor, if any.
func (m Model) SelectedTable() (string, bool) {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return "", false
	}
	node := m.items[m.cursor].node
	switch node.Kind {
	case NodeTable:
		return node.Name, true
	case NodeColumn:
		return node.Table, true
	}
	return "", false
}

// flatten rebuilds the flat item list from the tree.
func (m *Model) flatten() {
	m.items = nil
	if m.tree != nil {
		m.flattenNode(m.tree, 0)
	}
	if m.cursor >= len(m.items) {
		m.cursor = max(0, len(m.items)-1)
	}
}

func (m *Model) flattenNode(node *TreeNode, depth int) {
	m.items = append(m.items, flatItem{node: node, depth: depth})
	if node.Expanded {
		for _, child := range node.Children {
			m.flattenNode(child, depth+1)
		}
	}
}

// Init returns the initial command (none).
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the explorer.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.focused {
		return m, nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}
	case "enter", "right", "l":
		return m, m.toggleExpand()
	case "left", "h":
		m.collapse()
	case "s":
		return m, m.tableAction(ActionView)
	case "i":
		return m, m.tableAction(ActionInsert)
	case "x":
		return m, m.tableAction(ActionDelete)
	case "c":
		return m, emit(ActionMsg{Action: ActionCreate})
	case "r":
		return m, emit(ActionMsg{Action: ActionRefresh})
	}

	return m, nil
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func (m *Model) tableAction(a Action) tea.Cmd {
	table, ok := m.SelectedTable()
	if !ok {
		return nil
	}
	return emit(ActionMsg{Action: a, Table: table})
}

func (m *Model) toggleExpand() tea.Cmd {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return nil
	}
	node := m.items[m.cursor].node

	// Columns have no children
	if node.Kind == NodeColumn {
		return nil
	}

	if node.Expanded {
		node.Expanded = false
		m.flatten()
		return nil
	}

	node.Expanded = true
	m.flatten()

	// Columns are rediscovered on every expand; the table may have changed.
	if node.Kind == NodeTable {
		return emit(requestColumnsMsg{Table: node.Name})
	}

	return nil
}

func (m *Model) collapse() {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return
	}
	node := m.items[m.cursor].node

	if node.Expanded {
		node.Expanded = false
		m.flatten()
	}
}

// requestColumnsMsg is sent when a table is expanded and needs column data.
type requestColumnsMsg struct {
	Table string
}

// IsRequestColumnsMsg reports whether msg asks for a table's columns.
func IsRequestColumnsMsg(msg tea.Msg) (table string, ok bool) {
	if m, ok := msg.(requestColumnsMsg); ok {
		return m.Table, true
	}
	return "", false
}

// View renders the explorer.
func (m Model) View() string {
	title := theme.StylePaneTitle.Render("Tables")

	if m.loading {
		return title + "\n" + theme.StyleMuted.Render("  Loading...")
	}

	if m.tree == nil {
		return title + "\n" + theme.StyleMuted.Render("  No connection")
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n")

	visibleHeight := m.height - 2 // title + padding
	if visibleHeight < 1 {
		visibleHeight = 1
	}

	// Scroll offset to keep cursor visible
	scrollOffset := 0
	if m.cursor >= visibleHeight {
		scrollOffset = m.cursor - visibleHeight + 1
	}

	for i := scrollOffset; i < len(m.items) && i < scrollOffset+visibleHeight; i++ {
		b.WriteString(m.renderNode(m.items[i], i == m.cursor))
		if i < scrollOffset+visibleHeight-1 {
			b.WriteString("\n")
		}
	}

	if len(m.tree.Children) == 0 {
		b.WriteString("\n" + theme.StyleMuted.Render("  No tables (c: create)"))
	}

	return b.String()
}

func (m Model) renderNode(item flatItem, selected bool) string {
	node := item.node
	indent := strings.Repeat("  ", item.depth)

	icon := "  "
	if node.Kind != NodeColumn {
		icon = "▶ "
		if node.Expanded {
			icon = "▼ "
		}
	}

	line := indent + icon + node.Name

	// Truncate to width
	if m.width > 4 && lipgloss.Width(line) > m.width-2 {
		runes := []rune(line)
		for len(runes) > 0 && lipgloss.Width(string(runes)) > m.width-4 {
			runes = runes[:len(runes)-1]
		}
		line = string(runes) + ".."
	}

	if selected {
		return theme.StyleSelected.Render(line)
	}
	if node.Kind == NodeColumn {
		return theme.StyleMuted.Render(line)
	}
	return line
}
