package statusbar

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joacominatel/minadmin/internal/database"
	"github.com/joacominatel/minadmin/internal/tui/theme"
)

// Kind selects how a status message is styled.
type Kind int

const (
	KindInfo Kind = iota
	KindSuccess
	KindError
)

// Model is the status bar component.
type Model struct {
	width      int
	connected  bool
	connName   string
	activePane string
	message    string
	kind       Kind
}

// New creates a new status bar model.
func New() Model {
	return Model{
		activePane: "explorer",
	}
}

// SetWidth updates the component width.
func (m *Model) SetWidth(w int) {
	m.width = w
}

// SetConnected updates the connection status display.
func (m *Model) SetConnected(connected bool, name string) {
	m.connected = connected
	m.connName = name
}

// SetActivePane updates the displayed active pane name.
func (m *Model) SetActivePane(pane string) {
	m.activePane = pane
}

// SetMessage sets a neutral status message. An empty message restores the hints.
func (m *Model) SetMessage(msg string) {
	m.message = msg
	m.kind = KindInfo
}

// SetSuccess sets a success message.
func (m *Model) SetSuccess(msg string) {
	m.message = msg
	m.kind = KindSuccess
}

// SetError sets an error message.
func (m *Model) SetError(msg string) {
	m.message = msg
	m.kind = KindError
}

// SetOutcome shows the message of a write operation, styled by its result.
func (m *Model) SetOutcome(o database.Outcome) {
	if o.Succeeded() {
		m.SetSuccess(o.Message)
		return
	}
	m.SetError(o.Message)
}

// Message returns the current message and its kind.
func (m Model) Message() (string, Kind) {
	return m.message, m.kind
}

// Init returns the initial command (none).
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages (status bar has no interactive behavior).
func (m Model) Update(_ tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

func (m Model) hints() string {
	switch m.activePane {
	case "completion":
		return "Tab: Next match │ Esc: Stop completing"
	case "form":
		return "Ctrl+S: Submit │ Esc: Cancel │ Tab: Next field"
	case "results":
		return "c: Copy cell │ y: Copy CSV │ d: Delete by value │ Tab: Switch pane"
	default:
		return "s: View │ i: Insert │ x: Delete │ c: Create │ ?: Help │ q: Quit"
	}
}

// View renders the status bar.
func (m Model) View() string {
	style := theme.StyleStatusBar.Width(m.width)

	var connIndicator string
	if m.connected {
		connIndicator = lipgloss.NewStyle().
			Foreground(theme.ColorSuccess).
			Render("●") + " " + m.connName
	} else {
		connIndicator = lipgloss.NewStyle().
			Foreground(theme.ColorError).
			Render("●") + " disconnected"
	}

	right := m.hints()
	if m.message != "" {
		switch m.kind {
		case KindSuccess:
			right = lipgloss.NewStyle().Foreground(theme.ColorSuccess).Render(m.message)
		case KindError:
			right = lipgloss.NewStyle().Foreground(theme.ColorError).Render(m.message)
		default:
			right = m.message
		}
	}

	padding := m.width - lipgloss.Width(connIndicator) - lipgloss.Width(right) - 4 // borders + spacing
	if padding < 1 {
		padding = 1
	}

	return style.Render(connIndicator + strings.Repeat(" ", padding) + right)
}
