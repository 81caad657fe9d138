package results

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joacominatel/minadmin/internal/database"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(s string) tea.KeyMsg {
	switch s {
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func studentsModel() Model {
	m := New()
	m.SetSize(80, 20)
	m.SetFocused(true)
	m.SetResult("students", &database.ResultTable{
		Columns: []string{"id", "name"},
		Rows: []database.Row{
			{"id": "1", "name": "O'Brien"},
			{"id": "2"},
		},
	})
	return m
}

func stubClipboard(t *testing.T, err error) *string {
	t.Helper()
	var copied string
	orig := clipboardWrite
	clipboardWrite = func(s string) error {
		copied = s
		return err
	}
	t.Cleanup(func() { clipboardWrite = orig })
	return &copied
}

func TestDeleteByValue(t *testing.T) {
	m := studentsModel()
	m, _ = m.Update(key("right"))

	_, cmd := m.Update(key("d"))
	require.NotNil(t, cmd)
	assert.Equal(t, DeleteByValueMsg{Table: "students", Condition: "name = 'O''Brien'"}, cmd())
}

func TestDeleteByValue_Null(t *testing.T) {
	m := studentsModel()
	m, _ = m.Update(key("right"))
	m, _ = m.Update(key("down"))

	_, cmd := m.Update(key("d"))
	require.NotNil(t, cmd)
	assert.Equal(t, DeleteByValueMsg{Table: "students", Condition: "name IS NULL"}, cmd())
}

func TestCopyActions(t *testing.T) {
	copied := stubClipboard(t, nil)
	m := studentsModel()

	m, _ = m.Update(key("c"))
	assert.Equal(t, "1", *copied)
	assert.Equal(t, "Copied: 1", m.TakeStatus())
	assert.Empty(t, m.TakeStatus())

	m, _ = m.Update(key("y"))
	assert.Equal(t, "id,name\n1,O'Brien\n", *copied)

	m, _ = m.Update(key("down"))
	m, _ = m.Update(key("J"))
	assert.Equal(t, `{"id":"2","name":null}`, *copied)
	assert.Equal(t, "Copied row as JSON", m.TakeStatus())
}

func TestCopyFailure(t *testing.T) {
	stubClipboard(t, errors.New("no clipboard"))
	m := studentsModel()

	m, _ = m.Update(key("c"))
	assert.Equal(t, "Copy failed: no clipboard", m.TakeStatus())
}

func TestView(t *testing.T) {
	m := studentsModel()
	out := m.View()
	assert.Contains(t, out, "Data: students")
	assert.Contains(t, out, "2 row(s)")
	assert.Contains(t, out, "O'Brien")
	assert.Contains(t, out, nullDisplay)

	m.SetResult("empty", &database.ResultTable{Columns: []string{"id"}, Rows: []database.Row{}})
	assert.Contains(t, m.View(), "No data to show")

	m.SetError(errors.New(`relation "ghosts" does not exist`))
	assert.Nil(t, m.Result())
	assert.Contains(t, m.View(), "Could not load data")
}

func TestUnfocusedIgnoresKeys(t *testing.T) {
	m := studentsModel()
	m.SetFocused(false)
	_, cmd := m.Update(key("d"))
	assert.Nil(t, cmd)
}
