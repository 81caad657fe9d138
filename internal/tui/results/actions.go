package results

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joacominatel/minadmin/internal/statement"
)

// clipboardWrite is swapped out in tests.
var clipboardWrite = clipboard.WriteAll

func (m Model) hasRow() bool {
	return m.result != nil && m.cursorY >= 0 && m.cursorY < len(m.result.Rows)
}

func (m Model) getColumnName() string {
	if m.result == nil || m.cursorX < 0 || m.cursorX >= len(m.result.Columns) {
		return ""
	}
	return m.result.Columns[m.cursorX]
}

// getCell returns the selected cell's text and whether it is NULL.
func (m Model) getCell() (string, bool) {
	col := m.getColumnName()
	if col == "" || !m.hasRow() {
		return "", false
	}
	row := m.result.Rows[m.cursorY]
	return row.Get(col), row.IsNull(col)
}

// --- Copy ---

func (m *Model) doCopyCell() {
	val, _ := m.getCell()
	if val == "" {
		m.statusMessage = "Nothing to copy"
		return
	}
	if err := clipboardWrite(val); err != nil {
		m.statusMessage = "Copy failed: " + err.Error()
		return
	}
	m.statusMessage = "Copied: " + truncateStatus(val, 40)
}

func (m *Model) doCopyRowJSON() {
	if !m.hasRow() {
		m.statusMessage = "No row to copy"
		return
	}
	out, err := rowToJSON(m.result.Columns, m.result.Rows[m.cursorY])
	if err != nil {
		m.statusMessage = "Copy failed: " + err.Error()
		return
	}
	if err := clipboardWrite(out); err != nil {
		m.statusMessage = "Copy failed: " + err.Error()
		return
	}
	m.statusMessage = "Copied row as JSON"
}

func (m *Model) doCopyRowCSV() {
	if !m.hasRow() {
		m.statusMessage = "No row to copy"
		return
	}
	var b strings.Builder
	w := csv.NewWriter(&b)
	_ = w.Write(m.result.Columns)
	_ = w.Write(m.result.Values(m.cursorY))
	w.Flush()
	if err := clipboardWrite(b.String()); err != nil {
		m.statusMessage = "Copy failed: " + err.Error()
		return
	}
	m.statusMessage = "Copied row as CSV"
}

// --- Delete ---

// doDeleteByValue pre-fills a delete condition matching the selected cell.
func (m *Model) doDeleteByValue() tea.Cmd {
	col := m.getColumnName()
	if col == "" || !m.hasRow() || m.table == "" {
		m.statusMessage = "Cannot delete: no cell selected"
		return nil
	}

	val, isNull := m.getCell()
	condition := fmt.Sprintf("%s = %s", col, statement.QuoteLiteral(val))
	if isNull {
		condition = col + " IS NULL"
	}

	table := m.table
	return func() tea.Msg {
		return DeleteByValueMsg{Table: table, Condition: condition}
	}
}

// rowToJSON encodes a row as an object; NULL columns become null.
func rowToJSON(columns []string, row map[string]string) (string, error) {
	var b strings.Builder
	b.WriteString("{")
	for i, col := range columns {
		if i > 0 {
			b.WriteString(",")
		}
		key, err := json.Marshal(col)
		if err != nil {
			return "", err
		}
		b.Write(key)
		b.WriteString(":")
		val, ok := row[col]
		if !ok {
			b.WriteString("null")
			continue
		}
		enc, err := json.Marshal(val)
		if err != nil {
			return "", err
		}
		b.Write(enc)
	}
	b.WriteString("}")
	return b.String(), nil
}

func truncateStatus(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
