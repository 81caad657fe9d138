// Package statement synthesizes SQL text for the dynamic CRUD operations.
//
// Every function here is pure string assembly. Table and column names, as
// well as delete predicates, are interpolated verbatim: nothing is quoted or
// parameterized except literal values, whose single quotes are doubled.
// Callers exposing these functions to untrusted input inherit that risk.
package statement

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joacominatel/minadmin/internal/database"
)

// DefaultVarcharLength is the length given to a bare VARCHAR column type.
const DefaultVarcharLength = 255

var (
	ErrEmptyTable     = errors.New("table name cannot be empty")
	ErrNoColumns      = errors.New("at least one column is required")
	ErrEmptyColumn    = errors.New("column name and type cannot be empty")
	ErrColumnMismatch = errors.New("columns and values must have the same length")
	ErrEmptyCondition = errors.New("delete condition cannot be empty")
)

// NormalizeType expands a bare "varchar" (any casing) to VARCHAR(255).
// Other type keywords are returned trimmed but otherwise untouched.
func NormalizeType(t string) string {
	t = strings.TrimSpace(t)
	if strings.EqualFold(t, "varchar") {
		return fmt.Sprintf("VARCHAR(%d)", DefaultVarcharLength)
	}
	return t
}

// QuoteLiteral wraps v in single quotes, doubling any embedded quote.
func QuoteLiteral(v string) string {
	return "'" + strings.ReplaceAll(v, "'", "''") + "'"
}

// CreateTable builds CREATE TABLE name (col1 type1, col2 type2, ...).
func CreateTable(name string, columns []database.ColumnSpec) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrEmptyTable
	}
	if len(columns) == 0 {
		return "", ErrNoColumns
	}

	defs := make([]string, len(columns))
	for i, col := range columns {
		typ := NormalizeType(col.Type)
		if col.Name == "" || typ == "" {
			return "", fmt.Errorf("column %d: %w", i+1, ErrEmptyColumn)
		}
		defs[i] = col.Name + " " + typ
	}

	return "CREATE TABLE " + name + " (" + strings.Join(defs, ", ") + ")", nil
}

// Insert builds INSERT INTO table (cols...) VALUES (values...).
// columns[i] pairs with values[i]; every value is emitted as a quoted literal.
func Insert(table string, columns, values []string) (string, error) {
	if strings.TrimSpace(table) == "" {
		return "", ErrEmptyTable
	}
	if len(columns) == 0 {
		return "", ErrNoColumns
	}
	if len(columns) != len(values) {
		return "", fmt.Errorf("%w: %d columns, %d values", ErrColumnMismatch, len(columns), len(values))
	}

	literals := make([]string, len(values))
	for i, v := range values {
		literals[i] = QuoteLiteral(v)
	}

	return "INSERT INTO " + table +
		" (" + strings.Join(columns, ", ") + ")" +
		" VALUES (" + strings.Join(literals, ", ") + ")", nil
}

// SelectAll builds an unfiltered, unbounded read of a whole table.
func SelectAll(table string) string {
	return "SELECT * FROM " + table
}

// Probe builds a read of at most one row, used to discover column names.
func Probe(table string) string {
	return "SELECT * FROM " + table + " LIMIT 1"
}

// Delete builds DELETE FROM table WHERE condition.
// The condition is raw predicate text and is inserted as is.
func Delete(table, condition string) (string, error) {
	if strings.TrimSpace(table) == "" {
		return "", ErrEmptyTable
	}
	condition = strings.TrimSpace(condition)
	if condition == "" {
		return "", ErrEmptyCondition
	}
	return "DELETE FROM " + table + " WHERE " + condition, nil
}
