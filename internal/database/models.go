package database

import "time"

// ColumnSpec is a column definition used when creating a table.
type ColumnSpec struct {
	Name string
	Type string
}

// TableDescriptor is the runtime-discovered shape of an existing table.
// It is recomputed on every request and never cached.
type TableDescriptor struct {
	Name    string
	Columns []string
}

// Row maps column names to their text value.
// A SQL NULL is represented by the column being absent from the map.
type Row map[string]string

// Get returns the value of a column, or "" when it is NULL.
func (r Row) Get(column string) string {
	return r[column]
}

// IsNull reports whether the column was NULL in the source row.
func (r Row) IsNull(column string) bool {
	_, ok := r[column]
	return !ok
}

// ResultTable holds the fully buffered result of a read.
type ResultTable struct {
	Columns  []string
	Rows     []Row
	Duration time.Duration
}

// RowCount returns the number of buffered rows.
func (t *ResultTable) RowCount() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Values returns row i rendered in column order.
func (t *ResultTable) Values(i int) []string {
	row := t.Rows[i]
	values := make([]string, len(t.Columns))
	for j, col := range t.Columns {
		values[j] = row.Get(col)
	}
	return values
}

// Outcome is the result of a write operation (CREATE, INSERT, DELETE).
type Outcome struct {
	Message     string
	Affected    int64
	HasAffected bool
	Err         error
}

// Success builds a successful outcome without a row count.
func Success(msg string) Outcome {
	return Outcome{Message: msg}
}

// SuccessAffected builds a successful outcome carrying the affected row count.
func SuccessAffected(msg string, n int64) Outcome {
	return Outcome{Message: msg, Affected: n, HasAffected: true}
}

// Failure builds a failed outcome.
func Failure(msg string, err error) Outcome {
	return Outcome{Message: msg, Err: err}
}

// Succeeded reports whether the operation completed without error.
func (o Outcome) Succeeded() bool {
	return o.Err == nil
}
