package database

import (
	"database/sql"
	"fmt"
)

// Materialize drains a cursor into a ResultTable.
//
// Column names are read once before iteration. Every value is scanned as
// text; database/sql converts numbers, booleans, timestamps and byte slices
// to their string form. NULL values leave the column out of the Row.
// The caller keeps ownership of rows and must close it.
func Materialize(rows *sql.Rows) (*ResultTable, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	result := &ResultTable{
		Columns: columns,
		Rows:    []Row{},
	}

	values := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		row := make(Row, len(columns))
		for i, col := range columns {
			if values[i].Valid {
				row[col] = values[i].String
			}
		}
		result.Rows = append(result.Rows, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	return result, nil
}
