package cli

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/joacominatel/minadmin/internal/database"
)

const nullText = "NULL"

var renderers = map[string]func(io.Writer, *database.ResultTable) error{
	"table": renderTable,
	"csv":   renderCSV,
	"json":  renderJSON,
}

func renderTable(w io.Writer, r *database.ResultTable) error {
	if r.RowCount() == 0 {
		_, _ = fmt.Fprintln(w, "(0 rows)")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(r.Columns))
	for i, col := range r.Columns {
		header[i] = col
	}
	t.AppendHeader(header)

	for _, row := range r.Rows {
		out := make(table.Row, len(r.Columns))
		for i, col := range r.Columns {
			if row.IsNull(col) {
				out[i] = nullText
				continue
			}
			out[i] = row.Get(col)
		}
		t.AppendRow(out)
	}

	t.Render()
	_, _ = fmt.Fprintf(w, "(%d rows)\n", r.RowCount())
	return nil
}

// renderCSV writes NULL as an empty field.
func renderCSV(w io.Writer, r *database.ResultTable) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(r.Columns); err != nil {
		return err
	}
	for i := range r.Rows {
		if err := cw.Write(r.Values(i)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// renderJSON writes an array of objects keyed by column; NULL becomes null.
func renderJSON(w io.Writer, r *database.ResultTable) error {
	out := make([]map[string]*string, 0, r.RowCount())
	for _, row := range r.Rows {
		obj := make(map[string]*string, len(r.Columns))
		for _, col := range r.Columns {
			if v, ok := row[col]; ok {
				obj[col] = &v
			} else {
				obj[col] = nil
			}
		}
		out = append(out, obj)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
