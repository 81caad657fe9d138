package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joacominatel/minadmin/internal/app"
	"github.com/joacominatel/minadmin/internal/database"
	"github.com/spf13/cobra"
)

// outcomeError reports a failed Outcome with its user-facing message.
type outcomeError struct {
	message string
	cause   error
}

func (e *outcomeError) Error() string { return e.message }
func (e *outcomeError) Unwrap() error { return e.cause }

// report prints a successful outcome or turns a failed one into an error.
func report(cmd *cobra.Command, out database.Outcome) error {
	if !out.Succeeded() {
		return &outcomeError{message: out.Message, cause: out.Err}
	}
	msg := out.Message
	if out.HasAffected && !strings.Contains(msg, "row(s)") {
		msg = fmt.Sprintf("%s (%d row(s) affected)", msg, out.Affected)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}

func (g *global) tablesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the tables of the current schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return g.withService(cmd.Context(), func(s *app.Service) error {
				tables, err := s.ListTables(cmd.Context())
				if err != nil {
					return err
				}
				for _, t := range tables {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), t)
				}
				return nil
			})
		},
	}
}

func (g *global) describeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "describe TABLE",
		Short: "Print the column names of a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return g.withService(cmd.Context(), func(s *app.Service) error {
				desc, err := s.Describe(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				for _, c := range desc.Columns {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), c)
				}
				return nil
			})
		},
	}
}

func (g *global) viewCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "view TABLE",
		Short: "Print every row of a table",
		Example: `  # Render as a table
  minadmin view students

  # Export as CSV
  minadmin view students -o csv > students.csv`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			render, ok := renderers[format]
			if !ok {
				return fmt.Errorf("unknown output format %q (table, csv, json)", format)
			}
			return g.withService(cmd.Context(), func(s *app.Service) error {
				result, err := s.ViewTable(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), result)
			})
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", "table", "Output format (table|csv|json)")
	_ = cmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"table", "csv", "json"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func (g *global) createCommand() *cobra.Command {
	var columns []string

	cmd := &cobra.Command{
		Use:   "create TABLE",
		Short: "Create a table",
		Example: `  minadmin create students -c id:INT -c name:varchar`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			specs := make([]database.ColumnSpec, 0, len(columns))
			for _, c := range columns {
				name, typ, ok := strings.Cut(c, ":")
				if !ok {
					return fmt.Errorf("column %q: expected name:type", c)
				}
				specs = append(specs, database.ColumnSpec{Name: name, Type: typ})
			}
			return g.withService(cmd.Context(), func(s *app.Service) error {
				return report(cmd, s.CreateTable(cmd.Context(), args[0], specs))
			})
		},
	}

	cmd.Flags().StringArrayVarP(&columns, "column", "c", nil, "Column as name:type (repeatable)")
	return cmd
}

func (g *global) insertCommand() *cobra.Command {
	var sets []string

	cmd := &cobra.Command{
		Use:   "insert TABLE",
		Short: "Insert one row; unset columns receive an empty string",
		Example: `  minadmin insert students -s id=1 -s "name=O'Brien"`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			values := make(map[string]string, len(sets))
			for _, kv := range sets {
				col, val, ok := strings.Cut(kv, "=")
				if !ok {
					return fmt.Errorf("value %q: expected column=value", kv)
				}
				values[strings.TrimSpace(col)] = val
			}
			return g.withService(cmd.Context(), func(s *app.Service) error {
				return report(cmd, s.InsertRow(cmd.Context(), args[0], values))
			})
		},
	}

	cmd.Flags().StringArrayVarP(&sets, "set", "s", nil, "Value as column=value (repeatable)")
	return cmd
}

func (g *global) deleteCommand() *cobra.Command {
	var where string

	cmd := &cobra.Command{
		Use:   "delete TABLE",
		Short: "Delete the rows matching a condition",
		Example: `  minadmin delete students --where "id > 1"`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(where) == "" {
				return errors.New("--where is required")
			}
			return g.withService(cmd.Context(), func(s *app.Service) error {
				return report(cmd, s.DeleteRows(cmd.Context(), args[0], where))
			})
		},
	}

	cmd.Flags().StringVar(&where, "where", "", "SQL condition selecting the rows to delete")
	return cmd
}
