package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joacominatel/minadmin/internal/database"
	"github.com/joacominatel/minadmin/internal/statement"
)

var (
	// ErrTableExists is reported when creating a table whose name is taken.
	ErrTableExists = errors.New("table already exists")

	// ErrUnknownColumn is reported when an insert names a column the
	// target table does not have.
	ErrUnknownColumn = errors.New("unknown column")
)

// Service coordinates table administration between a front end and the database.
// The target table is passed explicitly to every operation; the service keeps
// no notion of a current table.
type Service struct {
	driver database.Driver
	logger *slog.Logger
}

// NewService creates a new application service.
// If logger is nil, a discard logger is used.
func NewService(driver database.Driver, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{driver: driver, logger: logger}
}

// Connect establishes the database connection.
func (s *Service) Connect(ctx context.Context, dsn string) error {
	if err := s.driver.Connect(ctx, dsn); err != nil {
		s.logger.Error("connect failed", slog.Any("error", err))
		return &ErrConnection{Cause: err}
	}
	s.logger.Info("connected", slog.String("database", s.driver.DatabaseName()))
	return nil
}

// Disconnect closes the database connection.
func (s *Service) Disconnect() error {
	return s.driver.Close()
}

// Ping checks that the connection is still usable.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.driver.Ping(ctx); err != nil {
		s.logger.Warn("ping failed", slog.Any("error", err))
		return &ErrConnection{Cause: err}
	}
	return nil
}

// DatabaseName returns the current database name.
func (s *Service) DatabaseName() string {
	return s.driver.DatabaseName()
}

// ListTables returns the base tables in catalog order.
func (s *Service) ListTables(ctx context.Context) ([]string, error) {
	tables, err := s.driver.ListTables(ctx)
	if err != nil {
		return nil, &ErrSchema{Cause: err}
	}
	return tables, nil
}

// TableExists reports whether the table exists. Any introspection failure
// is treated as "does not exist"; the error is logged, never returned.
func (s *Service) TableExists(ctx context.Context, table string) bool {
	ok, err := s.driver.TableExists(ctx, table)
	if err != nil {
		s.logger.Debug("existence check failed", slog.String("table", table), slog.Any("error", err))
		return false
	}
	return ok
}

// Describe discovers the current shape of a table.
func (s *Service) Describe(ctx context.Context, table string) (*database.TableDescriptor, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return nil, &ErrSchema{Cause: statement.ErrEmptyTable}
	}
	columns, err := s.driver.DiscoverColumns(ctx, table)
	if err != nil {
		return nil, &ErrSchema{Table: table, Cause: err}
	}
	return &database.TableDescriptor{Name: table, Columns: columns}, nil
}

// Query runs a read statement and returns the buffered result.
func (s *Service) Query(ctx context.Context, query string) (*database.ResultTable, error) {
	result, err := s.driver.Query(ctx, query)
	if err != nil {
		s.logger.Debug("query failed", slog.String("sql", query), slog.Any("error", err))
		return nil, newExecutionError(query, err)
	}
	return result, nil
}

// Execute runs an arbitrary DDL or DML statement.
func (s *Service) Execute(ctx context.Context, query string) database.Outcome {
	n, err := s.exec(ctx, query)
	if err != nil {
		return database.Failure("Execution failed: "+backendMessage(err), err)
	}
	return database.SuccessAffected(fmt.Sprintf("Statement executed, %d row(s) affected.", n), n)
}

func (s *Service) exec(ctx context.Context, query string) (int64, error) {
	n, err := s.driver.Exec(ctx, query)
	if err != nil {
		s.logger.Debug("exec failed", slog.String("sql", query), slog.Any("error", err))
		return 0, newExecutionError(query, err)
	}
	return n, nil
}

// ViewTable reads the whole table. There is no filter, limit or sort.
func (s *Service) ViewTable(ctx context.Context, table string) (*database.ResultTable, error) {
	table = strings.TrimSpace(table)
	if table == "" {
		return nil, &ErrSchema{Cause: statement.ErrEmptyTable}
	}
	return s.Query(ctx, statement.SelectAll(table))
}

// CreateTable creates a table from name/type pairs.
// Entries missing either a name or a type are dropped before building.
func (s *Service) CreateTable(ctx context.Context, name string, columns []database.ColumnSpec) database.Outcome {
	name = strings.TrimSpace(name)
	if name == "" {
		return database.Failure("Table name cannot be empty.", statement.ErrEmptyTable)
	}
	if s.TableExists(ctx, name) {
		return database.Failure("Table already exists. Use another name.", ErrTableExists)
	}

	var specs []database.ColumnSpec
	for _, col := range columns {
		col.Name = strings.TrimSpace(col.Name)
		col.Type = strings.TrimSpace(col.Type)
		if col.Name != "" && col.Type != "" {
			specs = append(specs, col)
		}
	}
	if len(specs) == 0 {
		return database.Failure("Add at least one column.", statement.ErrNoColumns)
	}

	query, err := statement.CreateTable(name, specs)
	if err != nil {
		return database.Failure("Creation failed: "+err.Error(), err)
	}
	if _, err := s.exec(ctx, query); err != nil {
		return database.Failure("Creation failed: "+backendMessage(err), err)
	}

	s.logger.Info("table created", slog.String("table", name), slog.Int("columns", len(specs)))
	return database.Success(fmt.Sprintf("Table '%s' created.", name))
}

// InsertRow inserts one row into table. The table's columns are discovered
// first; every discovered column receives values[column], or "" if absent.
func (s *Service) InsertRow(ctx context.Context, table string, values map[string]string) database.Outcome {
	desc, err := s.Describe(ctx, table)
	if err != nil {
		return database.Failure("Failed to get table structure: "+backendMessage(err), err)
	}

	known := make(map[string]bool, len(desc.Columns))
	for _, col := range desc.Columns {
		known[col] = true
	}
	for col := range values {
		if !known[col] {
			err := fmt.Errorf("%w: %s", ErrUnknownColumn, col)
			return database.Failure("Insertion failed: "+err.Error(), err)
		}
	}

	row := make([]string, len(desc.Columns))
	for i, col := range desc.Columns {
		row[i] = values[col]
	}
	return s.InsertValues(ctx, desc.Name, desc.Columns, row)
}

// InsertValues inserts one row with columns[i] paired to values[i].
func (s *Service) InsertValues(ctx context.Context, table string, columns, values []string) database.Outcome {
	table = strings.TrimSpace(table)
	if table == "" {
		return database.Failure("Select a table.", statement.ErrEmptyTable)
	}

	query, err := statement.Insert(table, columns, values)
	if err != nil {
		return database.Failure("Insertion failed: "+err.Error(), err)
	}
	n, err := s.exec(ctx, query)
	if err != nil {
		return database.Failure("Insertion failed: "+backendMessage(err), err)
	}

	s.logger.Info("row inserted", slog.String("table", table))
	return database.SuccessAffected(fmt.Sprintf("Data inserted into '%s'", table), n)
}

// DeleteRows deletes the rows of table matching condition.
// The condition is raw SQL and is not validated beyond being non-empty.
func (s *Service) DeleteRows(ctx context.Context, table, condition string) database.Outcome {
	table = strings.TrimSpace(table)
	query, err := statement.Delete(table, condition)
	if err != nil {
		return database.Failure("Please select a table and enter a condition.", err)
	}
	n, err := s.exec(ctx, query)
	if err != nil {
		return database.Failure("Delete failed: "+backendMessage(err), err)
	}

	s.logger.Info("rows deleted", slog.String("table", table), slog.Int64("rows", n))
	return database.SuccessAffected(fmt.Sprintf("%d row(s) deleted from '%s'.", n, table), n)
}
