package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	// Registers the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joacominatel/minadmin/internal/database"
	"github.com/joacominatel/minadmin/internal/statement"
)

// Driver implements the database.Driver interface for PostgreSQL.
// It holds one dedicated connection and serializes every call on it.
type Driver struct {
	mu     sync.Mutex
	db     *sql.DB
	conn   *sql.Conn
	dbName string
	logger *slog.Logger
}

// New creates a new PostgreSQL driver.
// If logger is nil, a discard logger is used.
func New(logger *slog.Logger) *Driver {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Driver{logger: logger}
}

// Connect opens a single connection to PostgreSQL. It does not retry.
func (d *Driver) Connect(ctx context.Context, dsn string) error {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return fmt.Errorf("parse dsn: %w", err)
	}
	if err := d.attach(ctx, db); err != nil {
		_ = db.Close()
		return err
	}
	return nil
}

// attach takes ownership of db and pins one connection out of it.
func (d *Driver) attach(ctx context.Context, db *sql.DB) error {
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return fmt.Errorf("ping: %w", err)
	}

	var name string
	if err := conn.QueryRowContext(ctx, queryDatabaseName).Scan(&name); err != nil {
		_ = conn.Close()
		return fmt.Errorf("database name: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.db = db
	d.conn = conn
	d.dbName = name
	d.logger.Debug("connected", slog.String("database", name))
	return nil
}

// Close releases the connection. Later calls fail with database.ErrNotConnected.
func (d *Driver) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.db == nil {
		return nil
	}
	d.logger.Debug("closing database connection")

	var err error
	if d.conn != nil {
		err = d.conn.Close()
	}
	if cerr := d.db.Close(); err == nil {
		err = cerr
	}
	d.db = nil
	d.conn = nil
	return err
}

// Ping checks if the connection is alive.
func (d *Driver) Ping(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil {
		return database.ErrNotConnected
	}
	return d.conn.PingContext(ctx)
}

// ListTables returns the base tables of the current schema in catalog order.
func (d *Driver) ListTables(ctx context.Context) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil {
		return nil, database.ErrNotConnected
	}

	rows, err := d.conn.QueryContext(ctx, queryListTables)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	tables := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		tables = append(tables, name)
	}
	return tables, rows.Err()
}

// TableExists reports whether a base table with exactly this name exists.
func (d *Driver) TableExists(ctx context.Context, table string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil {
		return false, database.ErrNotConnected
	}

	var exists bool
	if err := d.conn.QueryRowContext(ctx, queryTableExists, table).Scan(&exists); err != nil {
		return false, fmt.Errorf("table exists: %w", err)
	}
	return exists, nil
}

// DiscoverColumns reads a table's column names from a one-row probe.
// Column metadata does not depend on rows, so empty tables work too.
func (d *Driver) DiscoverColumns(ctx context.Context, table string) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil {
		return nil, database.ErrNotConnected
	}

	rows, err := d.conn.QueryContext(ctx, statement.Probe(table))
	if err != nil {
		return nil, fmt.Errorf("probe: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("probe columns: %w", err)
	}
	return columns, nil
}

// Exec runs a DDL or DML statement and returns the affected row count.
func (d *Driver) Exec(ctx context.Context, query string) (int64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil {
		return 0, database.ErrNotConnected
	}

	d.logger.Debug("exec", slog.String("sql", query))
	res, err := d.conn.ExecContext(ctx, query)
	if err != nil {
		return 0, fmt.Errorf("execute: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		d.logger.Debug("rows affected unavailable", slog.Any("error", err))
		return 0, nil
	}
	return n, nil
}

// Query runs a read and buffers the entire result.
func (d *Driver) Query(ctx context.Context, query string) (*database.ResultTable, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.conn == nil {
		return nil, database.ErrNotConnected
	}

	start := time.Now()
	d.logger.Debug("query", slog.String("sql", query))

	rows, err := d.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("execute: %w", err)
	}
	defer rows.Close()

	result, err := database.Materialize(rows)
	if err != nil {
		return nil, err
	}
	result.Duration = time.Since(start)
	return result, nil
}

// DatabaseName returns the name of the connected database.
func (d *Driver) DatabaseName() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.dbName
}
