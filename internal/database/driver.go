package database

import (
	"context"
	"errors"
)

// ErrNotConnected is returned by every operation on a driver that has no
// open connection, either because Connect was never called or because the
// connection was closed.
var ErrNotConnected = errors.New("not connected")

// Driver defines the interface for database operations.
// A driver owns exactly one connection; implementations must serialize
// access to it so that concurrent callers cannot interleave on the handle.
type Driver interface {
	// Connect establishes the connection to the database.
	Connect(ctx context.Context, dsn string) error

	// Close closes the database connection.
	Close() error

	// Ping checks if the connection is alive.
	Ping(ctx context.Context) error

	// ListTables returns the base tables visible in the current schema.
	ListTables(ctx context.Context) ([]string, error)

	// TableExists looks a table up in the catalog by exact name.
	TableExists(ctx context.Context, table string) (bool, error)

	// DiscoverColumns returns a table's column names using a probe query.
	DiscoverColumns(ctx context.Context, table string) ([]string, error)

	// Exec runs a statement that does not return rows and reports the
	// number of affected rows.
	Exec(ctx context.Context, query string) (int64, error)

	// Query runs a read and returns the fully materialized result.
	Query(ctx context.Context, query string) (*ResultTable, error)

	// DatabaseName returns the name of the connected database.
	DatabaseName() string
}
