package app

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrConnection represents a database connection error.
type ErrConnection struct {
	Cause error
}

func (e *ErrConnection) Error() string {
	return fmt.Sprintf("connection error: %v", e.Cause)
}

func (e *ErrConnection) Unwrap() error {
	return e.Cause
}

// ErrSchema represents a failed introspection or a missing table.
type ErrSchema struct {
	Table string
	Cause error
}

func (e *ErrSchema) Error() string {
	if e.Table == "" {
		return fmt.Sprintf("schema error: %v", e.Cause)
	}
	return fmt.Sprintf("schema error on %s: %v", e.Table, e.Cause)
}

func (e *ErrSchema) Unwrap() error {
	return e.Cause
}

// ErrExecution represents a statement rejected by the backend.
// Code and Message carry the backend's SQLSTATE and message when known.
type ErrExecution struct {
	Query   string
	Code    string
	Message string
	Cause   error
}

func (e *ErrExecution) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("execution error: %s (SQLSTATE %s)", e.Message, e.Code)
	}
	return fmt.Sprintf("execution error: %s", e.Message)
}

func (e *ErrExecution) Unwrap() error {
	return e.Cause
}

// ErrConfig represents a configuration error.
type ErrConfig struct {
	Cause error
}

func (e *ErrConfig) Error() string {
	return fmt.Sprintf("config error: %v", e.Cause)
}

func (e *ErrConfig) Unwrap() error {
	return e.Cause
}

func newExecutionError(query string, err error) *ErrExecution {
	e := &ErrExecution{Query: query, Message: err.Error(), Cause: err}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		e.Code = pgErr.Code
		e.Message = pgErr.Message
	}
	return e
}

// backendMessage returns the most specific human-readable message for err.
func backendMessage(err error) string {
	var execErr *ErrExecution
	if errors.As(err, &execErr) {
		return execErr.Message
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Message
	}
	return err.Error()
}
