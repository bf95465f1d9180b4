// Package types contains the core database interface definitions for sqlkit.
// These interfaces are separate from the main database package to avoid import cycles
// and to make them easily accessible for mocking and testing.
//
//nolint:revive // Package name "types" is intentionally generic to avoid circular imports
package types

import (
	"context"
	"database/sql"
)

// Rows is the cursor a row mapper reads from. *sql.Rows satisfies it.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Columns() ([]string, error)
	Err() error
	Close() error
}

var _ Rows = (*sql.Rows)(nil)

// Statement defines the interface for prepared statements
type Statement interface {
	Query(ctx context.Context, args ...any) (Rows, error)
	Exec(ctx context.Context, args ...any) (sql.Result, error)
	Close() error
}

// Preparer is the caller-owned connection a query is prepared on.
// *sql.DB, *sql.Conn and *sql.Tx all satisfy it.
type Preparer interface {
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
}

var (
	_ Preparer = (*sql.DB)(nil)
	_ Preparer = (*sql.Conn)(nil)
	_ Preparer = (*sql.Tx)(nil)
)
