package tracking

import (
	"context"
	"database/sql"
	"time"

	"github.com/gaborage/sqlkit/database/internal/rowtracker"
	"github.com/gaborage/sqlkit/database/types"
)

// BasicStatement wraps sql.Stmt to implement types.Statement interface
// without any tracking.
type BasicStatement struct {
	*sql.Stmt
}

// Query executes the prepared statement as a query
func (s *BasicStatement) Query(ctx context.Context, args ...any) (types.Rows, error) {
	rows, err := s.QueryContext(ctx, args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Exec executes the prepared statement without returning rows
func (s *BasicStatement) Exec(ctx context.Context, args ...any) (sql.Result, error) {
	return s.ExecContext(ctx, args...)
}

// Close closes the prepared statement
func (s *BasicStatement) Close() error {
	return s.Stmt.Close()
}

// Prepare prepares query on p, tracks the preparation and returns a tracked statement.
func Prepare(ctx context.Context, p types.Preparer, tc *Context, query string) (types.Statement, error) {
	return PrepareAs(ctx, p, tc, query, query)
}

// PrepareAs prepares text on p while logs, spans and metrics report query.
// text is the driver-specific rewrite of query.
func PrepareAs(ctx context.Context, p types.Preparer, tc *Context, text, query string) (types.Statement, error) {
	start := time.Now()
	stmt, err := p.PrepareContext(ctx, text)

	TrackDBOperation(ctx, tc, Operation{Query: preparePrefix + query, Start: start, Err: err})

	if err != nil {
		return nil, err
	}
	return NewStatement(&BasicStatement{Stmt: stmt}, tc, query), nil
}

// Statement wraps types.Statement to track every execution. A query is tracked
// when its cursor is closed so that the recorded duration and row count cover
// the whole cursor lifetime.
type Statement struct {
	stmt  types.Statement
	tc    *Context
	query string
}

// NewStatement wraps stmt with tracking through tc. query is the SQL text
// reported in logs, spans and metrics.
func NewStatement(stmt types.Statement, tc *Context, query string) types.Statement {
	return &Statement{stmt: stmt, tc: tc, query: query}
}

// Query executes the prepared statement and returns a cursor that is tracked on Close
func (s *Statement) Query(ctx context.Context, args ...any) (types.Rows, error) {
	start := time.Now()
	rows, err := s.stmt.Query(ctx, args...)
	if err != nil {
		TrackDBOperation(ctx, s.tc, Operation{Query: s.query, Args: args, Start: start, Streamed: true, Err: err})
		return nil, err
	}

	return rowtracker.Wrap(rows, func(count int64, rowsErr error) {
		TrackDBOperation(ctx, s.tc, Operation{
			Query:    s.query,
			Args:     args,
			Start:    start,
			Rows:     count,
			Streamed: true,
			Err:      rowsErr,
		})
	}), nil
}

// Exec executes the prepared statement and tracks the affected row count
func (s *Statement) Exec(ctx context.Context, args ...any) (sql.Result, error) {
	start := time.Now()
	result, err := s.stmt.Exec(ctx, args...)

	TrackDBOperation(ctx, s.tc, Operation{
		Query: s.query,
		Args:  args,
		Start: start,
		Rows:  extractRowsAffected(result, err),
		Err:   err,
	})
	return result, err
}

// Close closes the prepared statement
func (s *Statement) Close() error {
	return s.stmt.Close()
}
