package database

import (
	"context"
	"errors"

	"github.com/gaborage/sqlkit/config"
	"github.com/gaborage/sqlkit/database/internal/tracking"
	"github.com/gaborage/sqlkit/database/types"
	"github.com/gaborage/sqlkit/logger"
)

// DefaultIdentifierQuote is used when a dialect does not name its own quote.
const DefaultIdentifierQuote = `"`

// Conn runs queries on a caller-owned connection. It never closes the
// connection it was created with; statements and cursors it opens are
// released by the executors or by RowIterator.Close.
//
// Query text uses '?' placeholders. Conn rewrites them into the dialect's
// placeholder format when preparing, while logs, spans and errors keep the
// text as written.
type Conn struct {
	preparer types.Preparer
	log      logger.Logger
	dialect  types.Dialect
	tc       *tracking.Context
}

// NewConn wraps p. A nil log discards output; cfg tunes query tracking and may
// be nil.
func NewConn(p types.Preparer, log logger.Logger, dialect types.Dialect, cfg *config.DatabaseConfig) *Conn {
	if log == nil {
		log = logger.Nop()
	}
	if dialect.IdentifierQuote == "" {
		dialect.IdentifierQuote = DefaultIdentifierQuote
	}
	return &Conn{
		preparer: p,
		log:      log,
		dialect:  dialect,
		tc: &tracking.Context{
			Logger:   log,
			Vendor:   dialect.Vendor,
			Settings: tracking.NewSettings(cfg),
		},
	}
}

// Dialect returns the connection metadata queries are prepared with.
func (c *Conn) Dialect() types.Dialect {
	return c.dialect
}

// NewQueryBuilder returns a builder quoting identifiers with the dialect's quote.
func (c *Conn) NewQueryBuilder() *QueryBuilder {
	return NewQueryBuilder(c.dialect.IdentifierQuote)
}

// QuoteIdentifier quotes identifier with the dialect's quote.
func (c *Conn) QuoteIdentifier(identifier string) string {
	return QuoteIdentifier(identifier, c.dialect.IdentifierQuote)
}

func (c *Conn) prepare(ctx context.Context, q Query) (types.Statement, error) {
	text, err := c.dialect.Rebind(q.sql)
	if err != nil {
		return nil, err
	}
	return tracking.PrepareAs(ctx, c.preparer, c.tc, text, q.sql)
}

// cursor is an open result set together with the statement that produced it.
type cursor struct {
	stmt types.Statement
	rows types.Rows
}

// close releases rows, then the statement. Both are attempted.
func (cur *cursor) close() error {
	var rowsErr, stmtErr error
	if cur.rows != nil {
		rowsErr = cur.rows.Close()
	}
	if cur.stmt != nil {
		stmtErr = cur.stmt.Close()
	}
	return errors.Join(rowsErr, stmtErr)
}

// query prepares, binds and executes q. On failure every resource opened so
// far is released and a RichError is returned.
func (c *Conn) query(ctx context.Context, q Query) (*cursor, error) {
	stmt, err := c.prepare(ctx, q)
	if err != nil {
		return nil, c.wrapError(KindPrepare, q, err)
	}

	args, err := Bind(q.params)
	if err != nil {
		_ = stmt.Close()
		return nil, c.wrapError(KindBind, q, err)
	}

	rows, err := stmt.Query(ctx, args...)
	if err != nil {
		_ = stmt.Close()
		return nil, c.wrapError(classifyExecError(err), q, err)
	}
	return &cursor{stmt: stmt, rows: rows}, nil
}
