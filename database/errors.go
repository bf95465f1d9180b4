package database

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/gaborage/sqlkit/database/internal/tracking"
)

// Misuse sentinels. ErrCollectionParameter is panicked with by the builder,
// ErrIteratorExhausted and ErrIteratorClosed are returned as is, and
// ErrUnbindableParameter is wrapped into a KindBind RichError by the executors.
var (
	ErrCollectionParameter = errors.New("collection passed as a single query parameter")
	ErrUnbindableParameter = errors.New("parameter type cannot be bound")
	ErrIteratorExhausted   = errors.New("row iterator has no more rows")
	ErrIteratorClosed      = errors.New("row iterator is closed")
)

// Kind classifies the stage of a database call that failed.
type Kind string

const (
	KindPrepare Kind = "prepare"
	KindBind    Kind = "bind"
	KindExecute Kind = "execute"
	KindAdvance Kind = "advance"
	KindMap     Kind = "map"
	KindClose   Kind = "close"
)

// RichError is a database failure annotated with the SQL text and parameters
// that caused it. Creating one emits exactly one error log record; ID
// correlates the error value with that record.
type RichError struct {
	Kind   Kind
	SQL    string
	Params []any
	Err    error
	ID     string
}

func (e *RichError) Error() string {
	var b strings.Builder
	b.WriteString("database ")
	b.WriteString(string(e.Kind))
	b.WriteString(" failed")
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	fmt.Fprintf(&b, " (sql=%q params=%v)", e.SQL, e.Params)
	return b.String()
}

func (e *RichError) Unwrap() error {
	return e.Err
}

// AsRichError reports whether err carries a RichError and returns it.
func AsRichError(err error) (*RichError, bool) {
	var rich *RichError
	if errors.As(err, &rich) {
		return rich, true
	}
	return nil, false
}

// wrapError turns err into a logged RichError for q. An err that already
// carries a RichError (for example one returned by a row mapper running a
// nested query) is returned unchanged so that it is logged only once.
func (c *Conn) wrapError(kind Kind, q Query, err error) error {
	if _, ok := AsRichError(err); ok {
		return err
	}
	return c.newRichError(kind, q, err)
}

func (c *Conn) newRichError(kind Kind, q Query, err error) *RichError {
	rich := &RichError{
		Kind:   kind,
		SQL:    q.SQL(),
		Params: q.Parameters(),
		Err:    err,
		ID:     uuid.NewString(),
	}

	c.log.Error().
		Err(err).
		Str("error_id", rich.ID).
		Str("kind", string(kind)).
		Str("vendor", c.dialect.Vendor).
		Str("sql", rich.SQL).
		Interface("params", tracking.SanitizeArgs(rich.Params, 0)).
		Msg("Database operation failed")

	return rich
}

// classifyExecError separates argument conversion and count errors raised by
// database/sql before the driver runs the statement from execution failures.
// It matches the database/sql messages
//
//	sql: expected %d arguments, got %d
//	sql: converting argument %s type: %w
//
// which have no exported sentinel.
func classifyExecError(err error) Kind {
	msg := err.Error()
	if strings.HasPrefix(msg, "sql: expected ") && strings.Contains(msg, "arguments, got") {
		return KindBind
	}
	if strings.HasPrefix(msg, "sql: converting argument") {
		return KindBind
	}
	return KindExecute
}
