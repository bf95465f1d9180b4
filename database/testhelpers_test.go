package database

import (
	"database/sql"
	"reflect"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/sqlkit/database/types"
	"github.com/gaborage/sqlkit/internal/testutil"
)

var questionDialect = types.Dialect{Vendor: types.SQLite, IdentifierQuote: `"`, Placeholder: squirrel.Question}

// newMockConn returns a Conn over a sqlmock pool matching SQL text exactly.
func newMockConn(t *testing.T, dialect types.Dialect) (*Conn, sqlmock.Sqlmock, *testutil.RecordingLogger) {
	t.Helper()

	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rec := testutil.NewRecordingLogger()
	return NewConn(db, rec, dialect, nil), mock, rec
}

// fakeRows is an in-memory types.Rows that counts cursor movements.
type fakeRows struct {
	columns []string
	data    [][]any
	pos     int

	nextErr  error
	closeErr error

	nextCalls  int
	closeCalls int
}

var _ types.Rows = (*fakeRows)(nil)

func newFakeRows(columns []string, data ...[]any) *fakeRows {
	return &fakeRows{columns: columns, data: data, pos: -1}
}

func (r *fakeRows) Next() bool {
	r.nextCalls++
	if r.pos+1 < len(r.data) {
		r.pos++
		return true
	}
	r.pos = len(r.data)
	return false
}

func (r *fakeRows) Scan(dest ...any) error {
	if r.pos < 0 || r.pos >= len(r.data) {
		return sql.ErrNoRows
	}
	for i, d := range dest {
		reflect.ValueOf(d).Elem().Set(reflect.ValueOf(r.data[r.pos][i]))
	}
	return nil
}

func (r *fakeRows) Columns() ([]string, error) { return r.columns, nil }

func (r *fakeRows) Err() error {
	if r.pos >= len(r.data) {
		return r.nextErr
	}
	return nil
}

func (r *fakeRows) Close() error {
	r.closeCalls++
	return r.closeErr
}

// countingMapper scans the first column and counts its invocations.
type countingMapper struct {
	calls int
}

func (m *countingMapper) mapRow(rows types.Rows) (any, error) {
	m.calls++
	var v any
	err := rows.Scan(&v)
	return v, err
}

func newFakeIterator(t *testing.T, rows *fakeRows, mapper RowMapper[any]) (*RowIterator[any], *testutil.RecordingLogger) {
	t.Helper()

	rec := testutil.NewRecordingLogger()
	conn := NewConn(nil, rec, questionDialect, nil)
	return newRowIterator(conn, NewQuery(testutil.QuerySelectUsers), &cursor{rows: rows}, mapper), rec
}

// recoverError runs fn and returns the error it panicked with.
func recoverError(fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err, _ = r.(error)
		}
	}()
	fn()
	return nil
}
