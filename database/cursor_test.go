package database

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/sqlkit/database/internal/mocks"
	"github.com/gaborage/sqlkit/internal/testutil"
)

func TestCursorCloseReleasesRowsThenStatement(t *testing.T) {
	var order []string

	rows := &mocks.MockRows{}
	rows.On("Close").Return(nil).Run(func(mock.Arguments) { order = append(order, "rows") }).Once()
	stmt := &mocks.MockStatement{}
	stmt.ExpectClose(nil).Run(func(mock.Arguments) { order = append(order, "stmt") })

	cur := &cursor{stmt: stmt, rows: rows}
	require.NoError(t, cur.close())

	assert.Equal(t, []string{"rows", "stmt"}, order)
	rows.AssertExpectations(t)
	stmt.AssertExpectations(t)
}

func TestCursorCloseAttemptsBothOnFailure(t *testing.T) {
	rowsErr := errors.New("rows close failed")
	stmtErr := errors.New("stmt close failed")

	rows := &mocks.MockRows{}
	rows.On("Close").Return(rowsErr).Once()
	stmt := &mocks.MockStatement{}
	stmt.ExpectClose(stmtErr)

	err := (&cursor{stmt: stmt, rows: rows}).close()

	assert.ErrorIs(t, err, rowsErr)
	assert.ErrorIs(t, err, stmtErr)
	stmt.AssertExpectations(t)
}

func TestIteratorCloseReportsStatementFailure(t *testing.T) {
	stmtErr := errors.New("statement already released")

	rows := &mocks.MockRows{}
	rows.On("Next").Return(false).Once()
	rows.On("Err").Return(nil).Once()
	rows.On("Close").Return(nil).Once()
	stmt := &mocks.MockStatement{}
	stmt.ExpectClose(stmtErr)

	rec := testutil.NewRecordingLogger()
	conn := NewConn(nil, rec, questionDialect, nil)
	it := newRowIterator(conn, NewQuery(testutil.QuerySelectUsers), &cursor{stmt: stmt, rows: rows}, MapRow)

	ok, err := it.HasNext()
	require.NoError(t, err)
	assert.False(t, ok)

	err = it.Close()
	rich, isRich := AsRichError(err)
	require.True(t, isRich)
	assert.Equal(t, KindClose, rich.Kind)
	assert.ErrorIs(t, err, stmtErr)
	assert.Len(t, rec.RecordsAt(testutil.LevelError), 1)

	assert.NoError(t, it.Close(), "only the first close reports")
	rows.AssertExpectations(t)
	stmt.AssertExpectations(t)
}
