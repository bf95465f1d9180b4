package tracking

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/sqlkit/internal/testutil"
	"github.com/gaborage/sqlkit/logger"
)

func TestPrepareTracksAndWrapsStatement(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	rec := testutil.NewRecordingLogger()
	tc := newTestContext(rec, NewSettings(nil))
	ctx := logger.WithDBCounter(context.Background())

	mock.ExpectPrepare(testutil.QuerySelectUserNames).
		ExpectQuery().
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("ada").AddRow("grace")).
		RowsWillBeClosed()

	stmt, err := Prepare(ctx, db, tc, testutil.QuerySelectUserNames)
	require.NoError(t, err)
	assert.IsType(t, &Statement{}, stmt)

	rows, err := stmt.Query(ctx, 7)
	require.NoError(t, err)

	var names []string
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		names = append(names, name)
	}
	require.NoError(t, rows.Close())
	require.NoError(t, rows.Close())
	require.NoError(t, stmt.Close())

	assert.Equal(t, []string{"ada", "grace"}, names)
	assert.Equal(t, int64(2), logger.GetDBCounter(ctx), "prepare and query are tracked once each")
	assert.Equal(t, int64(2), logger.GetDBRows(ctx))

	records := rec.Records()
	require.Len(t, records, 2)
	assert.Equal(t, preparePrefix+testutil.QuerySelectUserNames, records[0].Fields["query"])
	assert.Equal(t, int64(2), records[1].Fields["rows"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrepareAsReportsQueryAsWritten(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	rec := testutil.NewRecordingLogger()
	const rewritten = "SELECT name FROM users WHERE id = $1"

	mock.ExpectPrepare(rewritten).
		ExpectExec().
		WithArgs(7).
		WillReturnResult(sqlmock.NewResult(0, 1))

	stmt, err := PrepareAs(context.Background(), db, newTestContext(rec, NewSettings(nil)), rewritten, testutil.QuerySelectUserNames)
	require.NoError(t, err)
	_, err = stmt.Exec(context.Background(), 7)
	require.NoError(t, err)

	records := rec.Records()
	require.Len(t, records, 2)
	assert.Equal(t, preparePrefix+testutil.QuerySelectUserNames, records[0].Fields["query"])
	assert.Equal(t, testutil.QuerySelectUserNames, records[1].Fields["query"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPrepareFailureIsReturnedWithoutLogging(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	rec := testutil.NewRecordingLogger()
	failure := errors.New("syntax error at or near \"FORM\"")
	mock.ExpectPrepare("SELECT * FORM users").WillReturnError(failure)

	stmt, err := Prepare(context.Background(), db, newTestContext(rec, NewSettings(nil)), "SELECT * FORM users")

	assert.Nil(t, stmt)
	assert.ErrorIs(t, err, failure)
	assert.Empty(t, rec.Records())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStatementQueryFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	ctx := logger.WithDBCounter(context.Background())
	failure := errors.New(testutil.TestConnectionRefused)
	mock.ExpectPrepare(testutil.QuerySelectUserByID).ExpectQuery().WithArgs(1).WillReturnError(failure)

	stmt, err := Prepare(ctx, db, newTestContext(testutil.NewRecordingLogger(), NewSettings(nil)), testutil.QuerySelectUserByID)
	require.NoError(t, err)
	defer stmt.Close()

	rows, err := stmt.Query(ctx, 1)
	assert.Nil(t, rows)
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, int64(2), logger.GetDBCounter(ctx))
}

func TestStatementExecTracksRowsAffected(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	rec := testutil.NewRecordingLogger()
	mock.ExpectPrepare(testutil.QueryUpdateUsers).
		ExpectExec().
		WithArgs("ada", 1).
		WillReturnResult(sqlmock.NewResult(0, 1))

	stmt, err := Prepare(context.Background(), db, newTestContext(rec, NewSettings(nil)), testutil.QueryUpdateUsers)
	require.NoError(t, err)
	defer stmt.Close()

	result, err := stmt.Exec(context.Background(), "ada", 1)
	require.NoError(t, err)
	affected, err := result.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	records := rec.Records()
	require.Len(t, records, 2)
	assert.Equal(t, int64(1), records[1].Fields["rows_affected"])
}

func TestStatementCloseDelegates(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectPrepare(testutil.QuerySelectUsers).WillBeClosed()

	stmt, err := Prepare(context.Background(), db, nil, testutil.QuerySelectUsers)
	require.NoError(t, err)
	require.NoError(t, stmt.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
