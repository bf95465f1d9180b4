package tracking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/sqlkit/internal/testutil"
	"github.com/gaborage/sqlkit/logger"
)

func newTestContext(log logger.Logger, settings Settings) *Context {
	return &Context{Logger: log, Vendor: "postgresql", Settings: settings}
}

func TestTruncateStringNoTruncation(t *testing.T) {
	assert.Equal(t, "short", TruncateString("short", 10))
	assert.Equal(t, "unbounded", TruncateString("unbounded", 0))
}

func TestTruncateStringShortMax(t *testing.T) {
	assert.Equal(t, "ab", TruncateString("abcdef", 2))
}

func TestTruncateStringAddsEllipsis(t *testing.T) {
	assert.Equal(t, "abc...", TruncateString("abcdefghij", 6))
	assert.Equal(t, "日本...", TruncateString("日本語のテキスト", 5))
}

func TestSanitizeArgsHandlesVariousTypes(t *testing.T) {
	got := SanitizeArgs([]any{"a very long string", []byte{1, 2, 3}, 42, nil, true}, 6)

	assert.Equal(t, []any{"a v...", "<bytes len=3>", "42", nil, "true"}, got)
}

func TestSanitizeArgsReturnsNilForEmptySlice(t *testing.T) {
	assert.Nil(t, SanitizeArgs(nil, 10))
	assert.Nil(t, SanitizeArgs([]any{}, 10))
}

func TestTrackDBOperationRecordsSuccess(t *testing.T) {
	ctx := logger.WithDBCounter(context.Background())
	rec := testutil.NewRecordingLogger()
	settings := Settings{slowQueryThreshold: time.Second, slowQueryEnabled: true, maxQueryLength: 50}

	TrackDBOperation(ctx, newTestContext(rec, settings), Operation{
		Query: "SELECT 1",
		Args:  []any{"param"},
		Start: time.Now().Add(-25 * time.Millisecond),
	})

	assert.Equal(t, int64(1), logger.GetDBCounter(ctx))
	assert.Positive(t, logger.GetDBElapsed(ctx))
	assert.Zero(t, logger.GetDBRows(ctx))

	records := rec.Records()
	require.Len(t, records, 1)
	assert.Equal(t, testutil.LevelDebug, records[0].Level)
	assert.Equal(t, "Database operation executed", records[0].Message)
	assert.Equal(t, "SELECT 1", records[0].Fields["query"])
	assert.Equal(t, "postgresql", records[0].Fields["vendor"])
	assert.NotContains(t, records[0].Fields, "args")
}

func TestTrackDBOperationTruncatesQueryAndLogsArgs(t *testing.T) {
	rec := testutil.NewRecordingLogger()
	settings := Settings{slowQueryThreshold: time.Second, maxQueryLength: 5, logQueryParameters: true}

	TrackDBOperation(context.Background(), newTestContext(rec, settings), Operation{
		Query: "SELECT something",
		Args:  []any{"verylongparameter", []byte{0x1, 0x2}},
		Start: time.Now(),
	})

	records := rec.Records()
	require.Len(t, records, 1)
	assert.Equal(t, "SE...", records[0].Fields["query"])
	assert.Equal(t, []any{"ve...", "<bytes len=2>"}, records[0].Fields["args"])
}

func TestTrackDBOperationStreamedRows(t *testing.T) {
	ctx := logger.WithDBCounter(context.Background())
	rec := testutil.NewRecordingLogger()

	TrackDBOperation(ctx, newTestContext(rec, NewSettings(nil)), Operation{
		Query:    testutil.QuerySelectUsers,
		Start:    time.Now(),
		Rows:     3,
		Streamed: true,
	})

	assert.Equal(t, int64(3), logger.GetDBRows(ctx))
	records := rec.Records()
	require.Len(t, records, 1)
	assert.Equal(t, int64(3), records[0].Fields["rows"])
	assert.NotContains(t, records[0].Fields, "rows_affected")
}

func TestTrackDBOperationRowsAffected(t *testing.T) {
	rec := testutil.NewRecordingLogger()

	TrackDBOperation(context.Background(), newTestContext(rec, NewSettings(nil)), Operation{
		Query: testutil.QueryUpdateUsers,
		Start: time.Now(),
		Rows:  2,
	})

	records := rec.Records()
	require.Len(t, records, 1)
	assert.Equal(t, int64(2), records[0].Fields["rows_affected"])
}

func TestTrackDBOperationLogsSlowQuery(t *testing.T) {
	rec := testutil.NewRecordingLogger()
	settings := Settings{slowQueryThreshold: 5 * time.Millisecond, slowQueryEnabled: true, maxQueryLength: 100}

	TrackDBOperation(context.Background(), newTestContext(rec, settings), Operation{
		Query: "SELECT 1",
		Start: time.Now().Add(-20 * time.Millisecond),
	})

	records := rec.Records()
	require.Len(t, records, 1)
	assert.Equal(t, testutil.LevelWarn, records[0].Level)
	assert.Contains(t, records[0].Message, "Slow database operation detected")
}

func TestTrackDBOperationSlowQueryDisabled(t *testing.T) {
	rec := testutil.NewRecordingLogger()
	settings := Settings{slowQueryThreshold: 5 * time.Millisecond, slowQueryEnabled: false}

	TrackDBOperation(context.Background(), newTestContext(rec, settings), Operation{
		Query: "SELECT 1",
		Start: time.Now().Add(-20 * time.Millisecond),
	})

	records := rec.Records()
	require.Len(t, records, 1)
	assert.Equal(t, testutil.LevelDebug, records[0].Level)
}

func TestTrackDBOperationDoesNotLogFailures(t *testing.T) {
	ctx := logger.WithDBCounter(context.Background())
	rec := testutil.NewRecordingLogger()

	TrackDBOperation(ctx, newTestContext(rec, NewSettings(nil)), Operation{
		Query: "SELECT 1",
		Start: time.Now(),
		Err:   errors.New(testutil.TestError),
	})

	assert.Empty(t, rec.Records())
	assert.Equal(t, int64(1), logger.GetDBCounter(ctx))
}

func TestTrackDBOperationNoLoggerOrContext(t *testing.T) {
	assert.NotPanics(t, func() {
		TrackDBOperation(context.Background(), nil, Operation{Query: "SELECT", Start: time.Now()})
		TrackDBOperation(context.Background(), &Context{}, Operation{Query: "SELECT", Start: time.Now()})
		//nolint:staticcheck // nil context is tolerated
		TrackDBOperation(nil, newTestContext(testutil.NewRecordingLogger(), NewSettings(nil)), Operation{Query: "SELECT", Start: time.Now()})
	})
}
