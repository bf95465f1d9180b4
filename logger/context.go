package logger

import (
	"context"
	"sync/atomic"
)

// contextKey is the type for context keys to avoid collisions
type contextKey string

const (
	// dbCounterKey is the context key for tracking database operation count per request
	dbCounterKey contextKey = "db_operation_counter"
	// dbElapsedKey is the context key for tracking total database elapsed time per request
	dbElapsedKey contextKey = "db_elapsed_nanos"
	// dbRowsKey is the context key for tracking rows streamed per request
	dbRowsKey contextKey = "db_rows_streamed"
)

// WithDBCounter returns a context carrying database operation, elapsed-time and
// streamed-row counters, all starting at zero.
func WithDBCounter(ctx context.Context) context.Context {
	counter := int64(0)
	elapsed := int64(0)
	rows := int64(0)
	ctx = context.WithValue(ctx, dbCounterKey, &counter)
	ctx = context.WithValue(ctx, dbElapsedKey, &elapsed)
	ctx = context.WithValue(ctx, dbRowsKey, &rows)
	return ctx
}

// IncrementDBCounter increments the database operation counter in the context
func IncrementDBCounter(ctx context.Context) {
	addInt64(ctx, dbCounterKey, 1)
}

// GetDBCounter returns the current database operation count from the context
func GetDBCounter(ctx context.Context) int64 {
	return loadInt64(ctx, dbCounterKey)
}

// AddDBElapsed adds elapsed nanoseconds to the database elapsed time in the context
func AddDBElapsed(ctx context.Context, nanos int64) {
	addInt64(ctx, dbElapsedKey, nanos)
}

// GetDBElapsed returns the current database elapsed time in nanoseconds from the context
func GetDBElapsed(ctx context.Context) int64 {
	return loadInt64(ctx, dbElapsedKey)
}

// AddDBRows adds n to the number of rows streamed in the context
func AddDBRows(ctx context.Context, n int64) {
	addInt64(ctx, dbRowsKey, n)
}

// GetDBRows returns the number of rows streamed recorded in the context
func GetDBRows(ctx context.Context) int64 {
	return loadInt64(ctx, dbRowsKey)
}

func addInt64(ctx context.Context, key contextKey, n int64) {
	if ctx == nil {
		return
	}
	if v, ok := ctx.Value(key).(*int64); ok && v != nil {
		atomic.AddInt64(v, n)
	}
}

func loadInt64(ctx context.Context, key contextKey) int64 {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(key).(*int64); ok && v != nil {
		return atomic.LoadInt64(v)
	}
	return 0
}
