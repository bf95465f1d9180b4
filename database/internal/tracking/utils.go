package tracking

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.32.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/gaborage/sqlkit/logger"
)

const (
	// Default operation type for unidentified queries
	defaultOperation = "query"

	// Prefix marking statement preparation in tracked query text
	preparePrefix = "PREPARE: "

	dbVendorPostgreSQL = "postgresql"
	dbVendorOracle     = "oracle"
	dbVendorMySQL      = "mysql"
	dbVendorSQLite     = "sqlite"

	dbTracerName      = "sqlkit/database"
	maxDBQueryAttrLen = 2000
)

// Operation describes one finished database call.
type Operation struct {
	Query string
	Args  []any
	Start time.Time
	// Rows is the affected row count for Exec and the streamed row count for cursors.
	Rows int64
	// Streamed marks Rows as rows read from a cursor rather than rows affected.
	Streamed bool
	Err      error
}

// TrackDBOperation records a finished database operation.
//
// It updates the request-scoped counters in ctx, emits a span and metrics, and
// logs successful operations at debug level, or warn level when slower than
// the configured threshold. Failed operations are not logged: the caller wraps
// them into an error value that carries its own log record.
//
// TrackDBOperation is a no-op if tc or its Logger is nil.
func TrackDBOperation(ctx context.Context, tc *Context, op Operation) {
	if tc == nil || tc.Logger == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}

	elapsed := time.Since(op.Start)

	logger.IncrementDBCounter(ctx)
	logger.AddDBElapsed(ctx, elapsed.Nanoseconds())
	if op.Streamed {
		logger.AddDBRows(ctx, op.Rows)
	}

	createDBSpan(ctx, tc, op)
	recordDBMetrics(ctx, tc, op, elapsed)

	if op.Err != nil {
		return
	}

	fields := map[string]any{
		"vendor":      tc.Vendor,
		"duration_ms": elapsed.Milliseconds(),
		"duration_ns": elapsed.Nanoseconds(),
		"query":       TruncateString(op.Query, tc.Settings.MaxQueryLength()),
	}
	if op.Streamed {
		fields["rows"] = op.Rows
	} else if op.Rows > 0 {
		fields["rows_affected"] = op.Rows
	}
	if tc.Settings.LogQueryParameters() && len(op.Args) > 0 {
		fields["args"] = SanitizeArgs(op.Args, tc.Settings.MaxQueryLength())
	}

	logEvent := tc.Logger.WithContext(ctx).WithFields(fields)
	if tc.Settings.SlowQueryEnabled() && elapsed > tc.Settings.SlowQueryThreshold() {
		logEvent.Warn().Msgf("Slow database operation detected (%s)", elapsed)
		return
	}
	logEvent.Debug().Msg("Database operation executed")
}

// extractRowsAffected safely extracts the number of rows affected from a sql.Result.
// Returns 0 if the result is nil, an error occurred during execution, or
// RowsAffected() fails.
func extractRowsAffected(result sql.Result, err error) int64 {
	if result == nil || err != nil {
		return 0
	}

	affected, affErr := result.RowsAffected()
	if affErr != nil {
		return 0
	}

	return affected
}

// TruncateString truncates value to at most maxLen runes, adding "..." when space allows.
//
// If maxLen <= 0 or value already fits, value is returned unchanged. When maxLen <= 3
// the first maxLen runes are returned without an ellipsis.
func TruncateString(value string, maxLen int) string {
	if maxLen <= 0 {
		return value
	}
	r := []rune(value)
	if len(r) <= maxLen {
		return value
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// SanitizeArgs returns a copy of args suitable for logging.
// Strings are truncated to maxLen runes, byte slices become "<bytes len=N>", nil
// stays nil and every other value is formatted with %v and truncated. The result
// has the same length and order as args; an empty input yields nil.
func SanitizeArgs(args []any, maxLen int) []any {
	if len(args) == 0 {
		return nil
	}
	sanitized := make([]any, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case nil:
			sanitized[i] = nil
		case string:
			sanitized[i] = TruncateString(v, maxLen)
		case []byte:
			sanitized[i] = fmt.Sprintf("<bytes len=%d>", len(v))
		default:
			sanitized[i] = TruncateString(fmt.Sprintf("%v", v), maxLen)
		}
	}
	return sanitized
}

// createDBSpan creates a client span that starts at op.Start and ends now.
func createDBSpan(ctx context.Context, tc *Context, op Operation) {
	tracer := otel.Tracer(dbTracerName)

	operation := extractDBOperation(op.Query)

	_, span := tracer.Start(ctx, "db."+operation,
		trace.WithTimestamp(op.Start),
		trace.WithSpanKind(trace.SpanKindClient),
	)

	attrs := []attribute.KeyValue{
		attribute.String("db.system", normalizeDBVendor(tc.Vendor)),
		semconv.DBQueryText(TruncateString(strings.TrimPrefix(op.Query, preparePrefix), maxDBQueryAttrLen)),
	}
	if operation != defaultOperation {
		attrs = append(attrs, semconv.DBOperationName(operation))
	}
	if op.Streamed {
		attrs = append(attrs, attribute.Int64("db.response.returned_rows", op.Rows))
	}

	span.SetAttributes(attrs...)

	if op.Err != nil {
		span.RecordError(op.Err)
		span.SetStatus(codes.Error, op.Err.Error())
	}

	span.End()
}

// extractDBOperation returns the lowercase SQL command of query
// (select, insert, update, delete, ...), "prepare" for tracked preparations
// and "query" when the command is not recognised.
func extractDBOperation(query string) string {
	query = strings.TrimSpace(query)
	if query == "" {
		return defaultOperation
	}

	if strings.HasPrefix(query, preparePrefix) {
		return "prepare"
	}

	parts := strings.Fields(query)
	if len(parts) == 0 {
		return defaultOperation
	}

	operation := strings.ToLower(parts[0])
	switch operation {
	case "select", "insert", "update", "delete", "merge", "with", "create", "drop", "alter", "truncate":
		return operation
	default:
		return defaultOperation
	}
}

// normalizeDBVendor normalizes the database vendor name to match OTel semantic conventions.
func normalizeDBVendor(vendor string) string {
	vendor = strings.ToLower(vendor)
	switch vendor {
	case "postgres", dbVendorPostgreSQL:
		return dbVendorPostgreSQL
	case dbVendorOracle:
		return dbVendorOracle
	case dbVendorMySQL, "mariadb":
		return dbVendorMySQL
	case dbVendorSQLite, "sqlite3":
		return dbVendorSQLite
	default:
		return vendor
	}
}
