package tracking

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	dbMeterName = "sqlkit/database"

	// Metric names following OpenTelemetry semantic conventions
	metricDBCalls      = "db.client.calls"
	metricDBDuration   = "db.client.operation.duration"
	metricRowsAffected = "db.rows.affected"
	metricRowsReturned = "db.client.response.returned_rows"

	metricDbSQLTable  = "db.sql.table"
	metricDbOperation = "db.operation.name"
	metricDbSystem    = "db.system"
)

var (
	dbMeter     metric.Meter
	meterOnce   sync.Once
	meterInitMu sync.Mutex

	dbCallsCounter        metric.Int64Counter
	dbDurationHistogram   metric.Float64Histogram
	dbRowsAffectedCounter metric.Int64Counter
	dbRowsReturnedCounter metric.Int64Counter
)

// logMetricError reports an instrument registration failure on stderr.
// Metrics are best-effort and never fail a database call.
func logMetricError(metricName string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "WARNING: Failed to initialize metric %s: %v\n", metricName, err)
	}
}

func initDBMeter() {
	meterInitMu.Lock()
	defer meterInitMu.Unlock()

	if dbMeter != nil {
		return
	}

	dbMeter = otel.Meter(dbMeterName)

	var err error
	dbCallsCounter, err = dbMeter.Int64Counter(
		metricDBCalls,
		metric.WithDescription("Total number of database client calls"),
	)
	logMetricError(metricDBCalls, err)

	dbDurationHistogram, err = dbMeter.Float64Histogram(
		metricDBDuration,
		metric.WithDescription("Duration of database operations in milliseconds"),
		metric.WithUnit("ms"),
	)
	logMetricError(metricDBDuration, err)

	dbRowsAffectedCounter, err = dbMeter.Int64Counter(
		metricRowsAffected,
		metric.WithDescription("Number of rows affected by database operations"),
	)
	logMetricError(metricRowsAffected, err)

	dbRowsReturnedCounter, err = dbMeter.Int64Counter(
		metricRowsReturned,
		metric.WithDescription("Number of rows read from database cursors"),
	)
	logMetricError(metricRowsReturned, err)
}

// getDBMeter returns the initialized database meter, initializing it if necessary.
func getDBMeter() metric.Meter {
	meterOnce.Do(initDBMeter)
	return dbMeter
}

// recordDBMetrics records the call counter, the duration histogram and, for
// successful operations, the affected or returned row count.
func recordDBMetrics(ctx context.Context, tc *Context, op Operation, duration time.Duration) {
	if getDBMeter() == nil {
		return
	}

	isError := op.Err != nil

	commonAttrs := []attribute.KeyValue{
		attribute.String(metricDbSystem, normalizeDBVendor(tc.Vendor)),
		attribute.String(metricDbOperation, extractDBOperation(op.Query)),
		attribute.String(metricDbSQLTable, extractTableName(op.Query)),
	}

	if dbCallsCounter != nil {
		counterAttrs := make([]attribute.KeyValue, 0, len(commonAttrs)+1)
		counterAttrs = append(counterAttrs, commonAttrs...)
		counterAttrs = append(counterAttrs, attribute.Bool("error", isError))
		dbCallsCounter.Add(ctx, 1, metric.WithAttributes(counterAttrs...))
	}

	if dbDurationHistogram != nil {
		durationMs := float64(duration.Nanoseconds()) / 1e6
		dbDurationHistogram.Record(ctx, durationMs, metric.WithAttributes(commonAttrs...))
	}

	if isError || op.Rows <= 0 {
		return
	}
	counter := dbRowsAffectedCounter
	if op.Streamed {
		counter = dbRowsReturnedCounter
	}
	if counter != nil {
		counter.Add(ctx, op.Rows, metric.WithAttributes(commonAttrs...))
	}
}

var (
	// Table name patterns for DML. Quoted identifiers (double quotes, backticks)
	// and schema-qualified names capture the table after the dot.
	selectTableRegex = regexp.MustCompile("(?i)FROM\\s+(?:[`\"']?\\w+[`\"']?\\.)?[`\"']?(\\w+)[`\"']?")
	insertTableRegex = regexp.MustCompile("(?i)INSERT\\s+INTO\\s+(?:[`\"']?\\w+[`\"']?\\.)?[`\"']?(\\w+)[`\"']?")
	updateTableRegex = regexp.MustCompile("(?i)UPDATE\\s+(?:[`\"']?\\w+[`\"']?\\.)?[`\"']?(\\w+)[`\"']?")
	deleteTableRegex = regexp.MustCompile("(?i)DELETE\\s+FROM\\s+(?:[`\"']?\\w+[`\"']?\\.)?[`\"']?(\\w+)[`\"']?")
)

// extractTableName returns the lowercase primary table of a DML statement,
// or "unknown". For joins the first table wins.
func extractTableName(query string) string {
	query = strings.TrimSpace(strings.TrimPrefix(query, preparePrefix))
	if query == "" {
		return "unknown"
	}

	var pattern *regexp.Regexp
	switch upper := strings.ToUpper(query); {
	case strings.HasPrefix(upper, "SELECT"):
		pattern = selectTableRegex
	case strings.HasPrefix(upper, "INSERT"):
		pattern = insertTableRegex
	case strings.HasPrefix(upper, "UPDATE"):
		pattern = updateTableRegex
	case strings.HasPrefix(upper, "DELETE"):
		pattern = deleteTableRegex
	default:
		return "unknown"
	}

	if matches := pattern.FindStringSubmatch(query); len(matches) > 1 {
		return strings.ToLower(matches[1])
	}
	return "unknown"
}
