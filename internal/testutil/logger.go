package testutil

import (
	"fmt"
	"sync"
	"time"

	"github.com/gaborage/sqlkit/logger"
)

// Log levels recorded by RecordingLogger.
const (
	LevelInfo  = "info"
	LevelError = "error"
	LevelDebug = "debug"
	LevelWarn  = "warn"
)

// LogRecord is one message captured by RecordingLogger.
type LogRecord struct {
	Level   string
	Message string
	Fields  map[string]any
	Err     error
}

type recordSink struct {
	mu      sync.Mutex
	records []*LogRecord
}

// RecordingLogger is a logger.Logger that keeps every sent event in memory.
// Loggers derived through WithFields or WithContext share the same sink.
type RecordingLogger struct {
	sink   *recordSink
	fields map[string]any
}

var _ logger.Logger = (*RecordingLogger)(nil)

// NewRecordingLogger creates an empty RecordingLogger.
func NewRecordingLogger() *RecordingLogger {
	return &RecordingLogger{sink: &recordSink{}, fields: map[string]any{}}
}

func (l *RecordingLogger) clone() *RecordingLogger {
	fields := make(map[string]any, len(l.fields))
	for k, v := range l.fields {
		fields[k] = v
	}
	return &RecordingLogger{sink: l.sink, fields: fields}
}

func (l *RecordingLogger) newEvent(level string) logger.LogEvent {
	c := l.clone()
	return &recordingEvent{sink: l.sink, record: &LogRecord{Level: level, Fields: c.fields}}
}

func (l *RecordingLogger) Info() logger.LogEvent  { return l.newEvent(LevelInfo) }
func (l *RecordingLogger) Error() logger.LogEvent { return l.newEvent(LevelError) }
func (l *RecordingLogger) Debug() logger.LogEvent { return l.newEvent(LevelDebug) }
func (l *RecordingLogger) Warn() logger.LogEvent  { return l.newEvent(LevelWarn) }

func (l *RecordingLogger) WithContext(_ any) logger.Logger { return l.clone() }

func (l *RecordingLogger) WithFields(fields map[string]any) logger.Logger {
	c := l.clone()
	for k, v := range fields {
		c.fields[k] = v
	}
	return c
}

// Records returns a snapshot of every sent event.
func (l *RecordingLogger) Records() []*LogRecord {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	out := make([]*LogRecord, len(l.sink.records))
	copy(out, l.sink.records)
	return out
}

// RecordsAt returns the sent events of one level.
func (l *RecordingLogger) RecordsAt(level string) []*LogRecord {
	var out []*LogRecord
	for _, r := range l.Records() {
		if r.Level == level {
			out = append(out, r)
		}
	}
	return out
}

type recordingEvent struct {
	sink   *recordSink
	record *LogRecord
}

func (e *recordingEvent) Msg(msg string) {
	e.record.Message = msg
	e.sink.mu.Lock()
	e.sink.records = append(e.sink.records, e.record)
	e.sink.mu.Unlock()
}

func (e *recordingEvent) Msgf(format string, args ...any) {
	e.Msg(fmt.Sprintf(format, args...))
}

func (e *recordingEvent) Err(err error) logger.LogEvent {
	e.record.Err = err
	return e
}

func (e *recordingEvent) Str(key, value string) logger.LogEvent {
	e.record.Fields[key] = value
	return e
}

func (e *recordingEvent) Int(key string, value int) logger.LogEvent {
	e.record.Fields[key] = value
	return e
}

func (e *recordingEvent) Int64(key string, value int64) logger.LogEvent {
	e.record.Fields[key] = value
	return e
}

func (e *recordingEvent) Dur(key string, d time.Duration) logger.LogEvent {
	e.record.Fields[key] = d
	return e
}

func (e *recordingEvent) Interface(key string, value any) logger.LogEvent {
	e.record.Fields[key] = value
	return e
}
