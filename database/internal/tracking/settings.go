// Package tracking provides performance tracking for prepared statements and the
// cursors they open: structured logs, OpenTelemetry spans and metrics, and
// request-scoped counters. Failures are traced and counted but never logged here.
package tracking

import (
	"time"

	"github.com/gaborage/sqlkit/config"
	"github.com/gaborage/sqlkit/logger"
)

const (
	// DefaultSlowQueryThreshold defines the default threshold for slow query detection
	DefaultSlowQueryThreshold = 200 * time.Millisecond
	// DefaultMaxQueryLength defines the default maximum query length for logging
	DefaultMaxQueryLength = 1000
)

// Settings holds configuration for database query tracking and logging.
type Settings struct {
	slowQueryThreshold time.Duration
	slowQueryEnabled   bool
	maxQueryLength     int
	logQueryParameters bool
}

// Context groups the logger, vendor and settings shared by every tracked call
// made through one connection.
type Context struct {
	Logger   logger.Logger
	Vendor   string
	Settings Settings
}

// NewSettings creates Settings from cfg. A nil cfg or non-positive numeric
// fields fall back to DefaultSlowQueryThreshold and DefaultMaxQueryLength.
// Slow query warnings are on unless cfg explicitly disables them.
func NewSettings(cfg *config.DatabaseConfig) Settings {
	settings := Settings{
		slowQueryThreshold: DefaultSlowQueryThreshold,
		slowQueryEnabled:   true,
		maxQueryLength:     DefaultMaxQueryLength,
	}

	if cfg == nil {
		return settings
	}

	if cfg.Query.Slow.Threshold > 0 {
		settings.slowQueryThreshold = cfg.Query.Slow.Threshold
	}
	if cfg.Query.Log.MaxLength > 0 {
		settings.maxQueryLength = cfg.Query.Log.MaxLength
	}
	settings.slowQueryEnabled = cfg.Query.Slow.Enabled
	settings.logQueryParameters = cfg.Query.Log.Parameters

	return settings
}

// SlowQueryThreshold returns the threshold for slow query detection
func (s Settings) SlowQueryThreshold() time.Duration {
	return s.slowQueryThreshold
}

// SlowQueryEnabled reports whether slow operations are logged at warn level
func (s Settings) SlowQueryEnabled() bool {
	return s.slowQueryEnabled
}

// MaxQueryLength returns the maximum query length for logging
func (s Settings) MaxQueryLength() int {
	return s.maxQueryLength
}

// LogQueryParameters returns whether query parameters should be logged
func (s Settings) LogQueryParameters() bool {
	return s.logQueryParameters
}
