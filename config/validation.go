package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

const (
	defaultSlowQueryThreshold = 200 * time.Millisecond
	defaultMaxQueryLength     = 1000
)

// Database type constants
const (
	PostgreSQL = "postgresql"
	Oracle     = "oracle"
	MySQL      = "mysql"
	SQLite     = "sqlite"
)

// SupportedDatabaseTypes lists every vendor accepted in database.type.
var SupportedDatabaseTypes = []string{PostgreSQL, Oracle, MySQL, SQLite}

var validate = newValidator()

// newValidator reports field names by their koanf keys.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("koanf"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks struct-level constraints first and then the vendor-specific
// requirements of a configured database. Query defaults are applied when zero.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return translateValidationError(err)
	}

	if err := validateDatabase(&cfg.Database); err != nil {
		return fmt.Errorf("database config: %w", err)
	}

	return nil
}

// IsDatabaseConfigured reports whether a database was intentionally configured.
func IsDatabaseConfigured(cfg *DatabaseConfig) bool {
	return cfg.ConnectionString != "" || cfg.Type != "" || cfg.Host != "" || cfg.Database != ""
}

func validateDatabase(cfg *DatabaseConfig) error {
	applyQueryDefaults(cfg)

	if !IsDatabaseConfigured(cfg) {
		return nil
	}

	if cfg.Type == "" {
		return NewMissingFieldError("database.type", EnvPrefix+"DATABASE_TYPE", "database.type")
	}

	if cfg.ConnectionString != "" {
		return nil
	}

	switch cfg.Type {
	case SQLite:
		if cfg.Database == "" {
			return NewMissingFieldError("database.database", EnvPrefix+"DATABASE_DATABASE", "database.database")
		}
	case Oracle:
		if cfg.Host == "" {
			return NewMissingFieldError("database.host", EnvPrefix+"DATABASE_HOST", "database.host")
		}
		return validateOracleTarget(cfg)
	default:
		if cfg.Host == "" {
			return NewMissingFieldError("database.host", EnvPrefix+"DATABASE_HOST", "database.host")
		}
		if cfg.Database == "" {
			return NewMissingFieldError("database.database", EnvPrefix+"DATABASE_DATABASE", "database.database")
		}
	}

	return nil
}

// validateOracleTarget requires exactly one of service name, SID or database.
func validateOracleTarget(cfg *DatabaseConfig) error {
	set := 0
	for _, v := range []string{cfg.Oracle.ServiceName, cfg.Oracle.SID, cfg.Database} {
		if v != "" {
			set++
		}
	}
	switch set {
	case 0:
		return NewMissingFieldError("database.oracle.servicename", EnvPrefix+"DATABASE_ORACLE_SERVICENAME", "database.oracle.servicename")
	case 1:
		return nil
	default:
		return NewValidationError("database.oracle", "only one of servicename, sid or database may be set")
	}
}

func applyQueryDefaults(cfg *DatabaseConfig) {
	if cfg.Query.Slow.Threshold == 0 {
		cfg.Query.Slow.Threshold = defaultSlowQueryThreshold
	}
	if cfg.Query.Log.MaxLength == 0 {
		cfg.Query.Log.MaxLength = defaultMaxQueryLength
	}
}

// translateValidationError converts the first validator failure into a ConfigError
// keyed by its koanf path.
func translateValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}

	fe := verrs[0]
	field := koanfPath(fe.Namespace())

	if fe.Tag() == "oneof" {
		return NewInvalidFieldError(field, fmt.Sprintf("invalid value %q", fmt.Sprint(fe.Value())), strings.Fields(fe.Param()))
	}
	return NewValidationError(field, fmt.Sprintf("failed %q check", fe.Tag()))
}

// koanfPath drops the root struct name: "Config.database.query.log.max" -> "database.query.log.max".
func koanfPath(namespace string) string {
	if _, rest, ok := strings.Cut(namespace, "."); ok {
		return rest
	}
	return namespace
}
