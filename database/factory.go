package database

import (
	"database/sql"
	"fmt"
	"slices"

	"github.com/gaborage/sqlkit/config"
	"github.com/gaborage/sqlkit/database/mysql"
	"github.com/gaborage/sqlkit/database/oracle"
	"github.com/gaborage/sqlkit/database/postgresql"
	"github.com/gaborage/sqlkit/database/sqlite"
	"github.com/gaborage/sqlkit/database/types"
	"github.com/gaborage/sqlkit/logger"
)

// Open creates a connection pool for cfg using the driver selected by
// cfg.Type and returns it with the vendor's dialect. The caller owns the pool
// and must close it.
//
// When cfg does not configure a database, the returned error satisfies
// config.IsNotConfigured.
func Open(cfg *config.DatabaseConfig, log logger.Logger) (*sql.DB, types.Dialect, error) {
	if cfg == nil || !config.IsDatabaseConfigured(cfg) {
		return nil, types.Dialect{}, config.NewNotConfiguredError("database", config.EnvPrefix+"DATABASE_TYPE", "database.type")
	}
	if log == nil {
		log = logger.Nop()
	}

	dialect, err := DialectFor(cfg.Type)
	if err != nil {
		return nil, types.Dialect{}, err
	}

	var db *sql.DB
	switch cfg.Type {
	case PostgreSQL:
		db, err = postgresql.Open(cfg, log)
	case Oracle:
		db, err = oracle.Open(cfg, log)
	case MySQL:
		db, err = mysql.Open(cfg, log)
	case SQLite:
		db, err = sqlite.Open(cfg, log)
	}
	if err != nil {
		return nil, types.Dialect{}, err
	}
	return db, dialect, nil
}

// DialectFor returns the connection metadata of vendor.
func DialectFor(vendor string) (types.Dialect, error) {
	switch vendor {
	case PostgreSQL:
		return postgresql.Dialect, nil
	case Oracle:
		return oracle.Dialect, nil
	case MySQL:
		return mysql.Dialect, nil
	case SQLite:
		return sqlite.Dialect, nil
	default:
		return types.Dialect{}, ValidateDatabaseType(vendor)
	}
}

// ValidateDatabaseType returns nil if dbType is one of the supported database types.
// If dbType is not supported, it returns an error describing the invalid value and listing the supported types.
func ValidateDatabaseType(dbType string) error {
	if !slices.Contains(config.SupportedDatabaseTypes, dbType) {
		return fmt.Errorf("unsupported database type: %s (supported: %v)", dbType, config.SupportedDatabaseTypes)
	}
	return nil
}

// GetSupportedDatabaseTypes returns a list of supported database types
func GetSupportedDatabaseTypes() []string {
	return slices.Clone(config.SupportedDatabaseTypes)
}
