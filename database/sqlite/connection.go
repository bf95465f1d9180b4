// Package sqlite opens SQLite databases through mattn/go-sqlite3.
package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	sqlite3 "github.com/mattn/go-sqlite3"

	"github.com/gaborage/sqlkit/config"
	"github.com/gaborage/sqlkit/database/types"
	dbpool "github.com/gaborage/sqlkit/internal/database"
	"github.com/gaborage/sqlkit/logger"
)

// DriverName is the database/sql name go-sqlite3 registers itself under.
const DriverName = "sqlite3"

// Dialect is the SQLite connection metadata: double quoted identifiers and
// '?' placeholders.
var Dialect = types.Dialect{
	Vendor:          types.SQLite,
	IdentifierQuote: `"`,
	Placeholder:     squirrel.Question,
}

var (
	openSQLiteDB = func(dsn string) (*sql.DB, error) {
		return sql.Open(DriverName, dsn)
	}
	pingSQLiteDB dbpool.PingFunc = dbpool.Ping
)

// DSN returns ConnectionString when set, otherwise the database file path.
// ":memory:" opens a private in-memory database per connection.
func DSN(cfg *config.DatabaseConfig) string {
	if cfg.ConnectionString != "" {
		return cfg.ConnectionString
	}
	return cfg.Database
}

// Open opens the database for cfg, applies the pool settings and checks that
// the file can be used. The caller owns the returned pool.
func Open(cfg *config.DatabaseConfig, log logger.Logger) (*sql.DB, error) {
	dsn := DSN(cfg)
	if dsn == "" {
		return nil, config.NewMissingFieldError("database.database", config.EnvPrefix+"DATABASE_DATABASE", "database.database")
	}

	db, err := openSQLiteDB(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}
	dbpool.ConfigurePool(db, cfg.Pool)

	if err := dbpool.Verify(db, types.SQLite, log, pingSQLiteDB); err != nil {
		return nil, err
	}

	version, _, _ := sqlite3.Version()
	log.Info().
		Str("database", dsn).
		Str("sqlite_version", version).
		Msg("Connected to SQLite database")

	return db, nil
}
