// Package postgresql opens PostgreSQL pools through the pgx database/sql driver.
package postgresql

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"

	"github.com/gaborage/sqlkit/config"
	"github.com/gaborage/sqlkit/database/types"
	dbpool "github.com/gaborage/sqlkit/internal/database"
	"github.com/gaborage/sqlkit/logger"
)

// DefaultPort is used when the configuration leaves the port unset.
const DefaultPort = 5432

// Dialect is the PostgreSQL connection metadata: double quoted identifiers
// and $n placeholders.
var Dialect = types.Dialect{
	Vendor:          types.PostgreSQL,
	IdentifierQuote: `"`,
	Placeholder:     squirrel.Dollar,
}

var (
	openPostgresDB = func(cfg *pgx.ConnConfig) *sql.DB {
		return stdlib.OpenDB(*cfg)
	}
	pingPostgresDB dbpool.PingFunc = dbpool.Ping
)

// quoteDSN quotes a DSN value according to libpq rules:
// - Returns double single quotes for empty strings (empty value)
// - Escapes backslashes and single quotes
// - Wraps in single quotes when value contains non-alphanumeric/._- characters
func quoteDSN(value string) string {
	if value == "" {
		return "''"
	}

	needsQuoting := false
	for _, r := range value {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') &&
			(r < '0' || r > '9') && r != '.' && r != '_' && r != '-' {
			needsQuoting = true
			break
		}
	}
	if !needsQuoting {
		return value
	}

	escaped := strings.ReplaceAll(value, "\\", "\\\\")
	escaped = strings.ReplaceAll(escaped, "'", "\\'")
	return "'" + escaped + "'"
}

// DSN returns the libpq keyword/value connection string for cfg, or
// cfg.ConnectionString when it is set.
func DSN(cfg *config.DatabaseConfig) string {
	if cfg.ConnectionString != "" {
		return cfg.ConnectionString
	}

	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}
	parts := []string{
		fmt.Sprintf("host=%s", quoteDSN(cfg.Host)),
		fmt.Sprintf("port=%d", port),
		fmt.Sprintf("user=%s", quoteDSN(cfg.Username)),
		fmt.Sprintf("password=%s", quoteDSN(cfg.Password)),
		fmt.Sprintf("dbname=%s", quoteDSN(cfg.Database)),
	}
	if cfg.PostgreSQL.SSLMode != "" {
		parts = append(parts, fmt.Sprintf("sslmode=%s", cfg.PostgreSQL.SSLMode))
	}
	return strings.Join(parts, " ")
}

// Open creates a pool for cfg, applies the pool settings and checks
// connectivity. The caller owns the returned pool.
func Open(cfg *config.DatabaseConfig, log logger.Logger) (*sql.DB, error) {
	pgxConfig, err := pgx.ParseConfig(DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to parse PostgreSQL config: %w", err)
	}

	db := openPostgresDB(pgxConfig)
	dbpool.ConfigurePool(db, cfg.Pool)

	if err := dbpool.Verify(db, types.PostgreSQL, log, pingPostgresDB); err != nil {
		return nil, err
	}

	log.Info().
		Str("host", pgxConfig.Host).
		Int("port", int(pgxConfig.Port)).
		Str("database", pgxConfig.Database).
		Msg("Connected to PostgreSQL database")

	return db, nil
}
