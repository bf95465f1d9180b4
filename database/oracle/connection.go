// Package oracle opens Oracle pools through the pure Go go-ora driver.
package oracle

import (
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"
	go_ora "github.com/sijms/go-ora/v2"

	"github.com/gaborage/sqlkit/config"
	"github.com/gaborage/sqlkit/database/types"
	dbpool "github.com/gaborage/sqlkit/internal/database"
	"github.com/gaborage/sqlkit/logger"
)

// DefaultPort is the Oracle listener port used when none is configured.
const DefaultPort = 1521

// Dialect is the Oracle connection metadata: double quoted identifiers and
// :n placeholders.
var Dialect = types.Dialect{
	Vendor:          types.Oracle,
	IdentifierQuote: `"`,
	Placeholder:     squirrel.Colon,
}

var (
	openOracleDB = func(dsn string) (*sql.DB, error) {
		return sql.Open("oracle", dsn)
	}
	pingOracleDB dbpool.PingFunc = dbpool.Ping
)

// DSN returns the go-ora URL for cfg. The connect target is the service name,
// the SID or the database name, in that order; ConnectionString wins over all
// of them.
func DSN(cfg *config.DatabaseConfig) string {
	if cfg.ConnectionString != "" {
		return cfg.ConnectionString
	}

	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}
	switch {
	case cfg.Oracle.ServiceName != "":
		return go_ora.BuildUrl(cfg.Host, port, cfg.Oracle.ServiceName, cfg.Username, cfg.Password, nil)
	case cfg.Oracle.SID != "":
		return go_ora.BuildUrl(cfg.Host, port, "", cfg.Username, cfg.Password, map[string]string{"SID": cfg.Oracle.SID})
	default:
		return go_ora.BuildUrl(cfg.Host, port, cfg.Database, cfg.Username, cfg.Password, nil)
	}
}

// Open creates a pool for cfg, applies the pool settings and checks
// connectivity. The caller owns the returned pool.
func Open(cfg *config.DatabaseConfig, log logger.Logger) (*sql.DB, error) {
	db, err := openOracleDB(DSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open Oracle connection: %w", err)
	}
	dbpool.ConfigurePool(db, cfg.Pool)

	if err := dbpool.Verify(db, types.Oracle, log, pingOracleDB); err != nil {
		return nil, err
	}

	ev := log.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port)
	switch {
	case cfg.Oracle.ServiceName != "":
		ev = ev.Str("service_name", cfg.Oracle.ServiceName)
	case cfg.Oracle.SID != "":
		ev = ev.Str("sid", cfg.Oracle.SID)
	default:
		ev = ev.Str("database", cfg.Database)
	}
	ev.Msg("Connected to Oracle database")

	return db, nil
}
