// Package mysql opens MySQL and MariaDB pools through go-sql-driver/mysql.
package mysql

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"net"
	"strconv"

	"github.com/Masterminds/squirrel"
	"github.com/go-sql-driver/mysql"

	"github.com/gaborage/sqlkit/config"
	"github.com/gaborage/sqlkit/database/types"
	dbpool "github.com/gaborage/sqlkit/internal/database"
	"github.com/gaborage/sqlkit/logger"
)

// DefaultPort is used when the configuration leaves the port unset.
const DefaultPort = 3306

// Dialect is the MySQL connection metadata: backtick quoted identifiers and
// '?' placeholders.
var Dialect = types.Dialect{
	Vendor:          types.MySQL,
	IdentifierQuote: "`",
	Placeholder:     squirrel.Question,
}

var (
	openMySQLDB = func(c driver.Connector) *sql.DB {
		return sql.OpenDB(c)
	}
	pingMySQLDB dbpool.PingFunc = dbpool.Ping
)

// DriverConfig builds the driver configuration for cfg. ConnectionString,
// when set, is parsed as a go-sql-driver DSN. Temporal columns are always
// scanned into time.Time.
func DriverConfig(cfg *config.DatabaseConfig) (*mysql.Config, error) {
	if cfg.ConnectionString != "" {
		mc, err := mysql.ParseDSN(cfg.ConnectionString)
		if err != nil {
			return nil, fmt.Errorf("failed to parse MySQL DSN: %w", err)
		}
		mc.ParseTime = true
		return mc, nil
	}

	port := cfg.Port
	if port == 0 {
		port = DefaultPort
	}
	mc := mysql.NewConfig()
	mc.User = cfg.Username
	mc.Passwd = cfg.Password
	mc.Net = "tcp"
	mc.Addr = net.JoinHostPort(cfg.Host, strconv.Itoa(port))
	mc.DBName = cfg.Database
	mc.ParseTime = true
	return mc, nil
}

// Open creates a pool for cfg, applies the pool settings and checks
// connectivity. The caller owns the returned pool.
func Open(cfg *config.DatabaseConfig, log logger.Logger) (*sql.DB, error) {
	mc, err := DriverConfig(cfg)
	if err != nil {
		return nil, err
	}
	connector, err := mysql.NewConnector(mc)
	if err != nil {
		return nil, fmt.Errorf("failed to create MySQL connector: %w", err)
	}

	db := openMySQLDB(connector)
	dbpool.ConfigurePool(db, cfg.Pool)

	if err := dbpool.Verify(db, types.MySQL, log, pingMySQLDB); err != nil {
		return nil, err
	}

	log.Info().
		Str("addr", mc.Addr).
		Str("database", mc.DBName).
		Msg("Connected to MySQL database")

	return db, nil
}
