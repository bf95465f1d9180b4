// Package database holds the pool and connectivity handling shared by the
// vendor openers under database/.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gaborage/sqlkit/config"
	"github.com/gaborage/sqlkit/logger"
)

// PingTimeout bounds the connectivity check run after a pool is opened.
const PingTimeout = 10 * time.Second

// PingFunc checks that db can reach the server.
type PingFunc func(ctx context.Context, db *sql.DB) error

// Ping is the default PingFunc.
func Ping(ctx context.Context, db *sql.DB) error {
	return db.PingContext(ctx)
}

// ConfigurePool applies pool to db. Zero fields keep the database/sql defaults.
func ConfigurePool(db *sql.DB, pool config.PoolConfig) {
	if pool.MaxOpen > 0 {
		db.SetMaxOpenConns(pool.MaxOpen)
	}
	if pool.MaxIdle > 0 {
		db.SetMaxIdleConns(pool.MaxIdle)
	}
	if pool.MaxLifetime > 0 {
		db.SetConnMaxLifetime(pool.MaxLifetime)
	}
	if pool.MaxIdleTime > 0 {
		db.SetConnMaxIdleTime(pool.MaxIdleTime)
	}
}

// Verify pings db within PingTimeout. When the ping fails db is closed and a
// connection error naming vendor is returned.
func Verify(db *sql.DB, vendor string, log logger.Logger, ping PingFunc) error {
	ctx, cancel := context.WithTimeout(context.Background(), PingTimeout)
	defer cancel()

	if err := ping(ctx, db); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Error().Err(closeErr).Str("vendor", vendor).Msg("Failed to close database pool after ping failure")
		}
		connErr := config.NewConnectionError("database", fmt.Sprintf("failed to ping %s database", vendor), []string{
			"check that the server is running and reachable",
			"check database.host, database.port and the credentials",
		})
		return fmt.Errorf("%w: %w", connErr, err)
	}
	return nil
}
