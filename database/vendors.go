package database

import "github.com/gaborage/sqlkit/database/types"

// Re-export database vendor identifiers; the single source of truth lives in types.
const (
	PostgreSQL = types.PostgreSQL
	Oracle     = types.Oracle
	MySQL      = types.MySQL
	SQLite     = types.SQLite
)
