package types

import (
	"strings"

	"github.com/Masterminds/squirrel"
)

// Database vendor identifiers shared across the database packages.
type Vendor = string

const (
	PostgreSQL Vendor = "postgresql"
	Oracle     Vendor = "oracle"
	MySQL      Vendor = "mysql"
	SQLite     Vendor = "sqlite"
)

// Dialect is the connection metadata a query needs: the identifier quote string
// and the placeholder marker the driver understands.
type Dialect struct {
	Vendor          Vendor
	IdentifierQuote string
	Placeholder     squirrel.PlaceholderFormat
}

// Rebind rewrites '?' placeholders into the dialect's format.
// A literal question mark, including one inside a quoted identifier or string
// literal, is written as "??" and sent as a single '?' for every dialect.
func (d Dialect) Rebind(sql string) (string, error) {
	if d.Placeholder == nil || d.Placeholder == squirrel.Question {
		return strings.ReplaceAll(sql, "??", "?"), nil
	}
	return d.Placeholder.ReplacePlaceholders(sql)
}
