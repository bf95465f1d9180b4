package database

import "github.com/gaborage/sqlkit/database/types"

// Aliases so callers writing row mappers or wiring connections do not need to
// import database/types.
type (
	Rows      = types.Rows
	Statement = types.Statement
	Preparer  = types.Preparer
	Dialect   = types.Dialect
)
