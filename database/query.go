package database

import (
	"fmt"
	"slices"

	"github.com/Masterminds/squirrel"
)

// Query is an immutable SQL text with its positional parameters.
// Placeholders are written as '?' regardless of the target database; the
// connection rewrites them for the driver when the query is prepared.
type Query struct {
	sql    string
	params []any
}

// NewQuery creates a Query. params is copied, later changes to the caller's
// slice do not affect the query.
func NewQuery(sql string, params ...any) Query {
	return Query{sql: sql, params: slices.Clone(params)}
}

// QueryFromSqlizer builds a Query from a squirrel fragment. The fragment must
// use the default '?' placeholder format.
func QueryFromSqlizer(s squirrel.Sqlizer) (Query, error) {
	sql, args, err := s.ToSql()
	if err != nil {
		return Query{}, fmt.Errorf("failed to build query: %w", err)
	}
	return NewQuery(sql, args...), nil
}

// SQL returns the query text.
func (q Query) SQL() string {
	return q.sql
}

// Parameters returns a copy of the query parameters.
func (q Query) Parameters() []any {
	return slices.Clone(q.params)
}

func (q Query) String() string {
	return fmt.Sprintf("Query{sql=%s, params=%v}", q.sql, q.params)
}
