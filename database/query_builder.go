package database

import (
	"database/sql/driver"
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/gaborage/sqlkit/database/internal/columns"
)

// QueryBuilder composes SQL text and positional parameters into a Query.
// Every call that adds parameters also writes their placeholders, so the
// number of '?' markers always matches the number of parameters.
//
// A QueryBuilder is not safe for concurrent use.
type QueryBuilder struct {
	sql    strings.Builder
	params []any
	quote  string
}

// NewQueryBuilder creates an empty builder that quotes identifiers with quote.
func NewQueryBuilder(quote string) *QueryBuilder {
	return &QueryBuilder{quote: quote}
}

// AppendText appends a raw SQL fragment.
func (qb *QueryBuilder) AppendText(fragment string) *QueryBuilder {
	qb.sql.WriteString(fragment)
	return qb
}

// AppendInt appends n as a decimal literal.
func (qb *QueryBuilder) AppendInt(n int64) *QueryBuilder {
	qb.sql.WriteString(strconv.FormatInt(n, 10))
	return qb
}

// AppendIdentifier appends name quoted with the builder's quote string. A '?'
// inside name is written as "??" so it is not taken for a placeholder.
func (qb *QueryBuilder) AppendIdentifier(name string) *QueryBuilder {
	qb.sql.WriteString(escapeQuestionMarks(QuoteIdentifier(name, qb.quote)))
	return qb
}

// AppendColumnList appends the comma separated, quoted `db` columns of the
// struct type of structPtr in declaration order.
//
// Panics if the type is not a struct with db tags.
func (qb *QueryBuilder) AppendColumnList(structPtr any) *QueryBuilder {
	cols := columns.RegisterColumns(qb.quote, structPtr)
	qb.sql.WriteString(escapeQuestionMarks(strings.Join(cols.All(), ", ")))
	return qb
}

// AddParameter appends one scalar parameter. The caller writes its
// placeholder.
//
// Panics with an error wrapping ErrCollectionParameter if v is a slice, array
// or map; use AddParameters or In for lists. The builder is left unchanged.
func (qb *QueryBuilder) AddParameter(v any) *QueryBuilder {
	mustBeScalar(v)
	qb.params = append(qb.params, v)
	return qb
}

// AddParameters appends vs in order. Every value is checked before any is
// appended.
func (qb *QueryBuilder) AddParameters(vs ...any) *QueryBuilder {
	for _, v := range vs {
		mustBeScalar(v)
	}
	qb.params = append(qb.params, vs...)
	return qb
}

// AppendTextAndParameter appends fragment and v.
func (qb *QueryBuilder) AppendTextAndParameter(fragment string, v any) *QueryBuilder {
	mustBeScalar(v)
	qb.sql.WriteString(fragment)
	qb.params = append(qb.params, v)
	return qb
}

// AppendTextAndParameters appends fragment and vs.
func (qb *QueryBuilder) AppendTextAndParameters(fragment string, vs ...any) *QueryBuilder {
	for _, v := range vs {
		mustBeScalar(v)
	}
	qb.sql.WriteString(fragment)
	qb.params = append(qb.params, vs...)
	return qb
}

// AppendQuery appends the text of q verbatim followed by its parameters.
func (qb *QueryBuilder) AppendQuery(q Query) *QueryBuilder {
	qb.sql.WriteString(q.sql)
	qb.params = append(qb.params, q.params...)
	return qb
}

// In appends " IN (?,...,?)" with one placeholder per value, then the values.
// No values yields " IN ()".
func (qb *QueryBuilder) In(vs ...any) *QueryBuilder {
	return qb.appendList(" IN (", vs)
}

// NotIn appends " NOT IN (?,...,?)" with one placeholder per value, then the
// values. No values yields " NOT IN ()".
func (qb *QueryBuilder) NotIn(vs ...any) *QueryBuilder {
	return qb.appendList(" NOT IN (", vs)
}

func (qb *QueryBuilder) appendList(prefix string, vs []any) *QueryBuilder {
	for _, v := range vs {
		mustBeScalar(v)
	}
	qb.sql.WriteString(prefix)
	for i := range vs {
		if i > 0 {
			qb.sql.WriteByte(',')
		}
		qb.sql.WriteByte('?')
	}
	qb.sql.WriteByte(')')
	qb.params = append(qb.params, vs...)
	return qb
}

// Build snapshots the accumulated text and parameters. The builder stays
// usable and later changes do not affect the returned Query.
func (qb *QueryBuilder) Build() Query {
	return Query{sql: qb.sql.String(), params: slices.Clone(qb.params)}
}

// SQL returns the accumulated text.
func (qb *QueryBuilder) SQL() string {
	return qb.sql.String()
}

// Parameters returns a copy of the accumulated parameters.
func (qb *QueryBuilder) Parameters() []any {
	return slices.Clone(qb.params)
}

// QuoteString returns the identifier quote the builder was created with.
func (qb *QueryBuilder) QuoteString() string {
	return qb.quote
}

// Values converts a typed slice into arguments for the variadic builder
// methods: qb.In(database.Values(ids)...).
func Values[T any](vs []T) []any {
	out := make([]any, len(vs))
	for i, v := range vs {
		out[i] = v
	}
	return out
}

func escapeQuestionMarks(s string) string {
	return strings.ReplaceAll(s, "?", "??")
}

func mustBeScalar(v any) {
	if isCollection(v) {
		panic(fmt.Errorf("%w: got %T, use AddParameters or In", ErrCollectionParameter, v))
	}
}

// isCollection reports whether v is a slice, array or map. Byte slices and
// driver.Valuer implementations are single values.
func isCollection(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(driver.Valuer); ok {
		return false
	}
	t := reflect.TypeOf(v)
	switch t.Kind() {
	case reflect.Slice:
		return t.Elem().Kind() != reflect.Uint8
	case reflect.Array, reflect.Map:
		return true
	default:
		return false
	}
}
