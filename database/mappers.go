package database

import (
	"fmt"
	"reflect"

	"github.com/gaborage/sqlkit/database/internal/columns"
	"github.com/gaborage/sqlkit/database/types"
)

// RowMapper converts the cursor's current state into a value.
//
// ExecuteQuery calls it once with the cursor positioned before the first row,
// the mapper advances the cursor itself. Stream calls it once per row with the
// cursor already positioned on that row.
type RowMapper[T any] func(rows types.Rows) (T, error)

// MapRow maps the current row into a map keyed by column label.
// Byte slices are returned as strings.
func MapRow(rows types.Rows) (map[string]any, error) {
	labels, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	values := make([]any, len(labels))
	dest := make([]any, len(labels))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}

	row := make(map[string]any, len(labels))
	for i, label := range labels {
		if b, ok := values[i].([]byte); ok {
			row[label] = string(b)
			continue
		}
		row[label] = values[i]
	}
	return row, nil
}

// StructMapper returns a mapper that scans the current row into a T by
// matching result labels against `db` struct tags, ignoring case. Columns
// without a matching field are discarded.
//
// T must be a struct type with at least one db tag.
func StructMapper[T any]() RowMapper[T] {
	return func(rows types.Rows) (T, error) {
		var out T
		meta, err := columns.LookupColumns(DefaultIdentifierQuote, reflect.TypeOf(out))
		if err != nil {
			return out, fmt.Errorf("cannot map rows into %T: %w", out, err)
		}

		labels, err := rows.Columns()
		if err != nil {
			return out, err
		}

		target := reflect.ValueOf(&out).Elem()
		dest := make([]any, len(labels))
		for i, label := range labels {
			col, ok := meta.Lookup(label)
			if !ok {
				dest[i] = new(any)
				continue
			}
			dest[i] = target.Field(col.FieldIndex).Addr().Interface()
		}

		if err := rows.Scan(dest...); err != nil {
			var zero T
			return zero, err
		}
		return out, nil
	}
}
