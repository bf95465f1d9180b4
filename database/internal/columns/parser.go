package columns

import (
	"fmt"
	"reflect"
	"strings"
)

// parseStruct extracts column metadata from a struct type, quoting every db tag
// with quote. Fields without a db tag, tagged db:"-" or unexported are skipped.
//
// Returns an error if:
//   - t is not a struct type
//   - the struct has no db-tagged fields
//   - a db tag contains dangerous SQL characters or quotes
//   - two fields map to the same column
func parseStruct(quote string, t reflect.Type) (*ColumnMetadata, error) {
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("expected a struct type, got %s", t.Kind())
	}

	metadata := &ColumnMetadata{
		TypeName:       t.Name(),
		Columns:        make([]Column, 0, t.NumField()),
		columnsByField: make(map[string]*Column),
		columnsByLabel: make(map[string]*Column),
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if !field.IsExported() {
			continue
		}

		dbTag := strings.SplitN(field.Tag.Get("db"), ",", 2)[0]
		if dbTag == "" || dbTag == "-" {
			continue
		}

		if err := validateDBTag(dbTag, t.Name(), field.Name); err != nil {
			return nil, err
		}

		metadata.Columns = append(metadata.Columns, Column{
			FieldName:    field.Name,
			DBColumn:     dbTag,
			QuotedColumn: quoteIdentifier(dbTag, quote),
			FieldIndex:   i,
			FieldType:    field.Type,
		})
	}

	if len(metadata.Columns) == 0 {
		return nil, fmt.Errorf("no fields with `db` tags found in struct %s", t.Name())
	}

	// Index after appending so the pointers stay valid.
	for i := range metadata.Columns {
		col := &metadata.Columns[i]
		label := strings.ToLower(col.DBColumn)
		if prev, dup := metadata.columnsByLabel[label]; dup {
			return nil, fmt.Errorf("fields %s.%s and %s.%s both map to column %q",
				t.Name(), prev.FieldName, t.Name(), col.FieldName, col.DBColumn)
		}
		metadata.columnsByField[col.FieldName] = col
		metadata.columnsByLabel[label] = col
	}

	return metadata, nil
}

// validateDBTag rejects db tags that could smuggle SQL into generated text.
func validateDBTag(tag, structName, fieldName string) error {
	dangerous := []string{";", "--", "/*", "*/"}
	for _, d := range dangerous {
		if strings.Contains(tag, d) {
			return fmt.Errorf(
				"invalid db tag %q in field %s.%s: contains dangerous SQL characters %q",
				tag, structName, fieldName, d,
			)
		}
	}

	if strings.ContainsAny(tag, "\"'`") {
		return fmt.Errorf(
			"invalid db tag %q in field %s.%s: contains quotes (identifier quoting is applied automatically)",
			tag, structName, fieldName,
		)
	}

	return nil
}

func quoteIdentifier(identifier, quote string) string {
	if quote == "" {
		return identifier
	}
	return quote + strings.ReplaceAll(identifier, quote, quote+quote) + quote
}
