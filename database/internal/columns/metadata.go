package columns

import (
	"fmt"
	"reflect"
	"strings"
)

// Column represents metadata for a single database column extracted from a struct field.
type Column struct {
	// FieldName is the Go struct field name (e.g., "UserID")
	FieldName string

	// DBColumn is the raw database column name from the db tag (e.g., "user_id")
	DBColumn string

	// QuotedColumn is DBColumn quoted with the registry's identifier quote (e.g., `"user_id"`)
	QuotedColumn string

	// FieldIndex is the index of this field in the struct
	FieldIndex int

	// FieldType is the reflect.Type of the struct field
	FieldType reflect.Type
}

// ColumnMetadata is the cached column layout of one struct type for one identifier quote.
type ColumnMetadata struct {
	// TypeName is the name of the struct type (e.g., "User")
	TypeName string

	// Columns is the ordered list of all columns extracted from the struct
	Columns []Column

	columnsByField map[string]*Column
	// columnsByLabel is keyed by the lowercase db column name; drivers differ in
	// the case they report result labels in (Oracle upper-cases unquoted names).
	columnsByLabel map[string]*Column
}

// Get retrieves the quoted column name for the given struct field name.
//
// Panics if the field name is not found (fail-fast for development-time typos).
func (cm *ColumnMetadata) Get(fieldName string) string {
	col, ok := cm.columnsByField[fieldName]
	if !ok {
		panic(fmt.Sprintf("column field %q not found in type %s (available fields: %s)",
			fieldName, cm.TypeName, cm.availableFieldsForError()))
	}
	return col.QuotedColumn
}

// All returns quoted column names for all columns in declaration order.
func (cm *ColumnMetadata) All() []string {
	result := make([]string, len(cm.Columns))
	for i, col := range cm.Columns {
		result[i] = col.QuotedColumn
	}
	return result
}

// Lookup finds the column a result label maps to, ignoring case.
func (cm *ColumnMetadata) Lookup(label string) (*Column, bool) {
	col, ok := cm.columnsByLabel[strings.ToLower(label)]
	return col, ok
}

func (cm *ColumnMetadata) availableFieldsForError() string {
	fields := make([]string, 0, len(cm.Columns))
	for _, col := range cm.Columns {
		fields = append(fields, col.FieldName)
	}
	return strings.Join(fields, ", ")
}
