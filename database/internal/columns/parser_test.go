package columns

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dangerousSQLCharsErrMsg = "dangerous SQL characters"

type ValidUser struct {
	ID    int64  `db:"id"`
	Name  string `db:"name"`
	Email string `db:"email,omitempty"`
}

type MixedExport struct {
	ID           int64  `db:"id"`
	Name         string `db:"name"`
	unexported   string `db:"hidden"` //nolint:unused // Should be ignored (unexported)
	NoTag        string
	ExplicitSkip string `db:"-"`
}

type EmptyStruct struct{}

type DangerousTag struct {
	ID int64 `db:"id; DROP TABLE users"`
}

type QuotedTag struct {
	ID int64 `db:"\"id\""`
}

type DuplicateColumn struct {
	A string `db:"name"`
	B string `db:"NAME"`
}

func TestParseStructValid(t *testing.T) {
	metadata, err := parseStruct(`"`, reflect.TypeOf(ValidUser{}))
	require.NoError(t, err)

	assert.Equal(t, "ValidUser", metadata.TypeName)
	require.Len(t, metadata.Columns, 3)

	assert.Equal(t, "ID", metadata.Columns[0].FieldName)
	assert.Equal(t, "id", metadata.Columns[0].DBColumn)
	assert.Equal(t, `"id"`, metadata.Columns[0].QuotedColumn)
	assert.Equal(t, 0, metadata.Columns[0].FieldIndex)
	assert.Equal(t, reflect.TypeOf(int64(0)), metadata.Columns[0].FieldType)

	assert.Equal(t, "email", metadata.Columns[2].DBColumn, "tag options are dropped")
}

func TestParseStructSkipsUntaggedAndUnexported(t *testing.T) {
	metadata, err := parseStruct("`", reflect.TypeOf(MixedExport{}))
	require.NoError(t, err)

	require.Len(t, metadata.Columns, 2)
	assert.Equal(t, "`id`", metadata.Columns[0].QuotedColumn)
	assert.Equal(t, "`name`", metadata.Columns[1].QuotedColumn)
	assert.Equal(t, 1, metadata.Columns[1].FieldIndex)
}

func TestParseStructErrors(t *testing.T) {
	tests := []struct {
		name    string
		typ     reflect.Type
		message string
	}{
		{"not a struct", reflect.TypeOf(42), "expected a struct type"},
		{"no tags", reflect.TypeOf(EmptyStruct{}), "no fields with `db` tags"},
		{"dangerous tag", reflect.TypeOf(DangerousTag{}), dangerousSQLCharsErrMsg},
		{"quoted tag", reflect.TypeOf(QuotedTag{}), "contains quotes"},
		{"duplicate column", reflect.TypeOf(DuplicateColumn{}), "both map to column"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseStruct(`"`, tt.typ)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}
}

func TestValidateDBTag(t *testing.T) {
	assert.NoError(t, validateDBTag("user_id", "User", "ID"))

	for _, tag := range []string{"a;b", "a--b", "a/*b", "a*/b"} {
		err := validateDBTag(tag, "User", "ID")
		require.Error(t, err, tag)
		assert.Contains(t, err.Error(), dangerousSQLCharsErrMsg)
	}
	for _, tag := range []string{`"a"`, "'a'", "`a`"} {
		assert.Error(t, validateDBTag(tag, "User", "ID"), tag)
	}
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"a""b"`, quoteIdentifier(`a"b`, `"`))
	assert.Equal(t, "plain", quoteIdentifier("plain", ""))
}
