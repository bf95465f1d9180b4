package columns

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidUserMetadata(t *testing.T) *ColumnMetadata {
	t.Helper()
	metadata, err := parseStruct(`"`, reflect.TypeOf(ValidUser{}))
	require.NoError(t, err)
	return metadata
}

func TestColumnMetadataGet(t *testing.T) {
	metadata := newValidUserMetadata(t)

	assert.Equal(t, `"name"`, metadata.Get("Name"))
	assert.PanicsWithValue(t,
		`column field "Missing" not found in type ValidUser (available fields: ID, Name, Email)`,
		func() { metadata.Get("Missing") })
}

func TestColumnMetadataAll(t *testing.T) {
	metadata := newValidUserMetadata(t)

	assert.Equal(t, []string{`"id"`, `"name"`, `"email"`}, metadata.All())
}

func TestColumnMetadataLookupIgnoresCase(t *testing.T) {
	metadata := newValidUserMetadata(t)

	col, ok := metadata.Lookup("NAME")
	require.True(t, ok)
	assert.Equal(t, "Name", col.FieldName)

	col, ok = metadata.Lookup("email")
	require.True(t, ok)
	assert.Equal(t, 2, col.FieldIndex)

	_, ok = metadata.Lookup("created_at")
	assert.False(t, ok)
}
