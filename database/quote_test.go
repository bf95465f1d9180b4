package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, `"a""b"`, QuoteIdentifier(`a"b`, `"`))
	assert.Equal(t, `"users"`, QuoteIdentifier("users", `"`))
	assert.Equal(t, "`we``ird`", QuoteIdentifier("we`ird", "`"))
	assert.Equal(t, `""`, QuoteIdentifier("", `"`))
	assert.Equal(t, "plain", QuoteIdentifier("plain", ""))
}

func TestQuoteIdentifierRoundTrip(t *testing.T) {
	identifiers := []string{"", "users", `a"b`, `""`, `"leading`, `trailing"`, "we`ird", "spaces and stuff"}
	quotes := []string{`"`, "`"}

	for _, quote := range quotes {
		for _, id := range identifiers {
			got, ok := UnquoteIdentifier(QuoteIdentifier(id, quote), quote)
			assert.True(t, ok, "quote %q id %q", quote, id)
			assert.Equal(t, id, got, "quote %q", quote)
		}
	}
}

func TestUnquoteIdentifierRejectsMalformed(t *testing.T) {
	for _, in := range []string{``, `"`, `abc`, `"abc`, `"a"b"`, `"""`} {
		_, ok := UnquoteIdentifier(in, `"`)
		assert.False(t, ok, in)
	}
}
