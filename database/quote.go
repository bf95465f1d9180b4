package database

import "strings"

// QuoteIdentifier wraps identifier in quote, doubling every quote occurrence
// inside it. QuoteIdentifier("a\"b", "\"") returns "\"a\"\"b\"".
func QuoteIdentifier(identifier, quote string) string {
	if quote == "" {
		return identifier
	}
	return quote + strings.ReplaceAll(identifier, quote, quote+quote) + quote
}

// UnquoteIdentifier reverses QuoteIdentifier. It reports false when quoted is
// not a well formed quoted identifier.
func UnquoteIdentifier(quoted, quote string) (string, bool) {
	if quote == "" {
		return quoted, true
	}
	if len(quoted) < 2*len(quote) || !strings.HasPrefix(quoted, quote) || !strings.HasSuffix(quoted, quote) {
		return "", false
	}

	inner := quoted[len(quote) : len(quoted)-len(quote)]
	var b strings.Builder
	for inner != "" {
		i := strings.Index(inner, quote)
		if i < 0 {
			b.WriteString(inner)
			break
		}
		b.WriteString(inner[:i])
		rest := inner[i+len(quote):]
		if !strings.HasPrefix(rest, quote) {
			return "", false
		}
		b.WriteString(quote)
		inner = rest[len(quote):]
	}
	return b.String(), true
}
