// Package strcase converts Go identifier casing to wire naming.
package strcase

import (
	"strings"
	"unicode"
)

// ToLowerSnake converts CamelCase and mixedCase identifiers to snake_case.
// Acronyms stay intact: "HTTPServer" becomes "http_server" and "UserID"
// becomes "user_id".
func ToLowerSnake(s string) string {
	if s == "" {
		return ""
	}

	runes := []rune(s)

	var b strings.Builder
	b.Grow(len(s) + 4)

	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prev := runes[i-1]
			nextIsLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])

			// A boundary starts on lower/digit->upper, or where an acronym
			// ends and a new word begins (upper followed by lower).
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextIsLower) {
				b.WriteByte('_')
			}
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}
