// Package strcase holds small string-casing helpers used by the validator
// translations and logging field names.
package strcase

import (
	"strings"
	"unicode"
)

// ToLowerSnake converts s to snake_case. Acronym runs stay intact
// ("HTTPServer" -> "http_server", "userID" -> "user_id").
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
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextIsLower) {
				b.WriteRune('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}
