// Package strcase converts Go identifiers to the snake_case keys used in
// JSON payloads.
package strcase

import (
	"strings"
	"unicode"
)

// ToLowerSnake converts an identifier such as "OtpauthURL" or "ServiceID" to
// "otpauth_url" or "service_id". Runs of capitals are treated as one word.
func ToLowerSnake(s string) string {
	runes := []rune(s)

	var b strings.Builder
	b.Grow(len(s) + 4)

	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) && wordStart(runes, i) {
			b.WriteByte('_')
		}
		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}

func wordStart(runes []rune, i int) bool {
	prev := runes[i-1]
	if unicode.IsLower(prev) || unicode.IsDigit(prev) {
		return true
	}
	return unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1])
}
