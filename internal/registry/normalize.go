package registry

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes a free-text name or identifier for matching:
// lowercase, strip everything but letters, digits and spaces, collapse
// repeated whitespace, trim. Empty input normalizes to "".
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range strings.ToLower(raw) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	return strings.Join(strings.Fields(b.String()), " ")
}
