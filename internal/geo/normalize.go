package geo

import (
	"strings"
	"unicode"
)

// normalizeKey lower-cases, folds "&" to "and", drops a leading "the" and
// collapses every run of non letters/digits to a single space.
func normalizeKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "&", " and ")

	var b strings.Builder
	b.Grow(len(s))
	prevSpace := true
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			prevSpace = false
			continue
		}
		if !prevSpace {
			b.WriteByte(' ')
			prevSpace = true
		}
	}

	out := strings.TrimSpace(b.String())
	return strings.TrimPrefix(out, "the ")
}
