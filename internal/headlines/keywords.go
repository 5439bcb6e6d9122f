package headlines

import (
	"strings"
	"unicode"

	"geowatch/internal/event"
)

var stopWords = map[string]bool{
	"the": true, "a": true, "an": true, "and": true, "or": true,
	"but": true, "in": true, "on": true, "at": true, "to": true,
	"for": true, "of": true, "with": true, "by": true, "from": true,
	"is": true, "are": true, "was": true, "were": true, "be": true,
}

// Keywords lists the lower-cased words of an event's location that are long
// enough to match headlines on.
func Keywords(e event.Event) []string {
	fields := strings.FieldsFunc(strings.ToLower(e.FullName), func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\''
	})

	seen := make(map[string]bool, len(fields))
	out := make([]string, 0, len(fields))
	for _, w := range fields {
		w = strings.Trim(w, "'")
		if len([]rune(w)) < 3 || stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out
}

// SearchQuery builds the news search query for an event: the most specific
// and the broadest parts of its location.
func SearchQuery(e event.Event) string {
	parts := make([]string, 0, 3)
	for _, p := range strings.Split(e.FullName, ",") {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	switch len(parts) {
	case 0:
		return e.CountryCode
	case 1:
		return parts[0]
	default:
		return parts[0] + " " + parts[len(parts)-1]
	}
}

func matchesAnyKeyword(text string, keywords []string) bool {
	for _, k := range keywords {
		if len(k) < 3 {
			continue
		}
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// normalizeURL strips query and fragment for deduplication.
func normalizeURL(urlStr string) string {
	urlStr = strings.TrimSpace(urlStr)
	if i := strings.Index(urlStr, "?"); i > 0 {
		urlStr = urlStr[:i]
	}
	if i := strings.Index(urlStr, "#"); i > 0 {
		urlStr = urlStr[:i]
	}
	return strings.ToLower(strings.TrimRight(urlStr, "/"))
}
