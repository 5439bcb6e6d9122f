package query

import (
	"regexp"
	"strconv"
	"strings"

	"geowatch/internal/event"
)

var questionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(what|where|when|which|who|whose|whom|why|how)`),
	regexp.MustCompile(`(?i)^(show|find|get|give|list|display|tell)`),
	regexp.MustCompile(`(?i)^(is|are|can|could|do|does|did|has|have|should|would|will)`),
	regexp.MustCompile(`(?i)(show me|tell me|can you|could you|would you|find|list|get|give)`),
}

// IsNaturalLanguage guesses whether text is a question rather than a search term.
func IsNaturalLanguage(text string) bool {
	if text == "" {
		return false
	}
	if strings.Contains(text, "?") {
		return true
	}
	t := strings.TrimSpace(text)
	for _, re := range questionPatterns {
		if re.MatchString(t) {
			return true
		}
	}
	return false
}

// SearchResult is the answer to the dashboard's single search box.
type SearchResult struct {
	Message         string        `json:"message"`
	Events          []event.Event `json:"events"`
	NaturalLanguage bool          `json:"naturalLanguage"`
}

// Search routes questions through Translate and plain terms through a text filter.
func Search(text string, events []event.Event) SearchResult {
	if IsNaturalLanguage(text) {
		r := Translate(text, events)
		return SearchResult{Message: r.Message, Events: r.Events, NaturalLanguage: true}
	}

	filtered := Apply(Filter{SearchText: text}, events)
	msg := MessageShowAll
	switch {
	case len(filtered) == 0:
		msg = MessageNoMatch
	case len(filtered) < len(events):
		msg = pluralFound(len(filtered), strings.TrimSpace(text))
	}
	return SearchResult{Message: msg, Events: filtered}
}

func pluralFound(n int, term string) string {
	if n == 1 {
		return `Found 1 event matching "` + term + `".`
	}
	return "Found " + strconv.Itoa(n) + ` events matching "` + term + `".`
}
