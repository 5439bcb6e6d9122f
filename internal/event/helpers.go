package event

import (
	"net/url"
	"sort"
	"strings"
)

// SourceDomain returns the host of a source URL without a leading "www.".
// Unparseable input is returned unchanged.
func SourceDomain(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" {
		return raw
	}
	return strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
}

// Facets lists the distinct values the dashboard offers as filter choices.
type Facets struct {
	Countries  []string `json:"countries"`
	ActorTypes []string `json:"actorTypes"`
}

func BuildFacets(events []Event) Facets {
	countries := map[string]struct{}{}
	actors := map[string]struct{}{}
	for _, e := range events {
		if e.CountryCode != "" {
			countries[e.CountryCode] = struct{}{}
		}
		if a := e.ActorType(); a != "" {
			actors[a] = struct{}{}
		}
	}
	return Facets{
		Countries:  sortedKeys(countries),
		ActorTypes: sortedKeys(actors),
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
