package query

import (
	"strings"

	"geowatch/internal/event"
)

// Filter is the dashboard's filter form.
type Filter struct {
	EventTypes   []int    `json:"eventTypes"`
	Country      string   `json:"country"`
	ActorFilter  string   `json:"actorFilter"`
	GoldsteinMin *float64 `json:"goldsteinMin"`
	GoldsteinMax *float64 `json:"goldsteinMax"`
	SearchText   string   `json:"searchText"`
}

// Apply returns the events accepted by f. An empty EventTypes list accepts every type.
func Apply(f Filter, events []event.Event) []event.Event {
	types := make(map[event.QuadClass]struct{}, len(f.EventTypes))
	for _, t := range f.EventTypes {
		types[event.QuadClass(t)] = struct{}{}
	}
	lo, hi := event.MinGoldstein, event.MaxGoldstein
	if f.GoldsteinMin != nil {
		lo = *f.GoldsteinMin
	}
	if f.GoldsteinMax != nil {
		hi = *f.GoldsteinMax
	}
	needle := strings.ToLower(strings.TrimSpace(f.SearchText))

	out := make([]event.Event, 0, len(events))
	for _, e := range events {
		if len(types) > 0 {
			if _, ok := types[e.QuadClass]; !ok {
				continue
			}
		}
		if f.Country != "" && e.CountryCode != f.Country {
			continue
		}
		if f.ActorFilter != "" && e.ActorType() != f.ActorFilter {
			continue
		}
		if e.GoldsteinScore < lo || e.GoldsteinScore > hi {
			continue
		}
		if needle != "" && !matchesText(e, needle) {
			continue
		}
		out = append(out, e)
	}
	return out
}

func matchesText(e event.Event, needle string) bool {
	for _, field := range []string{e.FullName, e.Source, e.CountryCode, e.ActorCountry(), e.ActorType()} {
		if field != "" && strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}
