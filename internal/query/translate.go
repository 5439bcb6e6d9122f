// Package query turns dashboard questions and filter forms into event subsets.
package query

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"geowatch/internal/event"
	"geowatch/internal/geo"
)

const (
	MessageNoMatch  = "I couldn't find any events matching your criteria."
	MessageShowAll  = "Showing all events. You can be more specific with your query to filter the results."
	scoreFloorWords = "above|greater than|>"
	scoreCeilWords  = "below|less than|<"
)

var (
	reScoreFloor = regexp.MustCompile(`(` + scoreFloorWords + `)\s+(\d+)`)
	reScoreCeil  = regexp.MustCompile(`(` + scoreCeilWords + `)\s+(\d+)`)
)

// Kind is the cooperation/conflict part of a detected event-type restriction.
type Kind string

const (
	KindAny         Kind = ""
	KindCooperation Kind = "cooperation"
	KindConflict    Kind = "conflict"
)

// Mode is the verbal/material part of a detected event-type restriction.
type Mode string

const (
	ModeAny      Mode = ""
	ModeVerbal   Mode = "verbal"
	ModeMaterial Mode = "material"
)

// Criteria is what the translator recognised in a question.
type Criteria struct {
	Place        *geo.Place `json:"place,omitempty"`
	Kind         Kind       `json:"kind,omitempty"`
	Mode         Mode       `json:"mode,omitempty"`
	GoldsteinMin float64    `json:"goldsteinMin"`
	GoldsteinMax float64    `json:"goldsteinMax"`
}

// Result is the filtered subset together with its explanation.
type Result struct {
	Events   []event.Event `json:"events"`
	Message  string        `json:"message"`
	Criteria Criteria      `json:"criteria"`
}

// Parse extracts the criteria from a free-text question.
func Parse(q string) Criteria {
	t := strings.ToLower(strings.TrimSpace(q))

	c := Criteria{GoldsteinMin: event.MinGoldstein, GoldsteinMax: event.MaxGoldstein}

	if p, ok := geo.MatchPlace(t); ok {
		c.Place = &p
	}

	coop := strings.Contains(t, "cooperation")
	conflict := strings.Contains(t, "conflict")
	verbal := strings.Contains(t, "verbal")
	material := strings.Contains(t, "material")

	// Mentioning both cooperation and conflict drops that half of the restriction.
	switch {
	case coop && !conflict:
		c.Kind = KindCooperation
	case conflict && !coop:
		c.Kind = KindConflict
	}
	switch {
	case verbal:
		c.Mode = ModeVerbal
	case material:
		c.Mode = ModeMaterial
	}

	if strings.Contains(t, "above") || strings.Contains(t, "greater than") {
		if v, ok := firstInt(reScoreFloor, t); ok {
			c.GoldsteinMin = v
		}
	}
	if strings.Contains(t, "below") || strings.Contains(t, "less than") {
		if v, ok := firstInt(reScoreCeil, t); ok {
			c.GoldsteinMax = v
		}
	}

	return c
}

func firstInt(re *regexp.Regexp, text string) (float64, bool) {
	m := re.FindStringSubmatch(text)
	if len(m) < 3 {
		return 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}
	return float64(n), true
}

// Matches reports whether e satisfies the criteria.
func (c Criteria) Matches(e event.Event) bool {
	return c.matchesPlace(e) && c.matchesType(e.QuadClass) && c.matchesScore(e)
}

func (c Criteria) matchesPlace(e event.Event) bool {
	if c.Place == nil {
		return true
	}
	for _, code := range c.Place.Codes {
		if e.CountryCode == code {
			return true
		}
	}
	return false
}

func (c Criteria) matchesType(q event.QuadClass) bool {
	switch c.Kind {
	case KindCooperation:
		switch c.Mode {
		case ModeVerbal:
			return q == event.VerbalCooperation
		case ModeMaterial:
			return q == event.MaterialCooperation
		}
		return q.IsCooperation()
	case KindConflict:
		switch c.Mode {
		case ModeVerbal:
			return q == event.VerbalConflict
		case ModeMaterial:
			return q == event.MaterialConflict
		}
		return q.IsConflict()
	}
	switch c.Mode {
	case ModeVerbal:
		return q.IsVerbal()
	case ModeMaterial:
		return q.IsMaterial()
	}
	return true
}

func (c Criteria) matchesScore(e event.Event) bool {
	return e.GoldsteinScore >= c.GoldsteinMin && e.GoldsteinScore <= c.GoldsteinMax
}

// Filter applies place, then event type, then score range.
func (c Criteria) Filter(events []event.Event) []event.Event {
	out := make([]event.Event, 0, len(events))
	for _, e := range events {
		if c.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}

func (c Criteria) scoreNarrowed() bool {
	return c.GoldsteinMin > event.MinGoldstein || c.GoldsteinMax < event.MaxGoldstein
}

// Translate interprets q against events. It does no I/O.
func Translate(q string, events []event.Event) Result {
	c := Parse(q)
	filtered := c.Filter(events)
	return Result{
		Events:   filtered,
		Message:  c.describe(len(filtered), len(events)),
		Criteria: c,
	}
}

func (c Criteria) describe(found, total int) string {
	if found == 0 {
		return MessageNoMatch
	}
	if found == total {
		return MessageShowAll
	}

	var b strings.Builder
	if c.Place != nil {
		fmt.Fprintf(&b, "Found %d events in %s.", found, geo.DisplayName(*c.Place))
	} else {
		fmt.Fprintf(&b, "Found %d events matching your criteria.", found)
	}

	if c.Kind != KindAny {
		fmt.Fprintf(&b, " These are %s events", c.Kind)
		switch c.Mode {
		case ModeVerbal, ModeMaterial:
			fmt.Fprintf(&b, " of the %s type.", c.Mode)
		default:
			b.WriteString(".")
		}
	}

	if c.scoreNarrowed() {
		fmt.Fprintf(&b, " Goldstein scores are between %s and %s.", formatScore(c.GoldsteinMin), formatScore(c.GoldsteinMax))
	}
	return b.String()
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
