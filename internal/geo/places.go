package geo

import "strings"

// Place is a country restriction recognised in free text.
type Place struct {
	Label string   // "Europe", or the single country code
	Codes []string // one code, or the member list of a region
}

// IsRegion reports whether the place spans several countries.
func (p Place) IsRegion() bool { return len(p.Codes) > 1 }

// EuropeCodes is the simplified member list used for " in europe".
var EuropeCodes = []string{"DE", "FR", "GB", "IT", "ES", "NL", "BE", "AT", "CH", "SE", "DK", "NO", "FI", "PT", "IE", "GR", "PL"}

type placePhrases struct {
	place   Place
	phrases []string
}

// Checked in order; the first phrase found wins.
var placeLexicon = []placePhrases{
	{Place{Label: "US", Codes: []string{"US"}}, []string{" in us", " in the us", " in united states", " in the united states"}},
	{Place{Label: "GB", Codes: []string{"GB"}}, []string{" in uk", " in the uk", " in united kingdom", " in the united kingdom"}},
	{Place{Label: "CA", Codes: []string{"CA"}}, []string{" in canada", " in the canada"}},
	{Place{Label: "Europe", Codes: EuropeCodes}, []string{" in europe"}},
}

// MatchPlace finds the country restriction in an already lower-cased query.
func MatchPlace(lowered string) (Place, bool) {
	for _, pp := range placeLexicon {
		for _, p := range pp.phrases {
			if strings.Contains(lowered, p) {
				return pp.place, true
			}
		}
	}
	return Place{}, false
}

// DisplayName renders a place for a sentence like "Found 3 events in <name>."
func DisplayName(p Place) string {
	if p.IsRegion() {
		return p.Label
	}
	switch p.Label {
	case "US":
		return "the United States"
	case "GB":
		return "the United Kingdom"
	default:
		return p.Label
	}
}
