package geo

import (
	"context"
	"errors"
)

// StaticResolver answers from a built-in table of common countries.
type StaticResolver struct {
	byKey map[string]CountryInfo // normalized code or name -> info
}

func NewStaticResolver() *StaticResolver {
	byKey := make(map[string]CountryInfo, len(knownCountries)*2)
	for _, c := range knownCountries {
		byKey[normalizeKey(c.ISO2)] = c
		byKey[normalizeKey(c.Name)] = c
	}
	return &StaticResolver{byKey: byKey}
}

func (s *StaticResolver) ResolveCountry(ctx context.Context, key string) (CountryInfo, error) {
	_ = ctx
	k := normalizeKey(key)
	if k == "" {
		return CountryInfo{}, errors.New("empty country key")
	}
	if v, ok := s.byKey[k]; ok {
		return v, nil
	}
	return CountryInfo{}, errors.New("not found in table")
}

var knownCountries = []CountryInfo{
	{Name: "United States", ISO2: "US", Region: "Americas"},
	{Name: "Canada", ISO2: "CA", Region: "Americas"},
	{Name: "Mexico", ISO2: "MX", Region: "Americas"},
	{Name: "Brazil", ISO2: "BR", Region: "Americas"},
	{Name: "Argentina", ISO2: "AR", Region: "Americas"},
	{Name: "United Kingdom", ISO2: "GB", Region: "Europe"},
	{Name: "Germany", ISO2: "DE", Region: "Europe"},
	{Name: "France", ISO2: "FR", Region: "Europe"},
	{Name: "Italy", ISO2: "IT", Region: "Europe"},
	{Name: "Spain", ISO2: "ES", Region: "Europe"},
	{Name: "Netherlands", ISO2: "NL", Region: "Europe"},
	{Name: "Belgium", ISO2: "BE", Region: "Europe"},
	{Name: "Austria", ISO2: "AT", Region: "Europe"},
	{Name: "Switzerland", ISO2: "CH", Region: "Europe"},
	{Name: "Sweden", ISO2: "SE", Region: "Europe"},
	{Name: "Denmark", ISO2: "DK", Region: "Europe"},
	{Name: "Norway", ISO2: "NO", Region: "Europe"},
	{Name: "Finland", ISO2: "FI", Region: "Europe"},
	{Name: "Portugal", ISO2: "PT", Region: "Europe"},
	{Name: "Ireland", ISO2: "IE", Region: "Europe"},
	{Name: "Greece", ISO2: "GR", Region: "Europe"},
	{Name: "Poland", ISO2: "PL", Region: "Europe"},
	{Name: "Ukraine", ISO2: "UA", Region: "Europe"},
	{Name: "Russia", ISO2: "RU", Region: "Europe"},
	{Name: "Turkey", ISO2: "TR", Region: "Asia"},
	{Name: "Israel", ISO2: "IL", Region: "Asia"},
	{Name: "Iran", ISO2: "IR", Region: "Asia"},
	{Name: "Iraq", ISO2: "IQ", Region: "Asia"},
	{Name: "Syria", ISO2: "SY", Region: "Asia"},
	{Name: "Saudi Arabia", ISO2: "SA", Region: "Asia"},
	{Name: "India", ISO2: "IN", Region: "Asia"},
	{Name: "Pakistan", ISO2: "PK", Region: "Asia"},
	{Name: "China", ISO2: "CN", Region: "Asia"},
	{Name: "Japan", ISO2: "JP", Region: "Asia"},
	{Name: "South Korea", ISO2: "KR", Region: "Asia"},
	{Name: "North Korea", ISO2: "KP", Region: "Asia"},
	{Name: "Taiwan", ISO2: "TW", Region: "Asia"},
	{Name: "Egypt", ISO2: "EG", Region: "Africa"},
	{Name: "Nigeria", ISO2: "NG", Region: "Africa"},
	{Name: "South Africa", ISO2: "ZA", Region: "Africa"},
	{Name: "Sudan", ISO2: "SD", Region: "Africa"},
	{Name: "Ethiopia", ISO2: "ET", Region: "Africa"},
	{Name: "Kenya", ISO2: "KE", Region: "Africa"},
	{Name: "Australia", ISO2: "AU", Region: "Oceania"},
	{Name: "New Zealand", ISO2: "NZ", Region: "Oceania"},
}
