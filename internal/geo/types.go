package geo

import "context"

type CountryInfo struct {
	Name   string `json:"name"`
	ISO2   string `json:"iso2"`
	Region string `json:"region,omitempty"`
}

// Resolver looks up a country by ISO2 code or common name.
type Resolver interface {
	ResolveCountry(ctx context.Context, key string) (CountryInfo, error)
}
