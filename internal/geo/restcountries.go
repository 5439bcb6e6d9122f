package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultRestCountriesURL = "https://restcountries.com/v3.1"

type RestCountriesResolver struct {
	Client  *http.Client
	BaseURL string
}

func NewRestCountriesResolver(baseURL string) *RestCountriesResolver {
	if baseURL == "" {
		baseURL = DefaultRestCountriesURL
	}
	return &RestCountriesResolver{
		Client:  &http.Client{Timeout: 12 * time.Second},
		BaseURL: strings.TrimRight(baseURL, "/"),
	}
}

type rcCountry struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	CCA2   string `json:"cca2"`
	Region string `json:"region"`
}

// ResolveCountry looks up a two or three letter country code.
func (r *RestCountriesResolver) ResolveCountry(ctx context.Context, code string) (CountryInfo, error) {
	q := strings.TrimSpace(code)
	if q == "" {
		return CountryInfo{}, errors.New("empty country code")
	}

	endpoint := fmt.Sprintf("%s/alpha/%s?fields=name,cca2,region", r.BaseURL, url.PathEscape(q))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return CountryInfo{}, err
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return CountryInfo{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return CountryInfo{}, errors.New("not found in api")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return CountryInfo{}, fmt.Errorf("api error: status %d", resp.StatusCode)
	}

	// The alpha endpoint answers with an object when fields are filtered and
	// with a one-element array otherwise.
	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return CountryInfo{}, err
	}
	var target rcCountry
	if len(raw) > 0 && raw[0] == '[' {
		var results []rcCountry
		if err := json.Unmarshal(raw, &results); err != nil {
			return CountryInfo{}, err
		}
		if len(results) == 0 {
			return CountryInfo{}, errors.New("not found in api")
		}
		target = results[0]
	} else if err := json.Unmarshal(raw, &target); err != nil {
		return CountryInfo{}, err
	}

	info := CountryInfo{
		Name:   strings.TrimSpace(target.Name.Common),
		ISO2:   strings.ToUpper(strings.TrimSpace(target.CCA2)),
		Region: strings.TrimSpace(target.Region),
	}
	if info.ISO2 == "" || info.Name == "" {
		return CountryInfo{}, errors.New("api returned empty country")
	}
	return info, nil
}
