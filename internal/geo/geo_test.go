package geo

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchPlace(t *testing.T) {
	tests := []struct {
		query string
		label string
		ok    bool
	}{
		{"conflict events in the us", "US", true},
		{"show events in united states above 3", "US", true},
		{"protests in uk", "GB", true},
		{"anything in the united kingdom", "GB", true},
		{"trade talks in canada", "CA", true},
		{"cooperation in europe", "Europe", true},
		{"in us", "", false},
		{"events in mexico", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			p, ok := MatchPlace(tt.query)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.label, p.Label)
		})
	}
}

func TestMatchPlace_FirstMatchWins(t *testing.T) {
	p, ok := MatchPlace("events in canada and in the us")
	require.True(t, ok)
	assert.Equal(t, []string{"US"}, p.Codes)
}

func TestDisplayName(t *testing.T) {
	us, _ := MatchPlace(" in us")
	gb, _ := MatchPlace(" in uk")
	ca, _ := MatchPlace(" in canada")
	eu, _ := MatchPlace(" in europe")

	assert.Equal(t, "the United States", DisplayName(us))
	assert.Equal(t, "the United Kingdom", DisplayName(gb))
	assert.Equal(t, "CA", DisplayName(ca))
	assert.Equal(t, "Europe", DisplayName(eu))
	assert.True(t, eu.IsRegion())
	assert.Len(t, eu.Codes, 17)
}

func TestStaticResolver(t *testing.T) {
	r := NewStaticResolver()

	info, err := r.ResolveCountry(context.Background(), "gb")
	require.NoError(t, err)
	assert.Equal(t, "United Kingdom", info.Name)

	info, err = r.ResolveCountry(context.Background(), "  South   Korea ")
	require.NoError(t, err)
	assert.Equal(t, "KR", info.ISO2)

	_, err = r.ResolveCountry(context.Background(), "ZZ")
	assert.Error(t, err)
	_, err = r.ResolveCountry(context.Background(), " ")
	assert.Error(t, err)
}

func TestCache_PersistsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geo", "countries.json")

	c := NewCache(path)
	require.NoError(t, c.Load())
	require.NoError(t, c.Put("vn", CountryInfo{Name: "Vietnam", ISO2: "VN"}))

	reloaded := NewCache(path)
	require.NoError(t, reloaded.Load())
	v, ok := reloaded.Get("vn")
	require.True(t, ok)
	assert.Equal(t, "Vietnam", v.Name)
}

func TestCache_IgnoresCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "countries.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	c := NewCache(path)
	assert.NoError(t, c.Load())
	_, ok := c.Get("vn")
	assert.False(t, ok)
}

func TestCache_FileIsVersionedByCode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "countries.json")
	c := NewCache(path)
	c.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	require.NoError(t, c.Put("vn", CountryInfo{Name: "Vietnam", ISO2: "vn", Region: "Asia"}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var doc cacheDocument
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, cacheFileVersion, doc.Version)
	require.Contains(t, doc.Countries, "VN")
	assert.Equal(t, "VN", doc.Countries["VN"].ISO2)
	assert.Equal(t, "Asia", doc.Countries["VN"].Region)
	assert.True(t, doc.Countries["VN"].ResolvedAt.Equal(c.now()))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestCache_IgnoresUnversionedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "countries.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"vn":{"name":"Vietnam","iso2":"VN"}}`), 0o600))

	c := NewCache(path)
	require.NoError(t, c.Load())
	assert.Equal(t, 0, c.Len())

	require.NoError(t, c.Put("cu", CountryInfo{Name: "Cuba", ISO2: "CU"}))
	reloaded := NewCache(path)
	require.NoError(t, reloaded.Load())
	v, ok := reloaded.Get("CU")
	require.True(t, ok)
	assert.Equal(t, "Cuba", v.Name)
}

func TestCache_MaxAge(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	c := NewCache("")
	c.MaxAge = 24 * time.Hour
	c.now = func() time.Time { return now }
	require.NoError(t, c.Put("VN", CountryInfo{Name: "Vietnam", ISO2: "VN"}))

	now = now.Add(23 * time.Hour)
	_, ok := c.Get("vn")
	assert.True(t, ok)

	now = now.Add(2 * time.Hour)
	_, ok = c.Get("vn")
	assert.False(t, ok)
}

func TestRestCountriesResolver(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/alpha/VN":
			_, _ = w.Write([]byte(`{"name":{"common":"Vietnam"},"cca2":"vn","region":"Asia"}`))
		case "/alpha/CU":
			_, _ = w.Write([]byte(`[{"name":{"common":"Cuba"},"cca2":"CU","region":"Americas"}]`))
		case "/alpha/XX":
			w.WriteHeader(http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()

	r := NewRestCountriesResolver(srv.URL)

	info, err := r.ResolveCountry(context.Background(), "VN")
	require.NoError(t, err)
	assert.Equal(t, CountryInfo{Name: "Vietnam", ISO2: "VN", Region: "Asia"}, info)

	info, err = r.ResolveCountry(context.Background(), "CU")
	require.NoError(t, err)
	assert.Equal(t, "Cuba", info.Name)

	_, err = r.ResolveCountry(context.Background(), "XX")
	assert.EqualError(t, err, "not found in api")

	_, err = r.ResolveCountry(context.Background(), "YY")
	assert.Error(t, err)
}

type countingResolver struct {
	calls int
	info  CountryInfo
	err   error
}

func (c *countingResolver) ResolveCountry(ctx context.Context, key string) (CountryInfo, error) {
	c.calls++
	return c.info, c.err
}

func TestHybridResolver_CachesAPIAnswers(t *testing.T) {
	api := &countingResolver{info: CountryInfo{Name: "Vietnam", ISO2: "VN"}}
	h := NewHybridResolver(NewCache(""), NewStaticResolver(), api)

	for i := 0; i < 3; i++ {
		info, err := h.ResolveCountry(context.Background(), "VN")
		require.NoError(t, err)
		assert.Equal(t, "Vietnam", info.Name)
	}
	assert.Equal(t, 1, api.calls)

	info, err := h.ResolveCountry(context.Background(), "FR")
	require.NoError(t, err)
	assert.Equal(t, "France", info.Name)
	assert.Equal(t, 1, api.calls)
}

func TestHybridResolver_Errors(t *testing.T) {
	api := &countingResolver{err: errors.New("boom")}
	h := NewHybridResolver(nil, nil, api)

	_, err := h.ResolveCountry(context.Background(), "VN")
	assert.EqualError(t, err, "boom")

	_, err = NewHybridResolver(nil, nil, nil).ResolveCountry(context.Background(), "VN")
	assert.EqualError(t, err, "no resolver available")
}

func TestCountryLabel(t *testing.T) {
	r := NewStaticResolver()
	assert.Equal(t, "US (United States)", CountryLabel(context.Background(), r, "US"))
	assert.Equal(t, "ZZ", CountryLabel(context.Background(), r, "ZZ"))
	assert.Equal(t, "US", CountryLabel(context.Background(), nil, "US"))
}

func TestNormalizeKey(t *testing.T) {
	assert.Equal(t, "united kingdom", normalizeKey("  The United-Kingdom "))
	assert.Equal(t, "bosnia and herzegovina", normalizeKey("Bosnia & Herzegovina"))
	assert.Equal(t, "côte d ivoire", normalizeKey("Côte d'Ivoire"))
	assert.Equal(t, "", normalizeKey("  ..  "))
}
