package event

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestEvent_DecodeWireShape(t *testing.T) {
	raw := `{
		"source": "https://thehill.com/homenews/state-watch/5184314-aid/",
		"goldsteinscore": 7,
		"quadclass": 2,
		"fullname": "Los Angeles County, California, United States",
		"countryCode": "US",
		"actorCountryCode": null,
		"actorFilter": "GOV",
		"coordinates": [34.3667, -118.201],
		"time_ago": "5 minutes ago"
	}`

	var e Event
	require.NoError(t, json.Unmarshal([]byte(raw), &e))

	assert.Equal(t, MaterialCooperation, e.QuadClass)
	assert.Equal(t, 7.0, e.GoldsteinScore)
	assert.Equal(t, "US", e.CountryCode)
	assert.Nil(t, e.ActorCountryCode)
	assert.Equal(t, "", e.ActorCountry())
	assert.Equal(t, "GOV", e.ActorType())
	require.NotNil(t, e.Coordinates)
	assert.Equal(t, 34.3667, e.Coordinates[0])
	assert.Equal(t, "5 minutes ago", e.TimeAgo)
}

func TestEvent_NullCoordinates(t *testing.T) {
	var e Event
	require.NoError(t, json.Unmarshal([]byte(`{"quadclass":1,"coordinates":null}`), &e))
	assert.Nil(t, e.Coordinates)

	out, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"coordinates":null`)
}

func TestQuadClass_Name(t *testing.T) {
	assert.Equal(t, "Verbal Cooperation", VerbalCooperation.Name())
	assert.Equal(t, "Material Cooperation", MaterialCooperation.Name())
	assert.Equal(t, "Verbal Conflict", VerbalConflict.Name())
	assert.Equal(t, "Material Conflict", MaterialConflict.Name())
	assert.Equal(t, "Unknown Event Type", QuadClass(9).Name())
}

func TestQuadClass_Groups(t *testing.T) {
	assert.True(t, VerbalCooperation.IsCooperation())
	assert.True(t, VerbalCooperation.IsVerbal())
	assert.True(t, MaterialConflict.IsConflict())
	assert.True(t, MaterialConflict.IsMaterial())
	assert.False(t, VerbalConflict.IsMaterial())
	assert.False(t, MaterialCooperation.IsConflict())
}

func TestEvent_Validate(t *testing.T) {
	assert.NoError(t, Event{QuadClass: 1, GoldsteinScore: -10}.Validate())
	assert.NoError(t, Event{QuadClass: 4, GoldsteinScore: 10}.Validate())
	assert.Error(t, Event{QuadClass: 0}.Validate())
	assert.Error(t, Event{QuadClass: 5}.Validate())
	assert.Error(t, Event{QuadClass: 2, GoldsteinScore: 10.5}.Validate())
	assert.Error(t, Event{QuadClass: 2, GoldsteinScore: -11}.Validate())
}

func TestSanitize(t *testing.T) {
	in := []Event{
		{Source: "a", QuadClass: 1, GoldsteinScore: 2},
		{Source: "b", QuadClass: 7, GoldsteinScore: 2},
		{Source: "c", QuadClass: 3, GoldsteinScore: -20},
		{Source: "d", QuadClass: 4, GoldsteinScore: -9.5},
	}

	kept, dropped := Sanitize(in)
	assert.Equal(t, 2, dropped)
	require.Len(t, kept, 2)
	assert.Equal(t, "a", kept[0].Source)
	assert.Equal(t, "d", kept[1].Source)
	assert.Len(t, in, 4)
}

func TestSourceDomain(t *testing.T) {
	assert.Equal(t, "bbc.co.uk", SourceDomain("https://www.bbc.co.uk/news/world-123"))
	assert.Equal(t, "thehill.com", SourceDomain("https://thehill.com/a/b"))
	assert.Equal(t, "not a url", SourceDomain("not a url"))
	assert.Equal(t, "http://[::1", SourceDomain("http://[::1"))
}

func TestBuildFacets(t *testing.T) {
	events := []Event{
		{CountryCode: "US", ActorFilter: strPtr("GOV")},
		{CountryCode: "FR"},
		{CountryCode: "US", ActorFilter: strPtr("MIL")},
		{CountryCode: "", ActorFilter: strPtr("GOV")},
	}

	f := BuildFacets(events)
	assert.Equal(t, []string{"FR", "US"}, f.Countries)
	assert.Equal(t, []string{"GOV", "MIL"}, f.ActorTypes)

	empty := BuildFacets(nil)
	assert.Empty(t, empty.Countries)
	assert.NotNil(t, empty.Countries)
}
