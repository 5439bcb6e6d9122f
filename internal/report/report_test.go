package report

import (
	"archive/zip"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geowatch/internal/event"
)

func documentXML(t *testing.T, path string) string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		return string(data)
	}
	t.Fatalf("word/document.xml not found in %s", path)
	return ""
}

func fixture() []event.Event {
	actor := "CHN"
	return []event.Event{
		{Source: "https://example.com/a", GoldsteinScore: 7, QuadClass: event.MaterialCooperation, FullName: "Nairobi, Kenya", CountryCode: "KE", TimeAgo: "1 hour ago"},
		{Source: "https://example.com/b", GoldsteinScore: -9.5, QuadClass: event.MaterialConflict, FullName: "Khartoum, Sudan", CountryCode: "SU", ActorCountryCode: &actor, TimeAgo: "2 hours ago"},
	}
}

func TestEvents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.docx")
	require.NoError(t, Events(path, "", fixture(), time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)))

	xml := documentXML(t, path)
	assert.Contains(t, xml, "Global Events Report")
	assert.Contains(t, xml, "2 events")
	assert.Contains(t, xml, "Nairobi, Kenya")
	assert.Contains(t, xml, "Material Conflict | Country: SU | Goldstein: -9.5 | 2 hours ago")
	assert.Contains(t, xml, "Actor country: CHN")
	assert.Contains(t, xml, "Material cooperation: 1")
}

func TestInsights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "insights.docx")
	text := "## Executive Summary\n\nTalks stalled again.\n\n## Outlook\n\nExpect more pressure."
	require.NoError(t, Insights(path, fixture()[1], text, time.Now()))

	xml := documentXML(t, path)
	assert.Contains(t, xml, "Event Analysis")
	assert.Contains(t, xml, "Executive Summary")
	assert.False(t, strings.Contains(xml, "## Executive Summary"))
	assert.Contains(t, xml, "Expect more pressure.")

	// Sizes are written in half points. Headings are 14pt; the writer has no bold property.
	assert.Equal(t, 1, strings.Count(xml, `<w:sz w:val="40">`))
	assert.Equal(t, 2, strings.Count(xml, `<w:sz w:val="28">`))
	assert.NotContains(t, xml, "<w:b>")
}

func TestMarkdownHeading(t *testing.T) {
	h, ok := markdownHeading("### Key context")
	assert.True(t, ok)
	assert.Equal(t, "Key context", h)

	_, ok = markdownHeading("plain text")
	assert.False(t, ok)
	_, ok = markdownHeading("# Title\nwith body")
	assert.False(t, ok)
}
