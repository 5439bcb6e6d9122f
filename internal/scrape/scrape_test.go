package scrape

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return d
}

func TestMainText_PrefersArticle(t *testing.T) {
	html := `<html><head><style>p{}</style></head><body>
		<nav>Menu Home</nav>
		<article><h1>Border talks</h1>
		<p>Delegations   met
		on Tuesday.</p><script>track()</script></article>
		<main>Other main text</main>
	</body></html>`

	assert.Equal(t, "Border talks Delegations met on Tuesday.", MainText(doc(t, html)))
}

func TestMainText_SelectorOrder(t *testing.T) {
	html := `<body><div class="post">Post body</div><div id="content">Content body</div></body>`
	assert.Equal(t, "Post body", MainText(doc(t, html)))
}

func TestMainText_FallsBackToBody(t *testing.T) {
	html := `<body><div>Just a page</div><noscript>enable js</noscript><svg><text>x</text></svg></body>`
	assert.Equal(t, "Just a page", MainText(doc(t, html)))
}

func TestMainText_EmptyContainerUsesBody(t *testing.T) {
	html := `<body><main><iframe src="x"></iframe></main><p>Visible paragraph</p></body>`
	assert.Equal(t, "Visible paragraph", MainText(doc(t, html)))
}

func TestScrape(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body><div class="article-content">Ceasefire announced.</div></body></html>`))
	}))
	defer srv.Close()

	s := New(time.Second, "", nil)
	text, err := s.Scrape(context.Background(), srv.URL+"/story")
	require.NoError(t, err)
	assert.Equal(t, "Ceasefire announced.", text)
	assert.Equal(t, DefaultUserAgent, gotUA)
}

func TestScrape_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "forbidden", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := New(time.Second, "test-agent", nil).Scrape(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
}

func TestScrape_InvalidURL(t *testing.T) {
	s := New(time.Second, "", nil)
	for _, raw := range []string{"", "not a url", "ftp://example.com/file", "/relative/path"} {
		_, err := s.Scrape(context.Background(), raw)
		assert.True(t, errors.Is(err, ErrInvalidURL), raw)
	}
}

func TestScrape_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	_, err := New(50*time.Millisecond, "", nil).Scrape(context.Background(), srv.URL)
	assert.Error(t, err)
}
