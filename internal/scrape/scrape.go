// Package scrape fetches an article page and reduces it to its readable text.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"geowatch/internal/metrics"
)

// DefaultUserAgent is sent with every page request; several news sites
// refuse clients that do not look like a browser.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

const maxPageBytes = 5 << 20

// Elements stripped before any text is read.
const noiseSelector = "script, style, meta, link, noscript, iframe, svg"

// Containers tried in order; the first one present supplies the text.
var contentSelectors = []string{
	"article", "main", ".content", ".article", ".post",
	"#content", "#main", ".main-content", ".article-content", ".post-content",
}

// ErrInvalidURL is returned for anything that is not an absolute http(s) URL.
var ErrInvalidURL = errors.New("invalid page url")

// Scraper downloads pages and extracts their main text.
type Scraper struct {
	HTTP      *http.Client
	UserAgent string
	Metrics   *metrics.Metrics
}

// New creates a Scraper. Empty userAgent uses DefaultUserAgent.
func New(timeout time.Duration, userAgent string, m *metrics.Metrics) *Scraper {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Scraper{
		HTTP:      &http.Client{Timeout: timeout},
		UserAgent: userAgent,
		Metrics:   m,
	}
}

// Scrape returns the whitespace-collapsed main text of the page at rawURL.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (text string, err error) {
	start := time.Now()
	defer func() { s.Metrics.ObserveUpstream(metrics.UpstreamScrape, err, time.Since(start)) }()

	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("build page request: %w", err)
	}
	req.Header.Set("User-Agent", s.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("fetch page: status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return "", fmt.Errorf("parse page: %w", err)
	}
	return MainText(doc), nil
}

// MainText strips non-content elements from doc and returns the text of the
// first matching content container, or of the body when none has text.
func MainText(doc *goquery.Document) string {
	doc.Find(noiseSelector).Remove()

	var text string
	for _, sel := range contentSelectors {
		found := doc.Find(sel)
		if found.Length() > 0 {
			text = strings.TrimSpace(found.Text())
			break
		}
	}
	if text == "" {
		text = doc.Find("body").Text()
	}
	return collapseSpace(text)
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
