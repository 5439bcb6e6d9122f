package headlines

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"geowatch/internal/config"
	"geowatch/internal/event"
	"geowatch/internal/metrics"
)

const feedUserAgent = "Mozilla/5.0 geowatch/1.0"

// Finder searches the configured feeds for coverage of an event.
type Finder struct {
	Client        *http.Client
	Feeds         []string
	GoogleNews    bool
	GoogleNewsURL string
	Logger        *zap.Logger
	Metrics       *metrics.Metrics
}

// NewFinder creates a Finder from configuration.
func NewFinder(cfg config.HeadlinesConfig, log *zap.Logger, m *metrics.Metrics) *Finder {
	if log == nil {
		log = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Finder{
		Client:        &http.Client{Timeout: timeout},
		Feeds:         cfg.Feeds,
		GoogleNews:    cfg.GoogleNews,
		GoogleNewsURL: DefaultGoogleNewsURL,
		Logger:        log,
		Metrics:       m,
	}
}

type feedSource struct {
	url     string
	google  bool
	foundBy string
}

// Related returns up to limit headlines whose title mentions the event's
// location, newest first. Feeds that fail are skipped.
func (f *Finder) Related(ctx context.Context, e event.Event, limit int) ([]Headline, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	keywords := Keywords(e)
	if len(keywords) == 0 {
		return []Headline{}, nil
	}

	sources := make([]feedSource, 0, len(f.Feeds)+1)
	if f.GoogleNews {
		q := SearchQuery(e)
		sources = append(sources, feedSource{
			url:     googleNewsSearchURL(f.GoogleNewsURL, q),
			google:  true,
			foundBy: "Google News: " + q,
		})
	}
	for _, u := range f.Feeds {
		sources = append(sources, feedSource{url: u, foundBy: "RSS: " + hostOf(u)})
	}

	results := make([][]Headline, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, src := range sources {
		g.Go(func() error {
			items, err := f.fetch(gctx, src, keywords)
			if err != nil {
				f.Logger.Warn("headline feed failed", zap.String("feed", src.url), zap.Error(err))
				return nil
			}
			results[i] = items
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	out := make([]Headline, 0, limit)
	for _, items := range results {
		for _, h := range items {
			key := normalizeURL(h.URL)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, h)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PublishedAt.After(out[j].PublishedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *Finder) fetch(ctx context.Context, src feedSource, keywords []string) (items []Headline, err error) {
	start := time.Now()
	defer func() { f.Metrics.ObserveUpstream(metrics.UpstreamHeadlines, err, time.Since(start)) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", feedUserAgent)
	req.Header.Set("Accept", "application/rss+xml, application/atom+xml, application/xml;q=0.9, */*;q=0.1")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("http %d", resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	publisher := strings.TrimSpace(feed.Title)
	if publisher == "" {
		publisher = hostOf(src.url)
	}

	for _, it := range feed.Items {
		title := strings.TrimSpace(it.Title)
		if !matchesAnyKeyword(strings.ToLower(title), keywords) {
			continue
		}

		var pub time.Time
		if it.PublishedParsed != nil {
			pub = *it.PublishedParsed
		} else if it.UpdatedParsed != nil {
			pub = *it.UpdatedParsed
		}

		link := strings.TrimSpace(it.Link)
		source := publisher
		if src.google {
			link = publisherURL(it)
			source = hostOf(link)
		}
		if link == "" {
			continue
		}

		items = append(items, Headline{
			Title:       title,
			URL:         link,
			Source:      source,
			PublishedAt: pub,
			FoundBy:     src.foundBy,
		})
	}
	return items, nil
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return raw
	}
	return strings.TrimPrefix(u.Host, "www.")
}
