// Package app wires the event source and the external collaborators into the
// operations the HTTP layer exposes.
package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"geowatch/internal/ai"
	"geowatch/internal/config"
	"geowatch/internal/event"
	"geowatch/internal/eventsource"
	"geowatch/internal/geo"
	"geowatch/internal/headlines"
	"geowatch/internal/metrics"
	"geowatch/internal/query"
	"geowatch/internal/report"
	"geowatch/internal/scrape"
)

// EventSource yields the current event list.
type EventSource interface {
	Events(ctx context.Context) ([]event.Event, error)
}

// Scraper reduces a page to its readable text.
type Scraper interface {
	Scrape(ctx context.Context, url string) (string, error)
}

// Analyst is the completion provider relay.
type Analyst interface {
	Chat(ctx context.Context, key string, req ai.ChatRequest) (string, error)
	Insights(ctx context.Context, key string, req ai.InsightsRequest) (string, error)
	Extract(ctx context.Context, key, prompt, content string) (string, error)
}

// HeadlineFinder finds coverage related to an event.
type HeadlineFinder interface {
	Related(ctx context.Context, e event.Event, limit int) ([]headlines.Headline, error)
}

// ErrReport marks failures writing an export document.
var ErrReport = errors.New("report generation failed")

// Service is shared by all requests; it holds no per-request state.
type Service struct {
	Events    EventSource
	Scraper   Scraper
	AI        Analyst
	Headlines HeadlineFinder
	Countries geo.Resolver
	Logger    *zap.Logger
	Now       func() time.Time
}

// Components are the long-lived pieces NewService builds besides the Service.
type Components struct {
	Source    *eventsource.Source
	Refresher *eventsource.Refresher
	Store     eventsource.Store
}

// NewService builds the service and its collaborators from configuration.
func NewService(cfg *config.Config, log *zap.Logger, m *metrics.Metrics) (*Service, *Components) {
	if log == nil {
		log = zap.NewNop()
	}

	store := eventsource.NewStore(cfg.Redis, log)
	client := eventsource.NewClient(cfg.Events.WebhookURL, cfg.Events.Timeout, log.Named("events"), m)
	source := eventsource.NewSource(client, store, cfg.Events.CacheTTL, log.Named("events"), m)

	countries := geo.NewHybridResolver(
		geo.NewCache(cfg.Geo.CachePath),
		geo.NewStaticResolver(),
		geo.NewRestCountriesResolver(cfg.Geo.APIURL),
	)

	svc := &Service{
		Events:    source,
		Scraper:   scrape.New(cfg.Scrape.Timeout, cfg.Scrape.UserAgent, m),
		AI:        ai.New(cfg.AI, log.Named("ai"), m),
		Headlines: headlines.NewFinder(cfg.Headlines, log.Named("headlines"), m),
		Countries: countries,
		Logger:    log,
		Now:       time.Now,
	}
	comps := &Components{
		Source: source,
		Refresher: &eventsource.Refresher{
			Source:   source,
			Interval: cfg.Events.RefreshInterval,
			Logger:   log.Named("refresher"),
		},
		Store: store,
	}
	return svc, comps
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) log() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.NewNop()
}

// ListEvents returns the full current event list.
func (s *Service) ListEvents(ctx context.Context) ([]event.Event, error) {
	events, err := s.Events.Events(ctx)
	if err != nil {
		return nil, err
	}
	if events == nil {
		events = []event.Event{}
	}
	return events, nil
}

// Facets lists the values the dashboard's filter dropdowns offer.
func (s *Service) Facets(ctx context.Context) (event.Facets, error) {
	events, err := s.ListEvents(ctx)
	if err != nil {
		return event.Facets{}, err
	}
	return event.BuildFacets(events), nil
}

// Filter applies the structured filter form.
func (s *Service) Filter(ctx context.Context, f query.Filter) ([]event.Event, error) {
	events, err := s.ListEvents(ctx)
	if err != nil {
		return nil, err
	}
	return query.Apply(f, events), nil
}

// Search answers the single search box.
func (s *Service) Search(ctx context.Context, text string) (query.SearchResult, error) {
	events, err := s.ListEvents(ctx)
	if err != nil {
		return query.SearchResult{}, err
	}
	return query.Search(text, events), nil
}

// Ask translates a natural-language question into a filtered subset.
func (s *Service) Ask(ctx context.Context, question string) (query.Result, error) {
	events, err := s.ListEvents(ctx)
	if err != nil {
		return query.Result{}, err
	}
	return query.Translate(question, events), nil
}

// ScrapeContent fetches a page's main text.
func (s *Service) ScrapeContent(ctx context.Context, url string) (string, error) {
	return s.Scraper.Scrape(ctx, url)
}

// Chat relays a follow-up question about an event.
func (s *Service) Chat(ctx context.Context, key string, req ai.ChatRequest) (string, error) {
	return s.AI.Chat(ctx, key, req)
}

// InsightsRequest is the input for the first analysis of an event.
type InsightsRequest struct {
	Event         event.Event
	SourceContent string
}

// Insights analyses one event. When no source content was sent, the article is
// scraped and the country name resolved concurrently; both are best effort.
func (s *Service) Insights(ctx context.Context, key string, req InsightsRequest) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", ai.ErrMissingKey
	}

	in := ai.InsightsRequest{Event: req.Event, SourceContent: req.SourceContent}

	g, gctx := errgroup.WithContext(ctx)
	if in.SourceContent == "" && req.Event.Source != "" && s.Scraper != nil {
		g.Go(func() error {
			text, err := s.Scraper.Scrape(gctx, req.Event.Source)
			if err != nil {
				s.log().Warn("insights source scrape failed",
					zap.String("url", req.Event.Source),
					zap.Error(err),
				)
				return nil
			}
			in.SourceContent = text
			return nil
		})
	}
	g.Go(func() error {
		in.CountryLabel = geo.CountryLabel(gctx, s.Countries, req.Event.CountryCode)
		return nil
	})
	_ = g.Wait()

	return s.AI.Insights(ctx, key, in)
}

// Extract pulls structured data out of content with the model.
func (s *Service) Extract(ctx context.Context, key, prompt, content string) (string, error) {
	return s.AI.Extract(ctx, key, prompt, content)
}

// RelatedHeadlines finds news coverage of an event's location.
func (s *Service) RelatedHeadlines(ctx context.Context, e event.Event, limit int) ([]headlines.Headline, error) {
	if s.Headlines == nil {
		return nil, errors.New("headline search is not configured")
	}
	out, err := s.Headlines.Related(ctx, e, limit)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []headlines.Headline{}
	}
	return out, nil
}

// EventsReport writes the filtered events to a .docx file at path.
func (s *Service) EventsReport(ctx context.Context, f query.Filter, title, path string) (int, error) {
	events, err := s.Filter(ctx, f)
	if err != nil {
		return 0, err
	}
	if err := report.Events(path, title, events, s.now()); err != nil {
		return 0, fmt.Errorf("%w: %w", ErrReport, err)
	}
	return len(events), nil
}

// InsightsReport writes an analysis of one event to a .docx file at path.
func (s *Service) InsightsReport(e event.Event, insights, path string) error {
	if err := report.Insights(path, e, insights, s.now()); err != nil {
		return fmt.Errorf("%w: %w", ErrReport, err)
	}
	return nil
}
