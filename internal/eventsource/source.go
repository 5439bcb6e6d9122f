package eventsource

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"geowatch/internal/event"
	"geowatch/internal/metrics"
)

// Fetcher is the upstream read Source depends on.
type Fetcher interface {
	Fetch(ctx context.Context) ([]event.Event, error)
}

// Source serves events from the stored snapshot and goes to the webhook
// when the snapshot is missing or stale. Concurrent fetches share one
// webhook call.
type Source struct {
	group   singleflight.Group
	fetcher Fetcher
	store   Store
	ttl     time.Duration
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewSource creates a Source. A ttl of zero fetches on every call.
func NewSource(f Fetcher, store Store, ttl time.Duration, log *zap.Logger, m *metrics.Metrics) *Source {
	if log == nil {
		log = zap.NewNop()
	}
	return &Source{
		fetcher: f,
		store:   store,
		ttl:     ttl,
		logger:  log,
		metrics: m,
		now:     time.Now,
	}
}

// Events returns the current event list. Fetch errors go to the caller as is
// so an *UpstreamError keeps its status code.
func (s *Source) Events(ctx context.Context) ([]event.Event, error) {
	if s.ttl > 0 {
		snap, err := s.store.Get(ctx)
		switch {
		case err == nil:
			return snap.Events, nil
		case !errors.Is(err, ErrNoSnapshot):
			s.logger.Warn("events snapshot read failed", zap.Error(err))
		}
	}
	return s.Refresh(ctx)
}

// Refresh fetches from the webhook and replaces the snapshot. Callers that
// arrive while a fetch is in flight wait for it instead of starting another.
// The fetch outlives a cancelled caller and is bounded by the client timeout.
func (s *Source) Refresh(ctx context.Context) ([]event.Event, error) {
	ch := s.group.DoChan("events", func() (any, error) {
		return s.refresh(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]event.Event), nil
	}
}

func (s *Source) refresh(ctx context.Context) ([]event.Event, error) {
	events, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if s.ttl > 0 {
		if err := s.store.Put(ctx, Snapshot{Events: events, FetchedAt: now}, s.ttl); err != nil {
			s.logger.Warn("events snapshot write failed", zap.Error(err))
		}
	}
	s.metrics.SetSnapshot(len(events), now)
	return events, nil
}
