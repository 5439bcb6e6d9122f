package eventsource

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Refresher keeps the snapshot warm on a fixed interval.
type Refresher struct {
	Source   *Source
	Interval time.Duration
	Logger   *zap.Logger
}

// Run refreshes once immediately and then on every tick until ctx is done.
// A failed refresh leaves the previous snapshot in place.
func (r *Refresher) Run(ctx context.Context) {
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if r.Interval <= 0 {
		return
	}

	r.refresh(ctx, log)

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("events refresher stopped")
			return
		case <-ticker.C:
			r.refresh(ctx, log)
		}
	}
}

func (r *Refresher) refresh(ctx context.Context, log *zap.Logger) {
	events, err := r.Source.Refresh(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Warn("events refresh failed", zap.Error(err))
		return
	}
	log.Debug("events refreshed", zap.Int("count", len(events)))
}
