// Package eventsource fetches events from the upstream webhook and keeps the
// latest snapshot in a store shared by every request.
package eventsource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"geowatch/internal/event"
	"geowatch/internal/metrics"
)

// UpstreamError reports a non-2xx answer from the events webhook.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("events webhook returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("events webhook returned status %d: %s", e.StatusCode, e.Body)
}

// Client reads the event list from the webhook.
type Client struct {
	HTTP    *http.Client
	URL     string
	Logger  *zap.Logger
	Metrics *metrics.Metrics
}

// NewClient creates a webhook client with the given request timeout.
func NewClient(url string, timeout time.Duration, log *zap.Logger, m *metrics.Metrics) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		HTTP:    &http.Client{Timeout: timeout},
		URL:     url,
		Logger:  log,
		Metrics: m,
	}
}

// Fetch performs one GET against the webhook. Records that fail validation
// are dropped and logged; they never fail the whole fetch.
func (c *Client) Fetch(ctx context.Context) (events []event.Event, err error) {
	start := time.Now()
	defer func() { c.Metrics.ObserveUpstream(metrics.UpstreamEvents, err, time.Since(start)) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build events request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var raw []event.Event
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	events, dropped := event.Sanitize(raw)
	if dropped > 0 {
		c.Logger.Warn("dropped invalid events",
			zap.Int("dropped", dropped),
			zap.Int("kept", len(events)),
		)
	}
	return events, nil
}
