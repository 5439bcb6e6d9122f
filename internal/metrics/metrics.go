// Package metrics holds the service's prometheus collectors.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upstream names used as label values.
const (
	UpstreamEvents    = "events"
	UpstreamScrape    = "scrape"
	UpstreamAI        = "ai"
	UpstreamHeadlines = "headlines"
	UpstreamGeo       = "geo"
)

// Metrics owns a private registry so tests and multiple servers never collide
// on the global one.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	snapshotEvents   prometheus.Gauge
	lastRefresh      prometheus.Gauge
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.httpRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geowatch",
		Name:      "http_requests_total",
		Help:      "HTTP requests by route and status code",
	}, []string{"method", "route", "status"})
	m.httpDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "geowatch",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "route"})
	m.upstreamRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geowatch",
		Name:      "upstream_requests_total",
		Help:      "Calls to external collaborators by outcome",
	}, []string{"upstream", "status"})
	m.upstreamDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "geowatch",
		Name:      "upstream_request_duration_seconds",
		Help:      "Latency of calls to external collaborators",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
	}, []string{"upstream"})
	m.snapshotEvents = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "geowatch",
		Name:      "snapshot_events",
		Help:      "Number of events in the latest snapshot",
	})
	m.lastRefresh = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "geowatch",
		Name:      "snapshot_last_refresh_timestamp_seconds",
		Help:      "Unix timestamp of the last successful snapshot refresh",
	})

	m.registry.MustRegister(
		m.httpRequests, m.httpDuration,
		m.upstreamRequests, m.upstreamDuration,
		m.snapshotEvents, m.lastRefresh,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// ObserveHTTP records one served request.
func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// ObserveUpstream records one call to an external collaborator. A nil
// receiver is a no-op so components can run without metrics.
func (m *Metrics) ObserveUpstream(upstream string, err error, d time.Duration) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.upstreamRequests.WithLabelValues(upstream, status).Inc()
	m.upstreamDuration.WithLabelValues(upstream).Observe(d.Seconds())
}

// SetSnapshot records the size and time of a successful snapshot refresh.
func (m *Metrics) SetSnapshot(events int, at time.Time) {
	if m == nil {
		return
	}
	m.snapshotEvents.Set(float64(events))
	m.lastRefresh.Set(float64(at.Unix()))
}
