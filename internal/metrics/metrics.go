// Package metrics exposes Prometheus instrumentation for refresh cycles,
// upstream fetches and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Refresh outcomes.
const (
	RefreshApplied = "applied"
	RefreshFailed  = "failed"
	RefreshStale   = "stale"
)

// Metrics holds all Prometheus collectors. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry *prometheus.Registry

	refreshTotal     *prometheus.CounterVec
	refreshDuration  prometheus.Histogram
	fetchDuration    *prometheus.HistogramVec
	httpRequests     *prometheus.CounterVec
	httpDuration     *prometheus.HistogramVec
	streamClients    prometheus.Gauge
	notificationsOut *prometheus.CounterVec
}

// New creates and registers all collectors on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		refreshTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptopulse_refresh_total",
				Help: "Refresh cycles by outcome",
			},
			[]string{"result"},
		),
		refreshDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "cryptopulse_refresh_duration_seconds",
				Help:    "Wall time of refresh cycles, including discarded ones",
				Buckets: prometheus.DefBuckets,
			},
		),
		fetchDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cryptopulse_fetch_duration_seconds",
				Help:    "Upstream API call duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"source", "status"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptopulse_http_requests_total",
				Help: "HTTP requests served",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cryptopulse_http_request_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		streamClients: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "cryptopulse_stream_clients",
				Help: "Connected websocket clients",
			},
		),
		notificationsOut: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cryptopulse_notifications_total",
				Help: "Outgoing notifications by status",
			},
			[]string{"status"},
		),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.refreshTotal,
		m.refreshDuration,
		m.fetchDuration,
		m.httpRequests,
		m.httpDuration,
		m.streamClients,
		m.notificationsOut,
	)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRefresh records the outcome of a refresh cycle.
func (m *Metrics) ObserveRefresh(result string, started time.Time) {
	if m == nil {
		return
	}
	m.refreshTotal.WithLabelValues(result).Inc()
	m.refreshDuration.Observe(time.Since(started).Seconds())
}

// ObserveFetch records one upstream call.
func (m *Metrics) ObserveFetch(source string, started time.Time, err error) {
	if m == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.fetchDuration.WithLabelValues(source, status).Observe(time.Since(started).Seconds())
}

// ObserveNotification records an outgoing notification attempt.
func (m *Metrics) ObserveNotification(err error) {
	if m == nil {
		return
	}
	status := "sent"
	if err != nil {
		status = "failed"
	}
	m.notificationsOut.WithLabelValues(status).Inc()
}

// StreamConnected adjusts the connected websocket client gauge.
func (m *Metrics) StreamConnected(delta int) {
	if m == nil {
		return
	}
	m.streamClients.Add(float64(delta))
}

// Middleware instruments gin requests by route template.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
