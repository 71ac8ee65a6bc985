// Package metrics exposes Prometheus counters for wedding API traffic and
// visitor actions.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Action outcomes.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected" // refused before reaching the wedding API
	OutcomeFailed   = "failed"
	OutcomeBusy     = "busy"
)

// Metrics owns its own registry so several instances can coexist in tests.
// All methods are safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	upstreamRequests *prometheus.CounterVec
	upstreamDuration *prometheus.HistogramVec
	actions          *prometheus.CounterVec
}

// New creates and registers the site's collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		upstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "casamento",
			Name:      "upstream_requests_total",
			Help:      "Requests sent to the wedding API, by endpoint and status code.",
		}, []string{"endpoint", "method", "code"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "casamento",
			Name:      "upstream_request_duration_seconds",
			Help:      "Latency of wedding API requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"endpoint"}),
		actions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "casamento",
			Name:      "actions_total",
			Help:      "Visitor actions (rsvp, reserve, purchase) by outcome.",
		}, []string{"action", "outcome"}),
	}

	m.registry.MustRegister(
		m.upstreamRequests,
		m.upstreamDuration,
		m.actions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveUpstream records one wedding API call. code 0 means the request
// never got a response.
func (m *Metrics) ObserveUpstream(endpoint, method string, code int, d time.Duration) {
	if m == nil {
		return
	}
	m.upstreamRequests.WithLabelValues(endpoint, method, strconv.Itoa(code)).Inc()
	m.upstreamDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// Action counts a visitor action outcome.
func (m *Metrics) Action(action, outcome string) {
	if m == nil {
		return
	}
	m.actions.WithLabelValues(action, outcome).Inc()
}
