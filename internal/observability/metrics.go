package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// GateDecision labels the outcome of the authentication gate.
type GateDecision string

const (
	GateExempt       GateDecision = "exempt"
	GateAdmitted     GateDecision = "admitted"
	GateNoToken      GateDecision = "no_token"
	GateInvalidToken GateDecision = "invalid_token"
)

// Metrics holds the service's prometheus collectors on a private registry.
type Metrics struct {
	registry          *prometheus.Registry
	requests          *prometheus.CounterVec
	duration          *prometheus.HistogramVec
	errors            *prometheus.CounterVec
	gateDecisions     *prometheus.CounterVec
	thresholdExceeded prometheus.Counter
}

// NewMetrics initializes and registers the collectors.
func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests handled.",
			},
			[]string{"method", "path", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests.",
				Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
			},
			[]string{"method", "path"},
		),
		errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "errors_total",
				Help:      "Total number of error responses by code.",
			},
			[]string{"method", "path", "code"},
		),
		gateDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "auth",
				Name:      "gate_decisions_total",
				Help:      "Authentication gate outcomes.",
			},
			[]string{"decision"},
		),
		thresholdExceeded: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "intake",
				Name:      "threshold_exceeded_total",
				Help:      "Food entries that pushed a user's daily total over their threshold.",
			},
		),
	}
	m.registry.MustRegister(m.requests, m.duration, m.errors, m.gateDecisions, m.thresholdExceeded)
	return m
}

// RecordRequest observes a completed request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.duration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(method, path, code).Inc()
}

// RecordGateDecision counts one gate outcome.
func (m *Metrics) RecordGateDecision(decision GateDecision) {
	if m == nil {
		return
	}
	m.gateDecisions.WithLabelValues(string(decision)).Inc()
}

// RecordThresholdExceeded counts one threshold breach.
func (m *Metrics) RecordThresholdExceeded() {
	if m == nil {
		return
	}
	m.thresholdExceeded.Inc()
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns an HTTP handler exposing the registered collectors.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
