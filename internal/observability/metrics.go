package observability

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics exposes Prometheus collectors on a private registry.
type Metrics struct {
	registry         *prometheus.Registry
	requests         *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	errors           *prometheus.CounterVec
	ticketsCreated   prometheus.Counter
	transitions      *prometheus.CounterVec
	sequenceFailures *prometheus.CounterVec
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests processed",
			},
			[]string{"method", "route", "status"},
		),
		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latencies in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_errors_total",
				Help: "Failed HTTP requests by error code",
			},
			[]string{"method", "route", "code"},
		),
		ticketsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "tickets_created_total",
			Help: "Tickets created",
		}),
		transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ticket_transitions_total",
				Help: "Persisted lifecycle transitions by trigger and resulting status",
			},
			[]string{"trigger", "status"},
		),
		sequenceFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sequence_failures_total",
				Help: "Failed sequence increments by counter name",
			},
			[]string{"counter"},
		),
	}
}

// RecordRequest increments counters for requests.
func (m *Metrics) RecordRequest(route, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labels := prometheus.Labels{"method": method, "route": route, "status": strconv.Itoa(status)}
	m.requests.With(labels).Inc()
	m.requestDuration.With(labels).Observe(duration.Seconds())
}

// RecordError increments error counters.
func (m *Metrics) RecordError(route, method, code string) {
	if m == nil {
		return
	}
	m.errors.WithLabelValues(method, route, code).Inc()
}

// RecordTicketCreated counts a persisted ticket.
func (m *Metrics) RecordTicketCreated() {
	if m == nil {
		return
	}
	m.ticketsCreated.Inc()
}

// RecordTransition counts a persisted lifecycle transition.
func (m *Metrics) RecordTransition(trigger, status string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(trigger, status).Inc()
}

// RecordSequenceFailure counts a failed counter increment.
func (m *Metrics) RecordSequenceFailure(counter string) {
	if m == nil {
		return
	}
	m.sequenceFailures.WithLabelValues(counter).Inc()
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}
