package observability

import (
	"net/http"
	"strconv"
	"time"

	"household-app-go/internal/domain/access"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	AccessDecisionsTotal *prometheus.CounterVec
	IdentitySyncTotal    *prometheus.CounterVec
}

// NewMetrics creates and registers every collector on a private registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "household_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "household_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		AccessDecisionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "household_access_decisions_total",
				Help: "Row access predicate evaluations",
			},
			[]string{"kind", "verb", "outcome"},
		),
		IdentitySyncTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "household_identity_sync_total",
				Help: "Identity synchronisations by outcome",
			},
			[]string{"source", "outcome"},
		),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AccessDecisionsTotal,
		m.IdentitySyncTotal,
	)
	return m
}

// RecordDecision implements access.Recorder.
func (m *Metrics) RecordDecision(kind access.Kind, verb access.Verb, allowed bool) {
	outcome := "denied"
	if allowed {
		outcome = "allowed"
	}
	m.AccessDecisionsTotal.WithLabelValues(string(kind), string(verb), outcome).Inc()
}

func (m *Metrics) RecordIdentitySync(source string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.IdentitySyncTotal.WithLabelValues(source, outcome).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware instruments requests. Routes are labelled by their chi pattern
// so path parameters do not blow up cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(sw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		m.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(sw.status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
