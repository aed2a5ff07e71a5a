// Package metrics provides Prometheus instrumentation for report ingestion.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upload outcomes.
const (
	OutcomeSuccess      = "success"
	OutcomeParseError   = "parse_error"
	OutcomePersistError = "persist_error"
)

var (
	// ReportUploadsTotal counts report uploads by broker and outcome.
	ReportUploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "report_importer_uploads_total",
		Help: "Total number of report uploads",
	}, []string{"broker", "outcome"})

	// RecordsPersistedTotal counts rows inserted or refreshed by broker and record kind.
	RecordsPersistedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "report_importer_records_persisted_total",
		Help: "Canonical records inserted or updated",
	}, []string{"broker", "kind"})

	// UnrecognizedValuesTotal counts broker vocabulary that had no canonical mapping.
	UnrecognizedValuesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "report_importer_unrecognized_values_total",
		Help: "Fiscal transaction types imported as unrecognized",
	}, []string{"broker"})

	// ParseDuration tracks how long decoding a report takes.
	ParseDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "report_importer_parse_duration_seconds",
		Help:    "Report decode duration in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"broker"})

	// HTTPRequestsTotal counts HTTP requests by method, route, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "report_importer_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "report_importer_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 5.0},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		// The route pattern keeps portfolio ids out of the label values.
		path := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				path = pattern
			}
		}
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
