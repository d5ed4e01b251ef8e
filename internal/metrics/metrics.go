// Package metrics exposes Prometheus counters for handover imports and the clinical rule engines.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Record outcomes
const (
	OutcomeSuccess = "success"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped"
)

// Rule-engine results
const (
	ResultOK      = "ok"
	ResultFinding = "finding"
	ResultError   = "error"
)

var (
	handoverRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "handover_records_total",
			Help: "Handover rows processed, by outcome",
		},
		[]string{"outcome"},
	)

	importDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "handover_import_duration_seconds",
			Help:    "Duration of a whole handover import batch in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
	)

	clinicalEvaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinical_evaluations_total",
			Help: "Rule engine evaluations, by engine and result",
		},
		[]string{"engine", "result"},
	)

	httpRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "status"},
	)
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordImport records one reconciled batch
func RecordImport(success, failed, skipped int, duration time.Duration) {
	handoverRecords.WithLabelValues(OutcomeSuccess).Add(float64(success))
	handoverRecords.WithLabelValues(OutcomeFailed).Add(float64(failed))
	handoverRecords.WithLabelValues(OutcomeSkipped).Add(float64(skipped))
	importDuration.Observe(duration.Seconds())
}

// RecordEvaluation records one rule-engine call
func RecordEvaluation(engine, result string) {
	clinicalEvaluations.WithLabelValues(engine, result).Inc()
}

// Middleware counts requests by method and status
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		httpRequests.WithLabelValues(r.Method, strconv.Itoa(wrapped.statusCode)).Inc()
	})
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
