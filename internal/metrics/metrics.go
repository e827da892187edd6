package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "endpoint", "status"},
	)
	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Histogram of HTTP request durations.",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10},
		},
		[]string{"method", "endpoint", "status"},
	)
	importRunsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catalog_import_runs_total",
			Help: "Total number of catalog import runs by outcome.",
		},
		[]string{"outcome"},
	)
	importProductsAddedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_import_products_added_total",
			Help: "Total number of products added by catalog imports.",
		},
	)
	importProductsSkippedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catalog_import_products_skipped_total",
			Help: "Total number of feed records skipped as duplicate names.",
		},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(importRunsTotal)
	prometheus.MustRegister(importProductsAddedTotal)
	prometheus.MustRegister(importProductsSkippedTotal)
}

// RecordRequest records metrics for one handled HTTP request.
func RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := classifyStatus(statusCode)
	httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
}

// RecordImportRun records the outcome of one catalog import run.
// Outcome is "success", "transport_error", "format_error" or "failure".
func RecordImportRun(outcome string, added int) {
	importRunsTotal.WithLabelValues(outcome).Inc()
	if added > 0 {
		importProductsAddedTotal.Add(float64(added))
	}
}

// ImportProductSkipped counts one feed record dropped by the dedup filter.
func ImportProductSkipped() {
	importProductsSkippedTotal.Inc()
}

func classifyStatus(statusCode int) string {
	switch {
	case statusCode >= 200 && statusCode < 300:
		return "2xx"
	case statusCode >= 300 && statusCode < 400:
		return "3xx"
	case statusCode >= 400 && statusCode < 500:
		return "4xx"
	case statusCode >= 500 && statusCode < 600:
		return "5xx"
	}
	return "unknown"
}

// Handler returns the HTTP handler exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
