package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentinel_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"method", "route"},
	)

	// Model metrics
	ModelCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_model_calls_total",
			Help: "Total number of model calls",
		},
		[]string{"model", "operation", "status"}, // status: success|error|degraded
	)

	ModelLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sentinel_model_latency_seconds",
			Help:    "Model call latency in seconds",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
		},
		[]string{"model", "operation"},
	)

	// Document pipeline metrics
	DocumentUploads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_document_uploads_total",
			Help: "Total number of document uploads",
		},
		[]string{"file_type", "status"}, // status: success|rejected|error
	)

	ExtractionErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_extraction_errors_total",
			Help: "Total number of text extraction failures",
		},
		[]string{"file_type"},
	)

	SuspiciousContent = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "sentinel_suspicious_content_total",
			Help: "Total number of injection pattern detections",
		},
	)

	// Assessment metrics
	Assessments = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sentinel_assessments_total",
			Help: "Total number of completed assessments",
		},
		[]string{"kind", "outcome"}, // document: risk level, comprehensive: decision
	)
)

// Init registers all metrics with the default registry.
// Must be called once at startup.
func Init() {
	prometheus.MustRegister(
		HTTPRequests,
		HTTPDuration,
		ModelCalls,
		ModelLatency,
		DocumentUploads,
		ExtractionErrors,
		SuspiciousContent,
		Assessments,
	)
}

// Handler returns the HTTP handler for the /metrics endpoint
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTP records one served request.
func ObserveHTTP(method, route string, status int, duration time.Duration) {
	HTTPRequests.WithLabelValues(method, route, httpStatusClass(status)).Inc()
	HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func httpStatusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
