// Package metrics provides Prometheus metrics collection.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector implements the MetricsCollector port using Prometheus.
type Collector struct {
	generations         *prometheus.CounterVec
	generationDuration  prometheus.Histogram
	elevationBatches    *prometheus.CounterVec
	elevationDuration   prometheus.Histogram
	exportFallbacks     prometheus.Counter
	uploads             *prometheus.CounterVec
	uploadDuration      prometheus.Histogram
	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewCollector creates a new Prometheus metrics collector.
func NewCollector(namespace string) *Collector {
	if namespace == "" {
		namespace = "altus"
	}

	return &Collector{
		generations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "generations_total",
				Help:      "Total number of contour generation runs",
			},
			[]string{"status"},
		),

		generationDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "generation_duration_seconds",
				Help:      "End-to-end pipeline duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),

		elevationBatches: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "elevation_batches_total",
				Help:      "Total number of elevation provider batches",
			},
			[]string{"status"},
		),

		elevationDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "elevation_batch_duration_seconds",
				Help:      "Elevation batch duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),

		exportFallbacks: promauto.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "export_fallbacks_total",
				Help:      "Total number of runs exported through the fallback path",
			},
		),

		uploads: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "uploads_total",
				Help:      "Total number of storage uploads",
			},
			[]string{"status"},
		),

		uploadDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "upload_duration_seconds",
				Help:      "Storage upload duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),

		httpRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),

		httpRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
	}
}

// IncGenerations increments the contour generation counter.
func (c *Collector) IncGenerations(success bool) {
	c.generations.WithLabelValues(statusLabel(success)).Inc()
}

// ObserveGenerationDuration records end-to-end pipeline duration.
func (c *Collector) ObserveGenerationDuration(duration time.Duration) {
	c.generationDuration.Observe(duration.Seconds())
}

// IncElevationBatches increments the elevation batch counter.
func (c *Collector) IncElevationBatches(success bool) {
	c.elevationBatches.WithLabelValues(statusLabel(success)).Inc()
}

// ObserveElevationDuration records one elevation batch duration.
func (c *Collector) ObserveElevationDuration(duration time.Duration) {
	c.elevationDuration.Observe(duration.Seconds())
}

// IncExportFallbacks increments the fallback export counter.
func (c *Collector) IncExportFallbacks() {
	c.exportFallbacks.Inc()
}

// IncUploads increments the storage upload counter.
func (c *Collector) IncUploads(success bool) {
	c.uploads.WithLabelValues(statusLabel(success)).Inc()
}

// ObserveUploadDuration records storage upload duration.
func (c *Collector) ObserveUploadDuration(duration time.Duration) {
	c.uploadDuration.Observe(duration.Seconds())
}

// IncHTTPRequests increments the HTTP request counter.
func (c *Collector) IncHTTPRequests(method, path, status string) {
	c.httpRequestsTotal.WithLabelValues(method, path, status).Inc()
}

// ObserveHTTPDuration records HTTP request duration.
func (c *Collector) ObserveHTTPDuration(method, path string, duration time.Duration) {
	c.httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns HTTP middleware for metrics collection.
func (c *Collector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status code
		wrapped := &statusResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		duration := time.Since(start)
		path := normalizePath(r.URL.Path)
		status := statusToString(wrapped.statusCode)

		c.IncHTTPRequests(r.Method, path, status)
		c.ObserveHTTPDuration(r.Method, path, duration)
	})
}

type statusResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *statusResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

func statusLabel(success bool) string {
	if success {
		return "success"
	}
	return "error"
}

// normalizePath normalizes the URL path for metrics.
func normalizePath(path string) string {
	// Replace dynamic segments with placeholders
	// This prevents high cardinality metrics
	switch {
	case len(path) > 20:
		return path[:20] + "..."
	default:
		return path
	}
}

// statusToString converts HTTP status code to string category.
func statusToString(code int) string {
	switch {
	case code >= 200 && code < 300:
		return "2xx"
	case code >= 300 && code < 400:
		return "3xx"
	case code >= 400 && code < 500:
		return "4xx"
	case code >= 500:
		return "5xx"
	default:
		return "unknown"
	}
}
