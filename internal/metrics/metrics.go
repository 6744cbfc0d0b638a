// Package metrics exposes Prometheus instrumentation for the fare calc service.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "farecalc"

var (
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path", "status_code"},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status_code"},
	)

	// Renderings by entry mnemonic (WP, WPA, WQ) and outcome.
	calculationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calculations_total",
			Help:      "Total number of fare calculation renderings",
		},
		[]string{"entry_type", "status"},
	)

	// Rendering is string assembly, so the buckets sit well under a second.
	calculationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "calculation_duration_seconds",
			Help:      "Fare calculation rendering duration in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
		},
	)

	// Priced options per WPA/WQ entry; the display caps out at 24.
	entryOptions = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "entry_options",
			Help:      "Priced options rendered per entry",
			Buckets:   []float64{1, 2, 4, 8, 12, 16, 24},
		},
		[]string{"entry_type"},
	)

	entryWarningsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "entry_warnings_total",
			Help:      "Warning messages attached to rendered entries",
		},
		[]string{"entry_type"},
	)

	cacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "policy_cache_operations_total",
			Help:      "Agency policy cache operations",
		},
		[]string{"operation", "result"},
	)
)

// PrometheusMiddleware records duration and count for every HTTP request.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		c.Next()

		status := strconv.Itoa(c.Writer.Status())
		httpRequestDuration.WithLabelValues(c.Request.Method, path, status).Observe(time.Since(start).Seconds())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
	}
}

// RecordFareCalculation books one rendering attempt.
func RecordFareCalculation(entryType string, duration time.Duration, status string) {
	calculationDuration.Observe(duration.Seconds())
	calculationsTotal.WithLabelValues(entryType, status).Inc()
}

// RecordEntryOutcome books the shape of a successfully rendered entry.
func RecordEntryOutcome(entryType string, options, warnings int) {
	if options > 0 {
		entryOptions.WithLabelValues(entryType).Observe(float64(options))
	}
	if warnings > 0 {
		entryWarningsTotal.WithLabelValues(entryType).Add(float64(warnings))
	}
}

// RecordCacheOperation books one agency policy cache operation.
func RecordCacheOperation(operation, result string) {
	cacheOperationsTotal.WithLabelValues(operation, result).Inc()
}
