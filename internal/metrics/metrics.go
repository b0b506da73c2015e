package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Cache lookups by resource and answering tier.
	cacheLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restaurants_cache_lookups_total",
			Help: "Total number of cache lookups by resource and answering source",
		},
		[]string{"resource", "source"},
	)

	// Failed cache writes by tier.
	cacheWriteFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restaurants_cache_write_failures_total",
			Help: "Total number of failed cache writes",
		},
		[]string{"resource", "tier"},
	)

	// Upstream Places API calls.
	upstreamRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restaurants_upstream_requests_total",
			Help: "Total number of Places API requests",
		},
		[]string{"operation", "outcome"},
	)

	upstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "restaurants_upstream_request_duration_seconds",
			Help:    "Places API request latency in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"operation"},
	)

	// Rows removed by the expiry sweeper.
	cleanupDeletedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restaurants_cleanup_deleted_rows_total",
			Help: "Total number of expired rows removed by the sweeper",
		},
		[]string{"table"},
	)

	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "restaurants_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "restaurants_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)
)

// CacheLookup records which source answered a lookup for resource.
func CacheLookup(resource, source string) {
	cacheLookupsTotal.WithLabelValues(resource, source).Inc()
}

// CacheWriteFailure records a failed write to a cache tier.
func CacheWriteFailure(resource, tier string) {
	cacheWriteFailuresTotal.WithLabelValues(resource, tier).Inc()
}

// UpstreamRequest records an upstream call and its latency.
func UpstreamRequest(operation, outcome string, elapsed time.Duration) {
	upstreamRequestsTotal.WithLabelValues(operation, outcome).Inc()
	upstreamRequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// CleanupDeleted records rows removed from table by the sweeper.
func CleanupDeleted(table string, n int64) {
	cleanupDeletedTotal.WithLabelValues(table).Add(float64(n))
}

// GinMiddleware collects request counts and latency per matched route.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		if path == "" {
			path = "unmatched"
		}
		status := strconv.Itoa(c.Writer.Status())
		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
