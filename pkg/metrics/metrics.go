// Package metrics holds the Prometheus instruments exposed at GET /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// HTTPRequests counts requests by method, route template and status.
var HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "telugudb_http_requests_total",
	Help: "Total HTTP requests handled.",
}, []string{"method", "route", "status"})

// HTTPDuration tracks request latency.
var HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "telugudb_http_request_duration_seconds",
	Help:    "HTTP request latency in seconds.",
	Buckets: prometheus.DefBuckets,
}, []string{"method", "route"})

// ContentWrites counts committed catalog writes by operation
// (create, update, delete).
var ContentWrites = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "telugudb_content_writes_total",
	Help: "Committed content writes by operation.",
}, []string{"op"})

// AdminAuthFailures counts rejected admin keys.
var AdminAuthFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "telugudb_admin_auth_failures_total",
	Help: "Requests rejected by the admin key gate.",
})

// FeedClients is the number of connected change-feed clients.
var FeedClients = promauto.NewGaugeVec(prometheus.GaugeOpts{
	Name: "telugudb_feed_clients",
	Help: "Connected change feed clients by transport.",
}, []string{"transport"})

// Middleware records request count and latency. Unmatched routes are
// grouped under "unmatched" to keep label cardinality bounded.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		HTTPDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the Prometheus exposition format.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
