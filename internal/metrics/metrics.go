// Package metrics provides Prometheus instrumentation for the crowsnest service.
package metrics

import (
	"runtime"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crowsnest",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, path pattern, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and path.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "crowsnest",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// VerdictsPersisted counts verdicts written to the audit store by result.
	VerdictsPersisted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crowsnest",
			Name:      "verdicts_persisted_total",
			Help:      "Verdict audit-store writes by result.",
		},
		[]string{"result"},
	)

	// WatchlistReloads counts hot reloads of the hostile-entity watchlist.
	WatchlistReloads = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "crowsnest",
			Name:      "watchlist_reloads_total",
			Help:      "Watchlist file reloads by result.",
		},
		[]string{"result"},
	)

	// ActiveWebSocketClients tracks connected verdict-feed clients.
	ActiveWebSocketClients = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "crowsnest",
			Name:      "active_websocket_clients",
			Help:      "Number of connected verdict-feed WebSocket clients.",
		},
	)

	// Goroutines tracks the current goroutine count.
	Goroutines = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "crowsnest",
			Name:      "goroutines",
			Help:      "Current number of goroutines.",
		},
		func() float64 { return float64(runtime.NumGoroutine()) },
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		VerdictsPersisted,
		WatchlistReloads,
		ActiveWebSocketClients,
		Goroutines,
	)
}

// Middleware records request count and latency for every route.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		// FullPath is the route pattern (e.g. /api/v1/verdicts/:id), which
		// keeps label cardinality bounded. Unmatched routes report as "".
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		status := strconv.Itoa(c.Writer.Status())
		HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler returns the /metrics endpoint handler.
func Handler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
