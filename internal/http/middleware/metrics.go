// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file exposes Prometheus instrumentation for HTTP traffic. Series are
// keyed by the registered route (c.FullPath()), so /api/tokens/:nickname is
// one series no matter how many nicknames exist.
package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

const unmatchedRoute = "unmatched"

var (
	httpReqs = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "HTTP requests by method, route and status.",
	}, []string{"method", "path", "status"})

	httpLat = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name: "http_request_duration_seconds",
		Help: "HTTP request latency in seconds.",
		// analyze makes two sequential model calls
		Buckets: []float64{0.005, 0.025, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 40},
	}, []string{"method", "path"})

	httpInflight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "http_requests_inflight",
		Help: "HTTP requests currently being served.",
	})

	// Analysis bodies are a few KiB; history windows reach a few hundred.
	httpRespSize = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_response_size_bytes",
		Help:    "HTTP response body size in bytes.",
		Buckets: prometheus.ExponentialBuckets(256, 2, 12), // 256B .. 512KiB
	}, []string{"method", "path"})

	// Requests turned away before reaching a handler, by reason
	// ("rate_limited") or served from storage ("replay").
	httpShortCircuit = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_short_circuit_total",
		Help: "Requests rate limited or answered by idempotent replay.",
	}, []string{"path", "reason"})
)

func init() {
	prometheus.MustRegister(httpReqs, httpLat, httpInflight, httpRespSize, httpShortCircuit)
}

// Metrics records request count, latency, in-flight requests, response size,
// and rate-limit and replay outcomes.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		httpInflight.Inc()
		defer httpInflight.Dec()

		c.Next()

		observe(c, time.Since(start))
	}
}

func observe(c *gin.Context, elapsed time.Duration) {
	path := c.FullPath()
	if path == "" {
		path = unmatchedRoute
	}
	method := c.Request.Method
	status := c.Writer.Status()

	httpReqs.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpLat.WithLabelValues(method, path).Observe(elapsed.Seconds())
	if size := c.Writer.Size(); size >= 0 {
		httpRespSize.WithLabelValues(method, path).Observe(float64(size))
	}

	switch {
	case status == http.StatusTooManyRequests:
		httpShortCircuit.WithLabelValues(path, "rate_limited").Inc()
	case IsReplay(c):
		httpShortCircuit.WithLabelValues(path, "replay").Inc()
	}
}
