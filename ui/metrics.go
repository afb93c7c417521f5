package ui

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// apiMetrics holds the Prometheus collectors of the API
type apiMetrics struct {
	requests  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	analyses  *prometheus.CounterVec
	tableRows prometheus.Histogram
}

func newAPIMetrics(reg prometheus.Registerer) *apiMetrics {
	m := &apiMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "findash",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "findash",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "findash",
			Name:      "analyses_total",
			Help:      "Analyses by outcome (ok, rejected, insufficient, error).",
		}, []string{"operation", "outcome"}),
		tableRows: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "findash",
			Name:      "table_rows",
			Help:      "Rows per submitted table.",
			Buckets:   prometheus.ExponentialBuckets(10, 4, 8),
		}),
	}
	reg.MustRegister(m.requests, m.duration, m.analyses, m.tableRows)
	return m
}

// instrument records count and latency per matched route
func (m *apiMetrics) instrument() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

func (m *apiMetrics) outcome(operation, outcome string) {
	m.analyses.WithLabelValues(operation, outcome).Inc()
}
