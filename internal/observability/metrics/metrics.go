package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricPrefix = "schedule_"

var (
	registerOnce sync.Once

	validationFailures *prometheus.CounterVec
	httpRequests       *prometheus.CounterVec
	httpLatency        *prometheus.HistogramVec
	assignmentsPurged  prometheus.Counter
)

// Init registers the collectors with the default registry. Safe to call twice.
func Init() {
	registerOnce.Do(func() {
		validationFailures = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "validation_failures_total",
				Help: "Rejected field writes by entity and field",
			},
			[]string{"entity", "field"},
		)
		httpRequests = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "http_requests_total",
				Help: "HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		)
		httpLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		)
		assignmentsPurged = prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: metricPrefix + "assignments_purged_total",
				Help: "Assignments removed by the retention job",
			},
		)
		prometheus.MustRegister(validationFailures, httpRequests, httpLatency, assignmentsPurged)
	})
}

func IncValidationFailure(entity, field string) {
	if validationFailures == nil {
		return
	}
	validationFailures.WithLabelValues(entity, field).Inc()
}

func AddAssignmentsPurged(n int64) {
	if assignmentsPurged == nil || n <= 0 {
		return
	}
	assignmentsPurged.Add(float64(n))
}

// Middleware records every request against its route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		if httpRequests == nil {
			return
		}
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		httpLatency.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}

// Handler serves the default registry.
func Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
