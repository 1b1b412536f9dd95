package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HttpRequestsTotal counts HTTP requests per route and status.
	HttpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platter_http_requests_total",
			Help: "Number of HTTP requests served",
		},
		[]string{"route", "method", "status"},
	)

	// HttpRequestDuration observes handler latency per route.
	HttpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "platter_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	// WizardTransitions counts signup wizard moves by action and outcome.
	WizardTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platter_wizard_transitions_total",
			Help: "Signup wizard step transitions",
		},
		[]string{"action", "outcome"}, // action: advance, retreat, jump; outcome: ok, invalid, noop
	)

	// WizardSubmissions counts registration submissions by outcome.
	WizardSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platter_wizard_submissions_total",
			Help: "Restaurant registration submissions",
		},
		[]string{"outcome"}, // success, invalid, rejected, in_flight
	)

	// ActiveMounts tracks wizard mounts held in memory.
	ActiveMounts = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "platter_wizard_active_mounts",
			Help: "Signup wizard mounts currently held",
		},
	)

	// BackendRequestDuration observes calls to the remote REST backend.
	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "platter_backend_request_duration_seconds",
			Help:    "Remote backend call latency",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"module", "operation", "status"},
	)

	// StoreErrors counts persistence failures by operation.
	StoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "platter_store_errors_total",
			Help: "Draft and console-state store failures",
		},
		[]string{"operation"}, // get, set, delete
	)
)

// GinMiddleware records request count and latency using the matched route template.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		HttpRequestsTotal.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		HttpRequestDuration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}
