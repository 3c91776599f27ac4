package metrics

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// EventsReceived counts every provider event entering the pipeline,
	// before any outcome is known.
	EventsReceived = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "regpay_payment_events_received_total",
			Help: "Payment events received, by provider and source (webhook/verify)",
		},
		[]string{"provider", "source"},
	)

	// EventOutcomes counts what the reconciliation core did with each
	// event: applied, duplicate, orphan, corrected, pending.
	EventOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "regpay_payment_event_outcomes_total",
			Help: "Reconciliation outcomes, by provider and outcome",
		},
		[]string{"provider", "outcome"},
	)

	NotificationsSent = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "regpay_notifications_total",
			Help: "Notification attempts, by kind and result",
		},
		[]string{"kind", "result"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "regpay_http_request_duration_seconds",
			Help:    "HTTP request latency by path, method and status",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)
)

func init() {
	prometheus.MustRegister(EventsReceived, EventOutcomes, NotificationsSent, httpRequestDuration)
}

func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequestDuration.
			WithLabelValues(path, c.Request.Method, strconv.Itoa(c.Writer.Status())).
			Observe(time.Since(start).Seconds())
	}
}
