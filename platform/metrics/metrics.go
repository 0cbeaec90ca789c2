// Package metrics exposes Prometheus collectors for the HTTP surface and
// the relay transports.
package metrics

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// Relay directions used as label values.
const (
	DirectionSMSToEmail = "sms_to_email"
	DirectionEmailToSMS = "email_to_sms"
)

// Relay outcomes used as label values.
const (
	OutcomeDelivered = "delivered"
	OutcomeRejected  = "rejected"
	OutcomeFailed    = "failed"
)

var HTTPRequestsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests received",
	},
	[]string{"endpoint", "status", "method"},
)

var HTTPRequestDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"endpoint", "method"},
)

var HTTPErrorsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_errors_total",
		Help: "Total number of failed HTTP requests (4xx/5xx)",
	},
	[]string{"endpoint", "status", "method"},
)

var RelayMessagesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "relay_messages_total",
		Help: "Total number of messages handled by the relay",
	},
	[]string{"direction", "outcome", "provider"},
)

var ProviderSendDuration = prometheus.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "relay_provider_send_duration_seconds",
		Help:    "Time taken to hand a message to an external provider",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"provider", "direction"},
)

var AddressBookEntries = prometheus.NewGauge(
	prometheus.GaugeOpts{
		Name: "relay_address_book_entries",
		Help: "Number of phone/email pairs loaded into the address book",
	},
)

var initOnce sync.Once

// InitRelayMetrics registers every collector with the default registry.
// Safe to call more than once.
func InitRelayMetrics() {
	initOnce.Do(func() {
		prometheus.MustRegister(HTTPRequestsTotal)
		prometheus.MustRegister(HTTPRequestDuration)
		prometheus.MustRegister(HTTPErrorsTotal)
		prometheus.MustRegister(RelayMessagesTotal)
		prometheus.MustRegister(ProviderSendDuration)
		prometheus.MustRegister(AddressBookEntries)
	})
}

// ObserveRelay records the outcome of a single relay attempt.
func ObserveRelay(direction, outcome, provider string) {
	RelayMessagesTotal.WithLabelValues(direction, outcome, provider).Inc()
}

// TimeProvider starts a timer for a provider call. Call the returned
// function once the call returns.
func TimeProvider(provider, direction string) func() {
	timer := prometheus.NewTimer(ProviderSendDuration.WithLabelValues(provider, direction))
	return func() { timer.ObserveDuration() }
}

// GinMiddleware records request counts, durations, and error counts.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		method := c.Request.Method
		statusCode := c.Writer.Status()
		status := strconv.Itoa(statusCode)

		HTTPRequestsTotal.WithLabelValues(endpoint, status, method).Inc()
		HTTPRequestDuration.WithLabelValues(endpoint, method).Observe(duration)
		if statusCode >= 400 && statusCode < 600 {
			HTTPErrorsTotal.WithLabelValues(endpoint, status, method).Inc()
		}
	}
}
