package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	reconstructionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_attempt_reconstructions_total",
			Help: "Total number of payment request reconstructions by result",
		},
		[]string{"result"},
	)

	attemptsBuiltTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_attempts_built_total",
			Help: "Total number of payment attempts reconstructed by payment method",
		},
		[]string{"method"},
	)

	eventsExcludedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_events_excluded_total",
			Help: "Total number of events that did not contribute to any attempt",
		},
		[]string{"reason"},
	)
)

func init() {
	prometheus.MustRegister(httpRequestsTotal)
	prometheus.MustRegister(httpRequestDuration)
	prometheus.MustRegister(reconstructionsTotal)
	prometheus.MustRegister(attemptsBuiltTotal)
	prometheus.MustRegister(eventsExcludedTotal)
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordHTTPRequest(method, endpoint, status string, seconds float64) {
	httpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
	httpRequestDuration.WithLabelValues(method, endpoint).Observe(seconds)
}

func RecordReconstruction(result string) {
	reconstructionsTotal.WithLabelValues(result).Inc()
}

func RecordAttemptBuilt(method string) {
	attemptsBuiltTotal.WithLabelValues(method).Inc()
}

func RecordEventsExcluded(reason string, n int) {
	if n <= 0 {
		return
	}
	eventsExcludedTotal.WithLabelValues(reason).Add(float64(n))
}
