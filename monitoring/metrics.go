package monitoring

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_client_requests_total",
			Help: "Total outbound API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ticket_client_request_duration_seconds",
			Help:    "Duration of outbound API requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	authorizationLost = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticket_client_authorization_lost_total",
			Help: "Total 401/403 responses that forced a session teardown",
		},
	)
)

// ObserveRequest records one completed request. Transport failures carry
// status 0.
func ObserveRequest(method, endpoint string, status int, duration time.Duration) {
	requestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	requestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// ObserveAuthorizationLost records one forced session teardown.
func ObserveAuthorizationLost() {
	authorizationLost.Inc()
}
