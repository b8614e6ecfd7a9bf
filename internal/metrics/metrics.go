package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Outbound calls to the marketplace API.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ethaum_api_requests_total",
			Help: "Total number of marketplace API requests (by endpoint, method and status).",
		},
		[]string{"endpoint", "method", "status"}, // status = HTTP code | "transport"
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "ethaum_api_request_duration_seconds",
			Help:    "Duration of marketplace API requests in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12), // 5ms → ~10s
		},
		[]string{"endpoint", "method"},
	)

	// Settled page loads by final view state.
	PageLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ethaum_page_loads_total",
			Help: "Page loads by page and settled view state.",
		},
		[]string{"page", "state"},
	)

	UpvotesApplied = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ethaum_upvotes_applied_total",
			Help: "Server-confirmed upvote deltas applied to a leaderboard view.",
		},
	)

	LiveConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ethaum_live_connections",
			Help: "Open live leaderboard connections.",
		},
	)
)

// ObserveAPI records one backend call. status is 0 for transport failures.
func ObserveAPI(endpoint, method string, status int, elapsed time.Duration) {
	code := "transport"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	APIRequestsTotal.WithLabelValues(endpoint, method, code).Inc()
	APIRequestDuration.WithLabelValues(endpoint, method).Observe(elapsed.Seconds())
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
