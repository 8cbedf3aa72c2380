// Package metrics declares the Prometheus collectors exported at /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

var (
	// HTTPRequests counts handled requests.
	// Labels:
	//   - route: chi route pattern, e.g. "/api/generate-guidance"
	//   - method: HTTP method
	//   - status: response status code
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "career_guide_http_requests_total",
			Help: "Total number of HTTP requests handled",
		},
		[]string{"route", "method", "status"},
	)

	// HTTPDuration measures request latency by route.
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "career_guide_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"route", "method"},
	)

	// GenerationDuration measures how long producing guidance takes.
	// Labels:
	//   - backend: "local", "remote" or "enhanced"
	//   - outcome: "success" or "error"
	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "career_guide_generation_duration_seconds",
			Help: "Duration of guidance generation in seconds",
			// Local generation is sub-millisecond; LLM calls take seconds
			Buckets: []float64{0.0001, 0.001, 0.01, 0.1, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"backend", "outcome"},
	)

	// CacheLookups counts enhancement cache lookups.
	// Labels:
	//   - result: "hit", "miss" or "error"
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "career_guide_cache_lookups_total",
			Help: "Total number of enhancement cache lookups",
		},
		[]string{"result"},
	)

	// BreakerState reports the remote generator circuit breaker state
	// (0 = closed, 1 = half-open, 2 = open).
	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "career_guide_remote_breaker_state",
			Help: "Circuit breaker state of the remote generator",
		},
		[]string{"name"},
	)
)

// ObserveGeneration records one generation attempt.
func ObserveGeneration(backend string, start time.Time, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	GenerationDuration.WithLabelValues(backend, outcome).Observe(time.Since(start).Seconds())
}
