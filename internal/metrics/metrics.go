// Package metrics provides Prometheus metrics for observability.
// Metrics are organized by domain: HTTP requests, lifecycle transitions,
// engagement, and the purge sweep.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "inkwell"
)

var (
	// HTTP metrics - track request volume and latency
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, path, and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_in_flight",
			Help:      "Number of HTTP requests currently being processed",
		},
	)

	// Lifecycle metrics - track status transitions and their outcome
	TransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lifecycle",
			Name:      "transitions_total",
			Help:      "Total number of article status transitions by operation and result",
		},
		[]string{"operation", "result"},
	)

	RendersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "lifecycle",
			Name:      "renders_total",
			Help:      "Total number of markdown renders by trigger (publish, lazy)",
		},
		[]string{"trigger"},
	)

	// Engagement metrics - views and likes
	ViewsCounted = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engagement",
			Name:      "views_counted_total",
			Help:      "Total number of views that passed deduplication",
		},
	)

	ViewsDeduplicated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engagement",
			Name:      "views_deduplicated_total",
			Help:      "Total number of views suppressed by the dedup window",
		},
	)

	LikeOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "engagement",
			Name:      "like_ops_total",
			Help:      "Total number of like/unlike operations by op and result",
		},
		[]string{"op", "result"},
	)

	// Purge sweep metrics
	PurgedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "purge",
			Name:      "purged_total",
			Help:      "Total number of entities hard-deleted by the sweep, by kind",
		},
		[]string{"kind"},
	)
)

// ObserveTransition records a lifecycle transition attempt.
func ObserveTransition(operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	TransitionsTotal.WithLabelValues(operation, result).Inc()
}
