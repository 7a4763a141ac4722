package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// Availability related metrics
	AvailabilityQueries *prometheus.CounterVec
	AvailabilityLatency prometheus.Histogram
	DaysComputed        prometheus.Counter
	SummaryCacheHits    prometheus.Counter
	SummaryCacheMisses  prometheus.Counter

	// Booking metrics
	BookingAttempts  prometheus.Counter
	BookingConflicts prometheus.Counter
	BookingFailures  prometheus.Counter

	// Admin API client metrics
	ProviderRequests *prometheus.CounterVec
	ProviderLatency  *prometheus.HistogramVec
}

// NewMetrics creates and registers all application metrics
func NewMetrics(namespace, subsystem string) *Metrics {
	return &Metrics{
		AvailabilityQueries: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "availability_queries_total",
			Help:      "Total number of availability queries by outcome",
		}, []string{"outcome"}),
		AvailabilityLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "availability_query_duration_seconds",
			Help:      "Time spent resolving availability queries",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}),
		DaysComputed: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "availability_days_computed_total",
			Help:      "Total number of per-day slot computations performed",
		}),
		SummaryCacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "summary_cache_hits_total",
			Help:      "Total number of day-summary cache hits",
		}),
		SummaryCacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "summary_cache_misses_total",
			Help:      "Total number of day-summary cache misses",
		}),
		BookingAttempts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "booking_attempts_total",
			Help:      "Total number of booking submissions",
		}),
		BookingConflicts: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "booking_conflicts_total",
			Help:      "Total number of bookings rejected because the slot was taken",
		}),
		BookingFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "booking_failures_total",
			Help:      "Total number of bookings that failed for other reasons",
		}),
		ProviderRequests: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "provider_requests_total",
			Help:      "Total number of admin API requests by operation and status",
		}, []string{"operation", "status"}),
		ProviderLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "provider_request_duration_seconds",
			Help:      "Admin API request latency by operation",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"operation"}),
	}
}
