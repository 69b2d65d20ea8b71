package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the scheduling service metrics.
type Metrics struct {
	// Lifecycle engine
	Transitions        *prometheus.CounterVec
	TransitionLatency  *prometheus.HistogramVec
	ReservationBlocked prometheus.Counter

	// Audit log
	AuditWriteFailures prometheus.Counter

	// Notifications
	NotificationsSent    *prometheus.CounterVec
	NotificationsDropped prometheus.Counter
	NotificationQueue    prometheus.Gauge

	// HTTP
	HTTPRequests *prometheus.CounterVec
	HTTPLatency  *prometheus.HistogramVec
}

var (
	defaultOnce    sync.Once
	defaultMetrics *Metrics
)

// Default returns the process-wide metrics registered under the "caresched" namespace.
// promauto panics on duplicate registration, so every component shares one instance.
func Default() *Metrics {
	defaultOnce.Do(func() {
		defaultMetrics = NewMetrics(promauto.With(prometheus.DefaultRegisterer), "caresched")
	})
	return defaultMetrics
}

// NewMetrics creates and registers all metrics through factory.
func NewMetrics(factory promauto.Factory, namespace string) *Metrics {
	return &Metrics{
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "appointment",
			Name:      "transitions_total",
			Help:      "Total number of appointment transition attempts",
		}, []string{"action", "outcome"}),
		TransitionLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "appointment",
			Name:      "transition_duration_seconds",
			Help:      "Duration of appointment transitions including commit",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
		}, []string{"action"}),
		ReservationBlocked: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "appointment",
			Name:      "reservation_conflicts_total",
			Help:      "Reservations rejected because the caregiver was already reserved",
		}),
		AuditWriteFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "write_failures_total",
			Help:      "Audit entries that could not be persisted",
		}),
		NotificationsSent: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notification",
			Name:      "messages_total",
			Help:      "Notification messages by event and outcome",
		}, []string{"event", "outcome"}),
		NotificationsDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notification",
			Name:      "dropped_total",
			Help:      "Notifications dropped because the queue was full",
		}),
		NotificationQueue: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "notification",
			Name:      "queue_size",
			Help:      "Current number of queued notification events",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route and status code",
		}, []string{"route", "method", "status"}),
		HTTPLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

// NewTestMetrics registers metrics on a private registry.
func NewTestMetrics() *Metrics {
	return NewMetrics(promauto.With(prometheus.NewRegistry()), "test")
}
