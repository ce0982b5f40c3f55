package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// KVRequestsTotal counts KV service RPCs by method and outcome.
	KVRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burrow_kv_requests_total",
			Help: "Total number of KV service requests by method and status",
		},
		[]string{"method", "status"},
	)

	KVRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "burrow_kv_request_duration_seconds",
			Help:    "KV service request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method"},
	)

	PubSubMessagesPublished = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burrow_pubsub_messages_published_total",
			Help: "Total number of pub/sub messages published by topic",
		},
		[]string{"topic"},
	)

	PubSubMessagesDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "burrow_pubsub_messages_dropped_total",
			Help: "Total number of pub/sub messages dropped due to a full subscriber sink",
		},
		[]string{"topic"},
	)

	PubSubSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "burrow_pubsub_subscribers",
			Help: "Current number of live pub/sub subscribers across all topics",
		},
	)

	AuthRejectedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "burrow_auth_rejected_total",
			Help: "Total number of requests rejected by the auth interceptor",
		},
	)

	TreeCount = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "burrow_tree_count",
			Help: "Number of trees currently open in the store",
		},
	)
)

func init() {
	prometheus.MustRegister(KVRequestsTotal)
	prometheus.MustRegister(KVRequestDuration)
	prometheus.MustRegister(PubSubMessagesPublished)
	prometheus.MustRegister(PubSubMessagesDropped)
	prometheus.MustRegister(PubSubSubscribers)
	prometheus.MustRegister(AuthRejectedTotal)
	prometheus.MustRegister(TreeCount)
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Timer is a helper for timing operations.
type Timer struct {
	start time.Time
}

// NewTimer creates a new timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// ObserveDuration records the duration to a histogram.
func (t *Timer) ObserveDuration(histogram prometheus.Histogram) {
	histogram.Observe(time.Since(t.start).Seconds())
}

// ObserveDurationVec records the duration to a histogram vec with labels.
func (t *Timer) ObserveDurationVec(histogram prometheus.ObserverVec, labels ...string) {
	histogram.WithLabelValues(labels...).Observe(time.Since(t.start).Seconds())
}

// Duration returns the elapsed time since the timer started.
func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}
