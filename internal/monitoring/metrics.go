package monitoring

import "github.com/prometheus/client_golang/prometheus"

var (
	HttpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "method", "status"},
	)

	HttpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route", "method"},
	)

	ActiveConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "active_connections",
			Help: "Number of active connections",
		},
	)

	NotificationsFannedOut = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notifications_fanned_out_total",
			Help: "Total number of notifications produced by write operations",
		},
		[]string{"kind"},
	)

	FanoutFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "notification_fanout_failures_total",
			Help: "Fan-out steps that failed and were skipped",
		},
		[]string{"step"},
	)

	BlobStoreOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "blob_store_operations_total",
			Help: "Blob store calls by operation and outcome",
		},
		[]string{"backend", "op", "outcome"},
	)
)

func init() {
	prometheus.MustRegister(
		HttpRequestsTotal,
		HttpRequestDuration,
		ActiveConnections,
		NotificationsFannedOut,
		FanoutFailures,
		BlobStoreOperations,
	)
}
