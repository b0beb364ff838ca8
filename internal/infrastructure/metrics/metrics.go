package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Gateway metrics
	GatewayRequests *prometheus.CounterVec
	GatewayDuration *prometheus.HistogramVec

	// Sync metrics
	ReplayAttempts *prometheus.CounterVec
	PendingBackups *prometheus.GaugeVec
	FallbackReads  *prometheus.CounterVec
	OfflineQueued  *prometheus.CounterVec

	// Local API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics on the default registerer.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates and registers all Prometheus metrics on the given registerer.
// Tests pass a fresh registry to avoid duplicate registration.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		GatewayRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "finsync_gateway_requests_total",
			Help: "Total number of requests to the remote backend",
		}, []string{"method", "status"}),
		GatewayDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "finsync_gateway_request_duration_seconds",
			Help:    "Duration of requests to the remote backend",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),

		ReplayAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "finsync_replay_attempts_total",
			Help: "Total number of pending-change replay attempts",
		}, []string{"kind", "outcome"}),
		PendingBackups: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "finsync_pending_backups",
			Help: "Number of pending backup records per entity kind",
		}, []string{"kind"}),
		FallbackReads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "finsync_fallback_reads_total",
			Help: "Total number of reads served from the local merge after a fetch failure",
		}, []string{"kind"}),
		OfflineQueued: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "finsync_offline_queued_total",
			Help: "Total number of mutations queued offline",
		}, []string{"kind", "action"}),

		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "finsync_http_requests_total",
			Help: "Total number of local API requests",
		}, []string{"method", "path", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "finsync_http_request_duration_seconds",
			Help:    "Duration of local API requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path"}),
	}
}
