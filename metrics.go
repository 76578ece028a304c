package castwave

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metricsCollector publishes request lifecycle metrics. Optional; a nil
// collector is a no-op throughout the executor.
type metricsCollector struct {
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	retriesTotal    *prometheus.CounterVec
}

func newMetricsCollector(reg prometheus.Registerer) *metricsCollector {
	return &metricsCollector{
		requestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "castwave_requests_total",
				Help: "Completed API calls by method, path and status",
			},
			[]string{"method", "path", "status"},
		),
		requestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "castwave_request_duration_seconds",
				Help:    "Wall time of API calls, retries included",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		retriesTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "castwave_retries_total",
				Help: "Network retries by method and path",
			},
			[]string{"method", "path"},
		),
	}
}

func (m *metricsCollector) observeRequest(method, path string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, path).Observe(d.Seconds())
}

func (m *metricsCollector) observeRetry(method, path string) {
	if m == nil {
		return
	}
	m.retriesTotal.WithLabelValues(method, path).Inc()
}
