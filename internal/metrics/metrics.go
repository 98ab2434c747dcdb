package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service collectors
type Metrics struct {
	registry          *prometheus.Registry
	SchedulesComputed prometheus.Counter
	ScheduleErrors    *prometheus.CounterVec
	CacheLookups      *prometheus.CounterVec
	ScheduleDuration  prometheus.Histogram
	KeyRate           prometheus.Gauge
}

// New registers the service collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		SchedulesComputed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "mortgage",
			Name:      "schedules_computed_total",
			Help:      "Repayment schedules computed by the amortization engine.",
		}),
		ScheduleErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mortgage",
			Name:      "schedule_errors_total",
			Help:      "Rejected or failed schedule computations by reason.",
		}, []string{"reason"}),
		CacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "mortgage",
			Name:      "cache_lookups_total",
			Help:      "Schedule cache lookups by result.",
		}, []string{"result"}),
		ScheduleDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "mortgage",
			Name:      "schedule_duration_seconds",
			Help:      "Time spent computing a schedule.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		KeyRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "mortgage",
			Name:      "key_rate_percent",
			Help:      "Latest central bank key rate including the bank margin.",
		}),
	}

	m.registry.MustRegister(
		m.SchedulesComputed,
		m.ScheduleErrors,
		m.CacheLookups,
		m.ScheduleDuration,
		m.KeyRate,
	)
	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
