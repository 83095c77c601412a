package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	TaskProcessed  *prometheus.CounterVec
	ParseFailures  *prometheus.CounterVec
	ResolveSeconds *prometheus.HistogramVec
	ActiveWorkers  prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		TaskProcessed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "meridian_tasks_processed_total",
			Help: "Total number of processed normalization tasks.",
		}, []string{"status"}),
		ParseFailures: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "meridian_parse_failures_total",
			Help: "Total number of raw inputs the coordinate grammars could not parse.",
		}, []string{"format"}),
		ResolveSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "meridian_resolve_duration_seconds",
			Help:    "Duration of raw text resolution, including fallback lookups.",
			Buckets: prometheus.DefBuckets,
		}, []string{"resolver"}),
		ActiveWorkers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "meridian_active_workers",
			Help: "Current number of active workers processing tasks.",
		}),
	}
}
