package extsort

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	PassesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "extsort_passes_total",
			Help: "Total number of chunks moved from the source to the target dataset.",
		},
	)

	Duration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "extsort_duration_seconds",
			Help:    "Duration of sorting a whole dataset in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 20),
		},
	)
)

// RegisterMetrics registers all metrics collectors with the given prometheus registerer.
func RegisterMetrics(registerer prometheus.Registerer) error {
	metrics := []prometheus.Collector{
		PassesTotal,
		Duration,
	}
	for _, metric := range metrics {
		if err := registerer.Register(metric); err != nil {
			return err
		}
	}
	return nil
}
