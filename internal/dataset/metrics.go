package dataset

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	BlocksFlushedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dataset_blocks_flushed_total",
			Help: "Total number of blocks written to dataset files.",
		},
	)

	BlockFlushDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dataset_block_flush_duration_seconds",
			Help:    "Duration of serializing, compressing and writing a block in seconds.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16),
		},
	)

	BlockLoadsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dataset_block_loads_total",
			Help: "Total number of blocks read from disk and decoded.",
		},
	)

	BlockCacheHitsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dataset_block_cache_hits_total",
			Help: "Total number of block accesses served from the reader block cache.",
		},
	)

	ChecksumFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dataset_checksum_failures_total",
			Help: "Total number of blocks which failed checksum verification.",
		},
	)

	RecordsAppendedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dataset_records_appended_total",
			Help: "Total number of records appended to dataset writers.",
		},
	)
)

// RegisterMetrics registers all metrics collectors with the given prometheus registerer.
func RegisterMetrics(registerer prometheus.Registerer) error {
	metrics := []prometheus.Collector{
		BlocksFlushedTotal,
		BlockFlushDuration,
		BlockLoadsTotal,
		BlockCacheHitsTotal,
		ChecksumFailuresTotal,
		RecordsAppendedTotal,
	}
	for _, metric := range metrics {
		if err := registerer.Register(metric); err != nil {
			return err
		}
	}
	return nil
}
