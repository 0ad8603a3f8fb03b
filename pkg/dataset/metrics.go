package dataset

import (
	"github.com/prometheus/client_golang/prometheus"

	intdataset "github.com/backbone81/dataset/internal/dataset"
	intextsort "github.com/backbone81/dataset/internal/extsort"
)

// RegisterMetrics registers all metrics collectors with the given prometheus registerer.
func RegisterMetrics(registerer prometheus.Registerer) error {
	if err := intdataset.RegisterMetrics(registerer); err != nil {
		return err
	}
	if err := intextsort.RegisterMetrics(registerer); err != nil {
		return err
	}
	return nil
}
