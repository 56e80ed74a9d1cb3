package observability

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// WriteMetricsFile dumps every metric family in g to path in the Prometheus
// text exposition format, suitable for the node_exporter textfile collector.
// The file is replaced atomically.
func WriteMetricsFile(g prometheus.Gatherer, path string) error {
	err := prometheus.WriteToTextfile(path, g)
	if err != nil {
		return fmt.Errorf("write metrics file %s: %w", path, err)
	}

	return nil
}
