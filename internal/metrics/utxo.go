package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	utxoBuildsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "deposit",
			Subsystem: "utxo",
			Name:      "builds_total",
			Help:      "Total number of unsigned UTXO transactions built",
		},
		[]string{"chain", "status"}, // success, error
	)

	utxoSelectedInputs = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "deposit",
			Subsystem: "utxo",
			Name:      "selected_inputs",
			Help:      "Number of inputs picked by coin selection",
			Buckets:   []float64{1, 2, 3, 5, 10, 20, 50, 100},
		},
		[]string{"chain"},
	)

	utxoBroadcastsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "deposit",
			Subsystem: "utxo",
			Name:      "broadcasts_total",
			Help:      "Total number of signed UTXO transactions pushed",
		},
		[]string{"chain", "status"},
	)
)

// UTXOMetrics records UTXO builder activity.
type UTXOMetrics struct{}

func NewUTXOMetrics() *UTXOMetrics {
	return &UTXOMetrics{}
}

// RecordBuild records one build attempt; inputs is ignored for failed builds.
func (m *UTXOMetrics) RecordBuild(chain string, inputs int, err error) {
	utxoBuildsTotal.WithLabelValues(chain, status(err)).Inc()
	if err == nil {
		utxoSelectedInputs.WithLabelValues(chain).Observe(float64(inputs))
	}
}

func (m *UTXOMetrics) RecordBroadcast(chain string, err error) {
	utxoBroadcastsTotal.WithLabelValues(chain, status(err)).Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
