package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	evmDepositsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "deposit",
			Subsystem: "evm",
			Name:      "deposits_total",
			Help:      "Total number of EVM deposits by path",
		},
		[]string{"chain", "kind", "status"}, // kind: native, router
	)

	evmApprovalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "deposit",
			Subsystem: "evm",
			Name:      "approvals_total",
			Help:      "Total number of ERC-20 approvals submitted",
		},
		[]string{"chain", "status"},
	)
)

// EVMMetrics records deposit orchestrator activity.
type EVMMetrics struct{}

func NewEVMMetrics() *EVMMetrics {
	return &EVMMetrics{}
}

func (m *EVMMetrics) RecordDeposit(chain, kind string, err error) {
	evmDepositsTotal.WithLabelValues(chain, kind, status(err)).Inc()
}

func (m *EVMMetrics) RecordApproval(chain string, err error) {
	evmApprovalsTotal.WithLabelValues(chain, status(err)).Inc()
}
