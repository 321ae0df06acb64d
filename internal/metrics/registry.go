package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

const (
	ServiceUTXO = "utxo"
	ServiceEVM  = "evm"
)

// RegisterMetrics registers metrics for the specified services
func RegisterMetrics(services []string, logger *logrus.Logger) {
	// Always register Go and process metrics
	registerIfNotExists(collectors.NewGoCollector(), "go_collector", logger)
	registerIfNotExists(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}), "process_collector", logger)

	// Register service-specific metrics
	for _, service := range services {
		switch service {
		case ServiceUTXO:
			registerUTXOMetrics(logger)
		case ServiceEVM:
			registerEVMMetrics(logger)
		default:
			logger.Warnf("Unknown service type for metrics registration: %s", service)
		}
	}
}

// registerIfNotExists registers a collector if it's not already registered
func registerIfNotExists(collector prometheus.Collector, name string, logger *logrus.Logger) {
	if err := prometheus.Register(collector); err != nil {
		var alreadyRegErr prometheus.AlreadyRegisteredError
		if errors.As(err, &alreadyRegErr) {
			// This is expected on restart/reload - just debug log
			logger.Debugf("%s already registered", name)
		} else {
			// This is a real problem (descriptor mismatch, etc.) - fatal error
			logger.Errorf("Failed to register %s: %v", name, err)
		}
	}
}

func registerUTXOMetrics(logger *logrus.Logger) {
	registerIfNotExists(utxoBuildsTotal, "utxo_builds_total", logger)
	registerIfNotExists(utxoSelectedInputs, "utxo_selected_inputs", logger)
	registerIfNotExists(utxoBroadcastsTotal, "utxo_broadcasts_total", logger)
}

func registerEVMMetrics(logger *logrus.Logger) {
	registerIfNotExists(evmDepositsTotal, "evm_deposits_total", logger)
	registerIfNotExists(evmApprovalsTotal, "evm_approvals_total", logger)
}
