package metrics

// Package metrics provides Prometheus metrics for the deposit builders.
//
// This package includes:
// - UTXO build, coin selection and broadcast metrics
// - EVM deposit and approval metrics
// - Metrics HTTP server on configurable port
//
// Usage:
//   import "github.com/vultisig/deposit/internal/metrics"
//
//   metrics.RegisterMetrics([]string{metrics.ServiceUTXO, metrics.ServiceEVM}, logger)
//
//   // Start metrics server
//   metricsServer := metrics.StartMetricsServer("88", logger)
//   defer metricsServer.Stop(context.Background())
