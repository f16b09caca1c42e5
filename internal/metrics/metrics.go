// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels for StoreOperations.
const (
	OutcomeOK       = "ok"
	OutcomeInvalid  = "invalid"
	OutcomeConflict = "conflict"
	OutcomeCorrupt  = "corrupt"
	OutcomeError    = "error"
)

// Operation labels for StoreOperations and StoreDuration.
const (
	OperationList   = "list"
	OperationCreate = "create"
	OperationGet    = "get"
)

// Metrics groups the binvault collectors so each registry (production or
// test) gets its own instances.
type Metrics struct {
	StoreOperations *prometheus.CounterVec
	StoreDuration   *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StoreOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: "binvault", Name: "store_operations_total", Help: "Number of bin store operations by backend, operation and outcome."},
			[]string{"backend", "operation", "outcome"},
		),
		StoreDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{Namespace: "binvault", Name: "store_operation_duration_seconds", Help: "Latency of bin store operations by backend and operation.", Buckets: prometheus.DefBuckets},
			[]string{"backend", "operation"},
		),
	}

	reg.MustRegister(m.StoreOperations)
	reg.MustRegister(m.StoreDuration)

	return m
}
