package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	opGet    = "get"
	opCreate = "create"
	opUpdate = "update"

	outcomeOK       = "ok"
	outcomeNotFound = "not_found"
	outcomeError    = "error"
)

// operationsTotal counts account lifecycle operations by outcome.
// It is exposed on /-/metrics through the default registry.
var operationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "account_service",
		Name:      "operations_total",
		Help:      "Account lifecycle operations by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

func recordOperation(operation, outcome string) {
	operationsTotal.WithLabelValues(operation, outcome).Inc()
}
