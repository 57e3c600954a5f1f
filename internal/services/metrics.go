package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// operationsTotal counts workflow operations by outcome code.
	operationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "care_workflow_operations_total",
			Help: "Mutating workflow operations partitioned by operation and outcome code.",
		},
		[]string{"operation", "outcome"},
	)

	// operationsInFlight tracks guard keys currently held.
	operationsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "care_workflow_operations_in_flight",
			Help: "Number of entity keys currently held by the operation guard.",
		},
	)
)

func init() {
	prometheus.MustRegister(operationsTotal, operationsInFlight)
}

func observe(operation string, err error) {
	operationsTotal.WithLabelValues(operation, Code(err)).Inc()
}
