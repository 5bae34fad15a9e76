package store

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	bulkOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kanban",
		Subsystem: "bulk",
		Name:      "operations_total",
		Help:      "Total number of bulk card operations broken down by operation and result.",
	}, []string{"operation", "result"})

	bulkItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kanban",
		Subsystem: "bulk",
		Name:      "items_total",
		Help:      "Total number of cards or card pairs touched by committed bulk operations.",
	}, []string{"operation"})

	renumberRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kanban",
		Subsystem: "renumber",
		Name:      "rows_total",
		Help:      "Total number of rows whose order was rewritten by a renumber pass.",
	}, []string{"scope"})
)

func recordBulk(operation string, updated int, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	bulkOperations.WithLabelValues(operation, result).Inc()
	if err == nil {
		bulkItems.WithLabelValues(operation).Add(float64(updated))
	}
}

func recordRenumber(scope string, changed int) {
	renumberRows.WithLabelValues(scope).Add(float64(changed))
}
