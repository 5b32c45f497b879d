// Package metrics exposes Prometheus instrumentation for batch
// execution. Collectors register themselves on the default registry;
// hosts serve them with promhttp.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BatchesExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskgraph_batches_executed_total",
		Help: "Total number of batches run to completion, labelled by outcome.",
	}, []string{"status"})

	BatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "taskgraph_batch_size_tasks",
		Help:    "Number of tasks in executed batches.",
		Buckets: []float64{1, 2, 5, 10, 25, 50, 100, 250, 1000},
	})

	TasksExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "taskgraph_tasks_executed_total",
		Help: "Total number of tasks run, labelled by status.",
	}, []string{"status"})

	TaskDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "taskgraph_task_duration_ms",
		Help:    "Per-task wall time in milliseconds.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000, 30000},
	})

	TasksInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "taskgraph_tasks_in_flight",
		Help: "Tasks currently executing.",
	})
)
