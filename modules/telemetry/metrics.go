package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	tasksCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tasks_created_total",
		Help: "Total number of tasks created",
	})

	tasksCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tasks_completed_total",
		Help: "Total number of tasks that entered done",
	})

	tasksDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tasks_deleted_total",
		Help: "Total number of tasks deleted",
	})
)
