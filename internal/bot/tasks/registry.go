package tasks

import (
	"context"
)

// ScheduledTaskFunc defines the signature of every scheduled task.
// The context provided by the scheduler should be respected for cancellation.
type ScheduledTaskFunc func(ctx context.Context) error

// Task names, matching the keys of scheduler.tasks in the configuration.
const (
	SQLMaintenanceTask = "sql_maintenance"
	DailySummaryTask   = "daily_summary"
)

// RegisterAllTasks returns every scheduled task keyed by its configuration name.
func RegisterAllTasks(deps TaskDeps) map[string]ScheduledTaskFunc {
	tasks := map[string]ScheduledTaskFunc{
		SQLMaintenanceTask: newSQLMaintenanceTask(deps),
		DailySummaryTask:   newDailySummaryTask(deps),
	}

	deps.Logger.Info("Initialized scheduled tasks", "count", len(tasks))
	return tasks
}
