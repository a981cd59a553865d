package scheduledtask

import (
	"context"
	"time"
)

// Repository defines the interface for scheduled task persistence operations
type Repository interface {
	Create(ctx context.Context, task *ScheduledTask) error
	Get(ctx context.Context, id string) (*ScheduledTask, error)
	Update(ctx context.Context, task *ScheduledTask) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filters *ListFilters) ([]*ScheduledTask, error)

	// FindDue returns all active schedules with NextRun at or before now.
	// Inside a transaction the rows are locked for update so concurrent
	// dispatchers never double-dispatch the same schedule.
	FindDue(ctx context.Context, now time.Time) ([]*ScheduledTask, error)

	// UpdateRun advances the run bookkeeping for a schedule. A nil lastRun
	// leaves LastRun untouched; a nil nextRun leaves NextRun untouched.
	UpdateRun(ctx context.Context, id string, lastRun *time.Time, nextRun *time.Time) error
}

// ListFilters defines filters for listing scheduled tasks
type ListFilters struct {
	ShopID string
	Status string
	Limit  int
	Offset int
}
