package task

import (
	"context"

	"github.com/fiscalflow/fiscalflow/internal/types"
)

// Repository defines the interface for task operations. Tasks double as the
// claim table for worker coordination, so the claim and in-flight checks
// must be atomic at the storage level rather than guarded by process locks.
type Repository interface {
	Create(ctx context.Context, task *Task) error
	Get(ctx context.Context, id string) (*Task, error)
	Update(ctx context.Context, task *Task) error
	List(ctx context.Context, filter *types.TaskFilter) ([]*Task, error)
	Count(ctx context.Context, filter *types.TaskFilter) (int, error)

	// ClaimNextPending atomically transitions the oldest pending task to
	// running and returns it, or returns nil when nothing is pending.
	// Losing a claim race is not an error.
	ClaimNextPending(ctx context.Context) (*Task, error)

	// HasInFlight reports whether the schedule already has a pending or
	// running task.
	HasInFlight(ctx context.Context, scheduledTaskID string) (bool, error)
}
