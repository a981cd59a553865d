package types

import (
	"github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/samber/lo"
)

// TaskStatus tracks one concrete execution of a scheduled export.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

func (s TaskStatus) String() string {
	return string(s)
}

func (s TaskStatus) Validate() error {
	allowed := []TaskStatus{
		TaskStatusPending,
		TaskStatusRunning,
		TaskStatusCompleted,
		TaskStatusFailed,
	}
	if !lo.Contains(allowed, s) {
		return errors.New(errors.ErrCodeValidation, "invalid task status")
	}
	return nil
}

// IsTerminal reports whether no further automatic transition occurs from s.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed
}

// IsInFlight reports whether the task still occupies its schedule's
// single execution slot.
func (s TaskStatus) IsInFlight() bool {
	return s == TaskStatusPending || s == TaskStatusRunning
}

// TaskFilter defines the filter parameters for listing tasks
type TaskFilter struct {
	ShopID          string
	ScheduledTaskID string
	Statuses        []TaskStatus
	Limit           int
	Offset          int
}
