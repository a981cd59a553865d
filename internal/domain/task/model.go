package task

import (
	"time"

	"github.com/fiscalflow/fiscalflow/internal/types"
)

// Task is one concrete execution instance of a scheduled task. For a given
// schedule at most one task is pending or running at a time.
type Task struct {
	ID              string `json:"id"`
	ScheduledTaskID string `json:"scheduled_task_id"`
	ShopID          string `json:"shop_id"`
	// ReportID is set once the execution has materialized its report.
	ReportID string `json:"report_id,omitempty"`

	Status types.TaskStatus `json:"status"`
	// ScheduledFor is the due time this task was created for, which may be
	// earlier than the time it actually starts.
	ScheduledFor time.Time  `json:"scheduled_for"`
	StartedAt    *time.Time `json:"started_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`

	EmailConfig  map[string]interface{} `json:"email_config,omitempty"`
	ErrorMessage string                 `json:"error_message,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (t *Task) Validate() error {
	return t.Status.Validate()
}
