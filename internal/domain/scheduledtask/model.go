package scheduledtask

import (
	"time"

	"github.com/fiscalflow/fiscalflow/internal/types"
)

// ScheduledTask is a recurrence rule bound to one shop's report template.
// NextRun is always pre-computed: it holds the earliest future due time
// consistent with the rule and the shop's timezone, and is advanced
// atomically whenever a run is dispatched.
type ScheduledTask struct {
	ID     string `json:"id"`
	ShopID string `json:"shop_id"`

	Frequency     types.ScheduleFrequency `json:"frequency"`
	ExecutionDay  int                     `json:"execution_day"`
	ExecutionTime types.ExecutionTime     `json:"execution_time"`

	// ReportType/DataType describe the report template this schedule produces.
	ReportType string `json:"report_type"`
	DataType   string `json:"data_type"`

	// EmailConfig is an opaque notification payload, passed through to tasks.
	EmailConfig map[string]interface{} `json:"email_config,omitempty"`

	LastRun *time.Time                `json:"last_run,omitempty"`
	NextRun time.Time                 `json:"next_run"`
	Status  types.ScheduledTaskStatus `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActive reports whether the schedule participates in dispatch.
func (t *ScheduledTask) IsActive() bool {
	return t.Status == types.ScheduledTaskStatusActive
}

// IsDue checks if the schedule is due for execution at the given time.
func (t *ScheduledTask) IsDue(now time.Time) bool {
	if !t.IsActive() {
		return false
	}
	return !t.NextRun.After(now)
}

func (t *ScheduledTask) Validate() error {
	if err := t.Frequency.Validate(); err != nil {
		return err
	}
	if err := types.ValidateExecutionDay(t.Frequency, t.ExecutionDay); err != nil {
		return err
	}
	if err := t.ExecutionTime.Validate(); err != nil {
		return err
	}
	return t.Status.Validate()
}
