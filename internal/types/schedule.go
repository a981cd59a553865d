package types

import (
	"fmt"
	"time"

	"github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/samber/lo"
)

// ScheduleFrequency controls how often a scheduled export recurs.
type ScheduleFrequency string

const (
	ScheduleFrequencyDaily   ScheduleFrequency = "daily"
	ScheduleFrequencyWeekly  ScheduleFrequency = "weekly"
	ScheduleFrequencyMonthly ScheduleFrequency = "monthly"
)

func (f ScheduleFrequency) String() string {
	return string(f)
}

func (f ScheduleFrequency) Validate() error {
	allowed := []ScheduleFrequency{
		ScheduleFrequencyDaily,
		ScheduleFrequencyWeekly,
		ScheduleFrequencyMonthly,
	}
	if !lo.Contains(allowed, f) {
		return errors.New(errors.ErrCodeValidation, "invalid schedule frequency")
	}
	return nil
}

// Window returns the length of one reporting period for the frequency,
// anchored at the given end instant. Monthly windows follow calendar months.
func (f ScheduleFrequency) Window(end time.Time) (time.Time, time.Time) {
	switch f {
	case ScheduleFrequencyWeekly:
		return end.AddDate(0, 0, -7), end
	case ScheduleFrequencyMonthly:
		return end.AddDate(0, -1, 0), end
	default:
		return end.AddDate(0, 0, -1), end
	}
}

// ScheduledTaskStatus is the lifecycle status of a recurring schedule.
type ScheduledTaskStatus string

const (
	ScheduledTaskStatusActive ScheduledTaskStatus = "active"
	ScheduledTaskStatusPaused ScheduledTaskStatus = "paused"
)

func (s ScheduledTaskStatus) String() string {
	return string(s)
}

func (s ScheduledTaskStatus) Validate() error {
	allowed := []ScheduledTaskStatus{
		ScheduledTaskStatusActive,
		ScheduledTaskStatusPaused,
	}
	if !lo.Contains(allowed, s) {
		return errors.New(errors.ErrCodeValidation, "invalid scheduled task status")
	}
	return nil
}

// ExecutionTime is a civil wall-clock time of day in "HH:MM" form.
type ExecutionTime string

// Parse returns the hour and minute components of the execution time.
func (t ExecutionTime) Parse() (hour, minute int, err error) {
	parsed, err := time.Parse("15:04", string(t))
	if err != nil {
		return 0, 0, errors.New(errors.ErrCodeValidation,
			fmt.Sprintf("invalid execution time %q, expected HH:MM", string(t)))
	}
	return parsed.Hour(), parsed.Minute(), nil
}

func (t ExecutionTime) Validate() error {
	_, _, err := t.Parse()
	return err
}

// ValidateExecutionDay validates the execution day for a given frequency:
// day-of-week 0-6 (0=Sunday) for weekly, day-of-month 1-31 for monthly.
// The value is ignored for daily schedules.
func ValidateExecutionDay(frequency ScheduleFrequency, day int) error {
	switch frequency {
	case ScheduleFrequencyWeekly:
		if day < 0 || day > 6 {
			return errors.New(errors.ErrCodeValidation, "weekly execution day must be between 0 (Sunday) and 6 (Saturday)")
		}
	case ScheduleFrequencyMonthly:
		if day < 1 || day > 31 {
			return errors.New(errors.ErrCodeValidation, "monthly execution day must be between 1 and 31")
		}
	}
	return nil
}
