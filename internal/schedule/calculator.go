package schedule

import (
	"time"

	ierr "github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/fiscalflow/fiscalflow/internal/types"
)

// ComputeNextRun computes the earliest due time strictly after the given
// reference instant for a recurrence rule, evaluated in the shop's timezone.
//
// Civil times are resolved through time.Date, so a schedule falling into a
// DST "spring forward" gap lands on the nearest valid instant and an
// ambiguous "fall back" time resolves to the first occurrence.
func ComputeNextRun(
	frequency types.ScheduleFrequency,
	executionDay int,
	executionTime types.ExecutionTime,
	loc *time.Location,
	after time.Time,
) (time.Time, error) {
	if err := frequency.Validate(); err != nil {
		return time.Time{}, err
	}
	if err := types.ValidateExecutionDay(frequency, executionDay); err != nil {
		return time.Time{}, err
	}

	hour, minute, err := executionTime.Parse()
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.UTC
	}

	local := after.In(loc)

	switch frequency {
	case types.ScheduleFrequencyDaily:
		return nextDaily(local, hour, minute, after), nil
	case types.ScheduleFrequencyWeekly:
		return nextWeekly(local, executionDay, hour, minute, after), nil
	case types.ScheduleFrequencyMonthly:
		return nextMonthly(local, executionDay, hour, minute, after), nil
	default:
		return time.Time{}, ierr.New(ierr.ErrCodeValidation, "invalid schedule frequency")
	}
}

func nextDaily(local time.Time, hour, minute int, after time.Time) time.Time {
	candidate := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, local.Location())
	if !candidate.After(after) {
		next := local.AddDate(0, 0, 1)
		candidate = time.Date(next.Year(), next.Month(), next.Day(), hour, minute, 0, 0, local.Location())
	}
	return candidate
}

func nextWeekly(local time.Time, weekday, hour, minute int, after time.Time) time.Time {
	daysAhead := (weekday - int(local.Weekday()) + 7) % 7
	day := local.AddDate(0, 0, daysAhead)
	candidate := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, local.Location())
	if !candidate.After(after) {
		day = day.AddDate(0, 0, 7)
		candidate = time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, local.Location())
	}
	return candidate
}

func nextMonthly(local time.Time, dayOfMonth, hour, minute int, after time.Time) time.Time {
	// Days past the end of a month clamp to its last day instead of
	// skipping the month entirely.
	candidate := monthlyOccurrence(local.Year(), local.Month(), dayOfMonth, hour, minute, local.Location())
	if !candidate.After(after) {
		year, month := local.Year(), local.Month()
		month++
		if month > time.December {
			month = time.January
			year++
		}
		candidate = monthlyOccurrence(year, month, dayOfMonth, hour, minute, local.Location())
	}
	return candidate
}

func monthlyOccurrence(year int, month time.Month, dayOfMonth, hour, minute int, loc *time.Location) time.Time {
	day := dayOfMonth
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, hour, minute, 0, 0, loc)
}

func daysIn(year int, month time.Month) int {
	// Day zero of the following month normalizes to the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
