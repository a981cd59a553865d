package service

import (
	"context"
	"time"

	"github.com/fiscalflow/fiscalflow/internal/domain/scheduledtask"
	"github.com/fiscalflow/fiscalflow/internal/domain/task"
	ierr "github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/fiscalflow/fiscalflow/internal/schedule"
	"github.com/fiscalflow/fiscalflow/internal/types"
)

// DispatcherService turns due schedules into pending task executions.
type DispatcherService interface {
	// PollAndDispatch creates a pending task for every due schedule without
	// an in-flight execution and advances each schedule's NextRun. It
	// returns the IDs of the tasks it created.
	PollAndDispatch(ctx context.Context, now time.Time) ([]string, error)

	// Run polls on the configured tick until the context is cancelled.
	Run(ctx context.Context) error
}

type dispatcherService struct {
	ServiceParams
	loader shopConfigLoader
}

func NewDispatcherService(params ServiceParams) DispatcherService {
	return &dispatcherService{
		ServiceParams: params,
		loader:        shopConfigLoader{ServiceParams: params},
	}
}

func (s *dispatcherService) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.Config.Dispatcher.TickInterval)
	defer ticker.Stop()

	s.Logger.Infow("dispatcher started", "tick_interval", s.Config.Dispatcher.TickInterval)
	for {
		select {
		case <-ctx.Done():
			s.Logger.Infow("dispatcher stopped")
			return ctx.Err()
		case <-ticker.C:
			if _, err := s.PollAndDispatch(ctx, s.Clock.Now()); err != nil {
				s.Logger.Errorw("dispatch tick failed", "error", err)
			}
		}
	}
}

func (s *dispatcherService) PollAndDispatch(ctx context.Context, now time.Time) ([]string, error) {
	var created []string

	// The whole batch shares one transaction: due rows stay locked until
	// their replacement NextRun is persisted, so a second dispatcher
	// instance cannot double-dispatch them.
	err := s.Tx.WithTx(ctx, func(ctx context.Context) error {
		due, err := s.ScheduledTaskRepo.FindDue(ctx, now)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to select due schedules").
				Mark(ierr.ErrDatabase)
		}

		for _, st := range due {
			taskID, err := s.dispatchOne(ctx, st)
			if err != nil {
				// Per-row failures never block sibling schedules.
				s.Logger.Errorw("failed to dispatch schedule",
					"scheduled_task_id", st.ID,
					"shop_id", st.ShopID,
					"error", err)
				continue
			}
			if taskID != "" {
				created = append(created, taskID)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(created) > 0 {
		s.Logger.Infow("dispatched due schedules", "created", len(created))
	}
	return created, nil
}

// dispatchOne creates the task for one due schedule. It returns an empty ID
// when the schedule is skipped because its previous run is still in flight.
func (s *dispatcherService) dispatchOne(ctx context.Context, st *scheduledtask.ScheduledTask) (string, error) {
	inFlight, err := s.TaskRepo.HasInFlight(ctx, st.ID)
	if err != nil {
		return "", err
	}
	if inFlight {
		// The previous run has not finished. NextRun stays put so the
		// schedule is re-examined on the next tick.
		s.Logger.Warnw("skipping schedule with in-flight task",
			"scheduled_task_id", st.ID,
			"shop_id", st.ShopID,
			"next_run", st.NextRun)
		return "", nil
	}

	loc := s.loader.location(ctx, st.ShopID)

	// NextRun advances from the due time, not from the wall clock, so a
	// late dispatcher does not drift the schedule.
	next, err := schedule.ComputeNextRun(st.Frequency, st.ExecutionDay, st.ExecutionTime, loc, st.NextRun)
	if err != nil {
		return "", err
	}

	now := s.Clock.Now()
	t := &task.Task{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TASK),
		ScheduledTaskID: st.ID,
		ShopID:          st.ShopID,
		Status:          types.TaskStatusPending,
		ScheduledFor:    st.NextRun,
		EmailConfig:     st.EmailConfig,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.TaskRepo.Create(ctx, t); err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to create task").
			Mark(ierr.ErrDatabase)
	}

	if err := s.ScheduledTaskRepo.UpdateRun(ctx, st.ID, nil, &next); err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to advance schedule").
			Mark(ierr.ErrDatabase)
	}

	s.Logger.Debugw("dispatched schedule",
		"scheduled_task_id", st.ID,
		"task_id", t.ID,
		"scheduled_for", t.ScheduledFor,
		"next_run", next)
	return t.ID, nil
}
