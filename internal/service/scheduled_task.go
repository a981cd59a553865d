package service

import (
	"context"

	"github.com/fiscalflow/fiscalflow/internal/domain/scheduledtask"
	ierr "github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/fiscalflow/fiscalflow/internal/schedule"
	"github.com/fiscalflow/fiscalflow/internal/types"
	"github.com/fiscalflow/fiscalflow/internal/validator"
)

// CreateScheduledTaskRequest carries the recurrence rule for a new schedule.
type CreateScheduledTaskRequest struct {
	Frequency     types.ScheduleFrequency `json:"frequency" validate:"required"`
	ExecutionDay  int                     `json:"execution_day"`
	ExecutionTime types.ExecutionTime     `json:"execution_time" validate:"required"`
	ReportType    string                  `json:"report_type" validate:"required"`
	DataType      string                  `json:"data_type" validate:"required"`
	EmailConfig   map[string]interface{}  `json:"email_config,omitempty"`
}

// UpdateScheduledTaskRequest changes the recurrence rule of an existing
// schedule. Nil fields are left untouched.
type UpdateScheduledTaskRequest struct {
	Frequency     *types.ScheduleFrequency `json:"frequency,omitempty"`
	ExecutionDay  *int                     `json:"execution_day,omitempty"`
	ExecutionTime *types.ExecutionTime     `json:"execution_time,omitempty"`
	EmailConfig   map[string]interface{}   `json:"email_config,omitempty"`
}

// ScheduledTaskService manages the recurrence rules of a shop's exports.
type ScheduledTaskService interface {
	Create(ctx context.Context, req CreateScheduledTaskRequest) (*scheduledtask.ScheduledTask, error)
	Get(ctx context.Context, id string) (*scheduledtask.ScheduledTask, error)
	List(ctx context.Context, filters *scheduledtask.ListFilters) ([]*scheduledtask.ScheduledTask, error)
	Update(ctx context.Context, id string, req UpdateScheduledTaskRequest) (*scheduledtask.ScheduledTask, error)
	Pause(ctx context.Context, id string) (*scheduledtask.ScheduledTask, error)
	Resume(ctx context.Context, id string) (*scheduledtask.ScheduledTask, error)
	Delete(ctx context.Context, id string) error
}

type scheduledTaskService struct {
	ServiceParams
	loader shopConfigLoader
}

func NewScheduledTaskService(params ServiceParams) ScheduledTaskService {
	return &scheduledTaskService{
		ServiceParams: params,
		loader:        shopConfigLoader{ServiceParams: params},
	}
}

func (s *scheduledTaskService) Create(ctx context.Context, req CreateScheduledTaskRequest) (*scheduledtask.ScheduledTask, error) {
	if err := types.ValidateShopContext(ctx); err != nil {
		return nil, err
	}
	shopID := types.GetShopID(ctx)

	if err := validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	st := &scheduledtask.ScheduledTask{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SCHEDULED_TASK),
		ShopID:        shopID,
		Frequency:     req.Frequency,
		ExecutionDay:  req.ExecutionDay,
		ExecutionTime: req.ExecutionTime,
		ReportType:    req.ReportType,
		DataType:      req.DataType,
		EmailConfig:   req.EmailConfig,
		Status:        types.ScheduledTaskStatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}

	loc := s.loader.location(ctx, shopID)
	next, err := schedule.ComputeNextRun(st.Frequency, st.ExecutionDay, st.ExecutionTime, loc, now)
	if err != nil {
		return nil, err
	}
	st.NextRun = next

	if err := s.ScheduledTaskRepo.Create(ctx, st); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to create scheduled task").
			Mark(ierr.ErrDatabase)
	}

	s.Logger.Infow("created scheduled task",
		"scheduled_task_id", st.ID,
		"shop_id", shopID,
		"frequency", st.Frequency,
		"next_run", st.NextRun)
	return st, nil
}

func (s *scheduledTaskService) Get(ctx context.Context, id string) (*scheduledtask.ScheduledTask, error) {
	return s.ScheduledTaskRepo.Get(ctx, id)
}

func (s *scheduledTaskService) List(ctx context.Context, filters *scheduledtask.ListFilters) ([]*scheduledtask.ScheduledTask, error) {
	if filters == nil {
		filters = &scheduledtask.ListFilters{}
	}
	if filters.ShopID == "" {
		if err := types.ValidateShopContext(ctx); err != nil {
			return nil, err
		}
		shopID := types.GetShopID(ctx)
		filters.ShopID = shopID
	}
	return s.ScheduledTaskRepo.List(ctx, filters)
}

func (s *scheduledTaskService) Update(ctx context.Context, id string, req UpdateScheduledTaskRequest) (*scheduledtask.ScheduledTask, error) {
	st, err := s.ScheduledTaskRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Frequency != nil {
		st.Frequency = *req.Frequency
	}
	if req.ExecutionDay != nil {
		st.ExecutionDay = *req.ExecutionDay
	}
	if req.ExecutionTime != nil {
		st.ExecutionTime = *req.ExecutionTime
	}
	if req.EmailConfig != nil {
		st.EmailConfig = req.EmailConfig
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}

	// A changed rule invalidates the pre-computed due time.
	loc := s.loader.location(ctx, st.ShopID)
	next, err := schedule.ComputeNextRun(st.Frequency, st.ExecutionDay, st.ExecutionTime, loc, s.Clock.Now())
	if err != nil {
		return nil, err
	}
	st.NextRun = next
	st.UpdatedAt = s.Clock.Now()

	if err := s.ScheduledTaskRepo.Update(ctx, st); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to update scheduled task").
			Mark(ierr.ErrDatabase)
	}
	return st, nil
}

func (s *scheduledTaskService) Pause(ctx context.Context, id string) (*scheduledtask.ScheduledTask, error) {
	return s.setStatus(ctx, id, types.ScheduledTaskStatusPaused)
}

// Resume reactivates a paused schedule. NextRun is recomputed from now so
// occurrences missed while paused are not dispatched retroactively.
func (s *scheduledTaskService) Resume(ctx context.Context, id string) (*scheduledtask.ScheduledTask, error) {
	st, err := s.ScheduledTaskRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	loc := s.loader.location(ctx, st.ShopID)
	next, err := schedule.ComputeNextRun(st.Frequency, st.ExecutionDay, st.ExecutionTime, loc, s.Clock.Now())
	if err != nil {
		return nil, err
	}
	st.NextRun = next
	st.Status = types.ScheduledTaskStatusActive
	st.UpdatedAt = s.Clock.Now()

	if err := s.ScheduledTaskRepo.Update(ctx, st); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to resume scheduled task").
			Mark(ierr.ErrDatabase)
	}
	return st, nil
}

func (s *scheduledTaskService) Delete(ctx context.Context, id string) error {
	if _, err := s.ScheduledTaskRepo.Get(ctx, id); err != nil {
		return err
	}
	return s.ScheduledTaskRepo.Delete(ctx, id)
}

func (s *scheduledTaskService) setStatus(ctx context.Context, id string, status types.ScheduledTaskStatus) (*scheduledtask.ScheduledTask, error) {
	st, err := s.ScheduledTaskRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	st.Status = status
	st.UpdatedAt = s.Clock.Now()
	if err := s.ScheduledTaskRepo.Update(ctx, st); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to update scheduled task status").
			Mark(ierr.ErrDatabase)
	}
	return st, nil
}
