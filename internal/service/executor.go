package service

import (
	"context"
	"time"

	"github.com/fiscalflow/fiscalflow/internal/artifact"
	"github.com/fiscalflow/fiscalflow/internal/domain/report"
	"github.com/fiscalflow/fiscalflow/internal/domain/task"
	ierr "github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/fiscalflow/fiscalflow/internal/render"
	"github.com/fiscalflow/fiscalflow/internal/types"
	"github.com/sourcegraph/conc/pool"
)

// ExecutorService runs claimed tasks: it materializes the report, ships it
// to the shop's destination when one is configured, and records the outcome
// on the task, report and schedule rows.
type ExecutorService interface {
	// Execute runs one already-claimed task to a terminal status.
	Execute(ctx context.Context, t *task.Task) error

	// Run claims pending tasks and executes them on a bounded worker pool
	// until the context is cancelled.
	Run(ctx context.Context) error
}

type executorService struct {
	ServiceParams
	loader shopConfigLoader
}

func NewExecutorService(params ServiceParams) ExecutorService {
	return &executorService{
		ServiceParams: params,
		loader:        shopConfigLoader{ServiceParams: params},
	}
}

func (s *executorService) Run(ctx context.Context) error {
	workers := pool.New().WithMaxGoroutines(s.Config.Executor.Workers)
	s.Logger.Infow("executor started",
		"workers", s.Config.Executor.Workers,
		"poll_interval", s.Config.Executor.PollInterval)

	for {
		select {
		case <-ctx.Done():
			workers.Wait()
			s.Logger.Infow("executor stopped")
			return ctx.Err()
		default:
		}

		claimed, err := s.TaskRepo.ClaimNextPending(ctx)
		if err != nil {
			s.Logger.Errorw("failed to claim pending task", "error", err)
			claimed = nil
		}
		if claimed == nil {
			select {
			case <-ctx.Done():
				workers.Wait()
				s.Logger.Infow("executor stopped")
				return ctx.Err()
			case <-time.After(s.Config.Executor.PollInterval):
			}
			continue
		}

		t := claimed
		workers.Go(func() {
			if err := s.Execute(ctx, t); err != nil {
				s.Logger.Errorw("task execution failed",
					"task_id", t.ID,
					"shop_id", t.ShopID,
					"error", err)
			}
		})
	}
}

func (s *executorService) Execute(ctx context.Context, t *task.Task) error {
	// Render and delivery together get one hard wall-clock budget.
	ctx, cancel := context.WithTimeout(ctx, s.Config.Executor.TaskTimeout)
	defer cancel()

	rep, err := s.execute(ctx, t)
	if err != nil {
		if ctx.Err() != nil {
			err = ierr.WithError(err).
				WithHint("Task execution exceeded its time budget").
				Mark(ierr.ErrTimeout)
		}
		s.failTask(t, rep, err)
		return err
	}

	return s.completeTask(ctx, t)
}

// execute performs the fallible middle of a task run: load configuration,
// render, persist the artifact, deliver. It returns the report row it
// created (possibly nil when it failed before creating one).
func (s *executorService) execute(ctx context.Context, t *task.Task) (*report.Report, error) {
	st, err := s.ScheduledTaskRepo.Get(ctx, t.ScheduledTaskID)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Task references an unknown schedule").
			Mark(ierr.ErrInvalidOperation)
	}

	fiscalCfg, err := s.loader.fiscalConfig(ctx, t.ShopID)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Cannot render without a fiscal configuration").
			Mark(ierr.ErrValidation)
	}

	start, end := st.Frequency.Window(t.ScheduledFor)
	window := render.Window{Start: start, End: end}
	now := s.Clock.Now()

	rep := &report.Report{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REPORT),
		ShopID:         t.ShopID,
		Type:           st.ReportType,
		DataType:       st.DataType,
		Status:         types.ReportStatusProcessing,
		Format:         fiscalCfg.DefaultFormat,
		StartDate:      &start,
		EndDate:        &end,
		DeliveryMethod: types.DeliveryMethodNone,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.ReportRepo.Create(ctx, rep); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to create report").
			Mark(ierr.ErrDatabase)
	}

	t.ReportID = rep.ID
	if err := s.TaskRepo.Update(ctx, t); err != nil {
		return rep, ierr.WithError(err).
			WithHint("Failed to link report to task").
			Mark(ierr.ErrDatabase)
	}

	art, err := s.Registry.Render(ctx, rep.Format, fiscalCfg, t.ShopID, window)
	if err != nil {
		return rep, err
	}

	fileName := artifact.BuildFileName(st.ReportType, window, rep.Format)
	filePath, err := s.Artifacts.Save(ctx, t.ShopID, fileName, art.Bytes)
	if err != nil {
		return rep, err
	}

	rep.FileName = fileName
	rep.FilePath = filePath
	rep.FileSize = int64(len(art.Bytes))
	if art.RowCount == 0 {
		rep.Status = types.ReportStatusCompletedEmptyData
	} else {
		rep.Status = types.ReportStatusCompleted
	}

	s.deliver(ctx, t, rep, fileName, art.Bytes)

	rep.UpdatedAt = s.Clock.Now()
	if err := s.ReportRepo.Update(ctx, rep); err != nil {
		return rep, ierr.WithError(err).
			WithHint("Failed to persist report outcome").
			Mark(ierr.ErrDatabase)
	}
	return rep, nil
}

// deliver ships the artifact when the shop has a destination configured.
// A delivery failure after retries marks only the delivery status: the
// report itself stays completed because the artifact exists.
func (s *executorService) deliver(ctx context.Context, t *task.Task, rep *report.Report, fileName string, content []byte) {
	ftpCfg, err := s.FtpConfigRepo.GetByShop(ctx, t.ShopID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return
		}
		// The shop may well have a destination configured, so the miss is
		// recorded on the report as a failed delivery.
		status := types.DeliveryStatusFailed
		rep.DeliveryMethod = types.DeliveryMethodFTP
		rep.FtpDeliveryStatus = &status
		rep.ErrorMessage = err.Error()
		s.Logger.Errorw("failed to load ftp configuration",
			"task_id", t.ID,
			"report_id", rep.ID,
			"shop_id", t.ShopID,
			"error", err)
		return
	}

	rep.DeliveryMethod = types.DeliveryMethodFTP
	status, err := s.Delivery.Deliver(ctx, ftpCfg, fileName, content)
	rep.FtpDeliveryStatus = &status
	if err != nil {
		rep.ErrorMessage = err.Error()
		s.Logger.Errorw("artifact delivery failed",
			"task_id", t.ID,
			"report_id", rep.ID,
			"destination", ftpCfg.Redacted(),
			"error", err)
	}
}

func (s *executorService) completeTask(ctx context.Context, t *task.Task) error {
	now := s.Clock.Now()
	t.Status = types.TaskStatusCompleted
	t.CompletedAt = &now
	t.UpdatedAt = now
	if err := s.TaskRepo.Update(ctx, t); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to complete task").
			Mark(ierr.ErrDatabase)
	}

	// LastRun records the due time the run served, enabling skipped-run
	// detection by monitoring.
	if err := s.ScheduledTaskRepo.UpdateRun(ctx, t.ScheduledTaskID, &t.ScheduledFor, nil); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to record schedule run").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

// failTask records an unrecoverable execution failure. LastRun is left
// untouched so the missed occurrence remains visible.
func (s *executorService) failTask(t *task.Task, rep *report.Report, execErr error) {
	// The parent context may already be past its deadline.
	ctx := context.Background()
	now := s.Clock.Now()

	if rep != nil && !rep.Status.IsTerminal() {
		rep.Status = types.ReportStatusError
		rep.ErrorMessage = execErr.Error()
		rep.UpdatedAt = now
		if err := s.ReportRepo.Update(ctx, rep); err != nil {
			s.Logger.Errorw("failed to record report error",
				"report_id", rep.ID,
				"error", err)
		}
	}

	t.Status = types.TaskStatusFailed
	t.CompletedAt = &now
	t.UpdatedAt = now
	t.ErrorMessage = execErr.Error()
	if err := s.TaskRepo.Update(ctx, t); err != nil {
		s.Logger.Errorw("failed to record task failure",
			"task_id", t.ID,
			"error", err)
	}
}
