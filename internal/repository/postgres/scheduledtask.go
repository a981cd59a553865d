package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fiscalflow/fiscalflow/internal/domain/scheduledtask"
	ierr "github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/fiscalflow/fiscalflow/internal/logger"
	"github.com/fiscalflow/fiscalflow/internal/postgres"
	"github.com/fiscalflow/fiscalflow/internal/types"
)

type scheduledTaskRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewScheduledTaskRepository(db *postgres.DB, logger *logger.Logger) scheduledtask.Repository {
	return &scheduledTaskRepository{db: db, logger: logger}
}

// scheduledTaskRow mirrors the scheduled_tasks table. EmailConfig is stored
// as a jsonb column.
type scheduledTaskRow struct {
	ID            string     `db:"id"`
	ShopID        string     `db:"shop_id"`
	Frequency     string     `db:"frequency"`
	ExecutionDay  int        `db:"execution_day"`
	ExecutionTime string     `db:"execution_time"`
	ReportType    string     `db:"report_type"`
	DataType      string     `db:"data_type"`
	EmailConfig   []byte     `db:"email_config"`
	LastRun       *time.Time `db:"last_run"`
	NextRun       time.Time  `db:"next_run"`
	Status        string     `db:"status"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

func toScheduledTaskRow(st *scheduledtask.ScheduledTask) (*scheduledTaskRow, error) {
	var emailConfig []byte
	if st.EmailConfig != nil {
		var err error
		emailConfig, err = json.Marshal(st.EmailConfig)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to encode email config").
				Mark(ierr.ErrValidation)
		}
	}
	return &scheduledTaskRow{
		ID:            st.ID,
		ShopID:        st.ShopID,
		Frequency:     string(st.Frequency),
		ExecutionDay:  st.ExecutionDay,
		ExecutionTime: string(st.ExecutionTime),
		ReportType:    st.ReportType,
		DataType:      st.DataType,
		EmailConfig:   emailConfig,
		LastRun:       st.LastRun,
		NextRun:       st.NextRun,
		Status:        string(st.Status),
		CreatedAt:     st.CreatedAt,
		UpdatedAt:     st.UpdatedAt,
	}, nil
}

func (row *scheduledTaskRow) toDomain() (*scheduledtask.ScheduledTask, error) {
	var emailConfig map[string]interface{}
	if len(row.EmailConfig) > 0 {
		if err := json.Unmarshal(row.EmailConfig, &emailConfig); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to decode email config").
				Mark(ierr.ErrDatabase)
		}
	}
	return &scheduledtask.ScheduledTask{
		ID:            row.ID,
		ShopID:        row.ShopID,
		Frequency:     types.ScheduleFrequency(row.Frequency),
		ExecutionDay:  row.ExecutionDay,
		ExecutionTime: types.ExecutionTime(row.ExecutionTime),
		ReportType:    row.ReportType,
		DataType:      row.DataType,
		EmailConfig:   emailConfig,
		LastRun:       row.LastRun,
		NextRun:       row.NextRun,
		Status:        types.ScheduledTaskStatus(row.Status),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}, nil
}

func (r *scheduledTaskRepository) Create(ctx context.Context, st *scheduledtask.ScheduledTask) error {
	row, err := toScheduledTaskRow(st)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO scheduled_tasks (
			id, shop_id, frequency, execution_day, execution_time,
			report_type, data_type, email_config, last_run, next_run,
			status, created_at, updated_at
		) VALUES (
			:id, :shop_id, :frequency, :execution_day, :execution_time,
			:report_type, :data_type, :email_config, :last_run, :next_run,
			:status, :created_at, :updated_at
		)`

	r.logger.Debugw("creating scheduled task",
		"scheduled_task_id", st.ID,
		"shop_id", st.ShopID,
	)

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create scheduled task").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *scheduledTaskRepository) Get(ctx context.Context, id string) (*scheduledtask.ScheduledTask, error) {
	rows, err := r.db.NamedQueryContext(ctx, "SELECT * FROM scheduled_tasks WHERE id = :id", map[string]interface{}{
		"id": id,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get scheduled task").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewErrorf("scheduled task %s not found", id).
			Mark(ierr.ErrNotFound)
	}
	var row scheduledTaskRow
	if err := rows.StructScan(&row); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan scheduled task").
			Mark(ierr.ErrDatabase)
	}
	return row.toDomain()
}

func (r *scheduledTaskRepository) Update(ctx context.Context, st *scheduledtask.ScheduledTask) error {
	row, err := toScheduledTaskRow(st)
	if err != nil {
		return err
	}

	query := `
		UPDATE scheduled_tasks SET
			frequency = :frequency,
			execution_day = :execution_day,
			execution_time = :execution_time,
			report_type = :report_type,
			data_type = :data_type,
			email_config = :email_config,
			last_run = :last_run,
			next_run = :next_run,
			status = :status,
			updated_at = :updated_at
		WHERE id = :id`

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update scheduled task").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *scheduledTaskRepository) Delete(ctx context.Context, id string) error {
	r.logger.Debugw("deleting scheduled task", "scheduled_task_id", id)

	if _, err := r.db.NamedExecContext(ctx, "DELETE FROM scheduled_tasks WHERE id = :id", map[string]interface{}{
		"id": id,
	}); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete scheduled task").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *scheduledTaskRepository) List(ctx context.Context, filters *scheduledtask.ListFilters) ([]*scheduledtask.ScheduledTask, error) {
	query := `SELECT * FROM scheduled_tasks WHERE shop_id = :shop_id`
	params := map[string]interface{}{
		"shop_id": filters.ShopID,
	}
	if filters.Status != "" {
		query += ` AND status = :status`
		params["status"] = filters.Status
	}
	query += ` ORDER BY created_at DESC`
	if filters.Limit > 0 {
		query += ` LIMIT :limit OFFSET :offset`
		params["limit"] = filters.Limit
		params["offset"] = filters.Offset
	}

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list scheduled tasks").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var out []*scheduledtask.ScheduledTask
	for rows.Next() {
		var row scheduledTaskRow
		if err := rows.StructScan(&row); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan scheduled task").
				Mark(ierr.ErrDatabase)
		}
		st, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

// FindDue selects the due active schedules. The row lock with SKIP LOCKED
// lets concurrent dispatchers partition the due set instead of blocking or
// double-dispatching.
func (r *scheduledTaskRepository) FindDue(ctx context.Context, now time.Time) ([]*scheduledtask.ScheduledTask, error) {
	query := `
		SELECT * FROM scheduled_tasks
		WHERE status = 'active' AND next_run <= :now
		ORDER BY next_run
		FOR UPDATE SKIP LOCKED`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"now": now,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to select due schedules").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var out []*scheduledtask.ScheduledTask
	for rows.Next() {
		var row scheduledTaskRow
		if err := rows.StructScan(&row); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan scheduled task").
				Mark(ierr.ErrDatabase)
		}
		st, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, nil
}

func (r *scheduledTaskRepository) UpdateRun(ctx context.Context, id string, lastRun *time.Time, nextRun *time.Time) error {
	query := `
		UPDATE scheduled_tasks SET
			last_run = COALESCE(:last_run, last_run),
			next_run = COALESCE(:next_run, next_run),
			updated_at = now()
		WHERE id = :id`

	result, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id":       id,
		"last_run": lastRun,
		"next_run": nextRun,
	})
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to advance schedule run").
			Mark(ierr.ErrDatabase)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return ierr.NewErrorf("scheduled task %s not found", id).
			Mark(ierr.ErrNotFound)
	}
	return nil
}
