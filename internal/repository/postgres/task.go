package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fiscalflow/fiscalflow/internal/domain/task"
	ierr "github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/fiscalflow/fiscalflow/internal/logger"
	"github.com/fiscalflow/fiscalflow/internal/postgres"
	"github.com/fiscalflow/fiscalflow/internal/types"
	"github.com/lib/pq"
)

type taskRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewTaskRepository(db *postgres.DB, logger *logger.Logger) task.Repository {
	return &taskRepository{db: db, logger: logger}
}

type taskRow struct {
	ID              string     `db:"id"`
	ScheduledTaskID string     `db:"scheduled_task_id"`
	ShopID          string     `db:"shop_id"`
	ReportID        *string    `db:"report_id"`
	Status          string     `db:"status"`
	ScheduledFor    time.Time  `db:"scheduled_for"`
	StartedAt       *time.Time `db:"started_at"`
	CompletedAt     *time.Time `db:"completed_at"`
	EmailConfig     []byte     `db:"email_config"`
	ErrorMessage    *string    `db:"error_message"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

func toTaskRow(t *task.Task) (*taskRow, error) {
	var emailConfig []byte
	if t.EmailConfig != nil {
		var err error
		emailConfig, err = json.Marshal(t.EmailConfig)
		if err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to encode email config").
				Mark(ierr.ErrValidation)
		}
	}
	row := &taskRow{
		ID:              t.ID,
		ScheduledTaskID: t.ScheduledTaskID,
		ShopID:          t.ShopID,
		Status:          string(t.Status),
		ScheduledFor:    t.ScheduledFor,
		StartedAt:       t.StartedAt,
		CompletedAt:     t.CompletedAt,
		EmailConfig:     emailConfig,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
	if t.ReportID != "" {
		row.ReportID = &t.ReportID
	}
	if t.ErrorMessage != "" {
		row.ErrorMessage = &t.ErrorMessage
	}
	return row, nil
}

func (row *taskRow) toDomain() (*task.Task, error) {
	var emailConfig map[string]interface{}
	if len(row.EmailConfig) > 0 {
		if err := json.Unmarshal(row.EmailConfig, &emailConfig); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to decode email config").
				Mark(ierr.ErrDatabase)
		}
	}
	t := &task.Task{
		ID:              row.ID,
		ScheduledTaskID: row.ScheduledTaskID,
		ShopID:          row.ShopID,
		Status:          types.TaskStatus(row.Status),
		ScheduledFor:    row.ScheduledFor,
		StartedAt:       row.StartedAt,
		CompletedAt:     row.CompletedAt,
		EmailConfig:     emailConfig,
		CreatedAt:       row.CreatedAt,
		UpdatedAt:       row.UpdatedAt,
	}
	if row.ReportID != nil {
		t.ReportID = *row.ReportID
	}
	if row.ErrorMessage != nil {
		t.ErrorMessage = *row.ErrorMessage
	}
	return t, nil
}

func (r *taskRepository) Create(ctx context.Context, t *task.Task) error {
	row, err := toTaskRow(t)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO tasks (
			id, scheduled_task_id, shop_id, report_id, status, scheduled_for,
			started_at, completed_at, email_config, error_message,
			created_at, updated_at
		) VALUES (
			:id, :scheduled_task_id, :shop_id, :report_id, :status, :scheduled_for,
			:started_at, :completed_at, :email_config, :error_message,
			:created_at, :updated_at
		)`

	r.logger.Debugw("creating task",
		"task_id", t.ID,
		"scheduled_task_id", t.ScheduledTaskID,
		"shop_id", t.ShopID,
	)

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create task").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *taskRepository) Get(ctx context.Context, id string) (*task.Task, error) {
	rows, err := r.db.NamedQueryContext(ctx, "SELECT * FROM tasks WHERE id = :id", map[string]interface{}{
		"id": id,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get task").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewErrorf("task %s not found", id).
			Mark(ierr.ErrNotFound)
	}
	var row taskRow
	if err := rows.StructScan(&row); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan task").
			Mark(ierr.ErrDatabase)
	}
	return row.toDomain()
}

func (r *taskRepository) Update(ctx context.Context, t *task.Task) error {
	row, err := toTaskRow(t)
	if err != nil {
		return err
	}

	query := `
		UPDATE tasks SET
			report_id = :report_id,
			status = :status,
			started_at = :started_at,
			completed_at = :completed_at,
			error_message = :error_message,
			updated_at = :updated_at
		WHERE id = :id`

	if _, err := r.db.NamedExecContext(ctx, query, row); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update task").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *taskRepository) List(ctx context.Context, filter *types.TaskFilter) ([]*task.Task, error) {
	query, params := taskFilterQuery("SELECT *", filter)
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT :limit OFFSET :offset`
		params["limit"] = filter.Limit
		params["offset"] = filter.Offset
	}

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list tasks").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var out []*task.Task
	for rows.Next() {
		var row taskRow
		if err := rows.StructScan(&row); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan task").
				Mark(ierr.ErrDatabase)
		}
		t, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *taskRepository) Count(ctx context.Context, filter *types.TaskFilter) (int, error) {
	query, params := taskFilterQuery("SELECT COUNT(*)", filter)

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count tasks").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var count int
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, ierr.WithError(err).
				WithHint("Failed to scan task count").
				Mark(ierr.ErrDatabase)
		}
	}
	return count, nil
}

func taskFilterQuery(selectClause string, filter *types.TaskFilter) (string, map[string]interface{}) {
	query := selectClause + ` FROM tasks WHERE 1=1`
	params := map[string]interface{}{}
	if filter.ShopID != "" {
		query += ` AND shop_id = :shop_id`
		params["shop_id"] = filter.ShopID
	}
	if filter.ScheduledTaskID != "" {
		query += ` AND scheduled_task_id = :scheduled_task_id`
		params["scheduled_task_id"] = filter.ScheduledTaskID
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, s := range filter.Statuses {
			statuses[i] = string(s)
		}
		query += ` AND status = ANY(:statuses)`
		params["statuses"] = pq.Array(statuses)
	}
	return query, params
}

// ClaimNextPending transitions the oldest pending task to running in one
// statement. The compare-and-set in the WHERE clause means two workers
// racing for the same row leave exactly one winner; the loser's subquery
// re-evaluates and either claims a different row or none.
func (r *taskRepository) ClaimNextPending(ctx context.Context) (*task.Task, error) {
	query := `
		UPDATE tasks SET
			status = 'running',
			started_at = now(),
			updated_at = now()
		WHERE id = (
			SELECT id FROM tasks
			WHERE status = 'pending'
			ORDER BY created_at
			FOR UPDATE SKIP LOCKED
			LIMIT 1
		) AND status = 'pending'
		RETURNING *`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to claim pending task").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, nil
	}
	var row taskRow
	if err := rows.StructScan(&row); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan claimed task").
			Mark(ierr.ErrDatabase)
	}

	t, err := row.toDomain()
	if err != nil {
		return nil, err
	}
	r.logger.Debugw("claimed task", "task_id", t.ID, "shop_id", t.ShopID)
	return t, nil
}

func (r *taskRepository) HasInFlight(ctx context.Context, scheduledTaskID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM tasks
			WHERE scheduled_task_id = :scheduled_task_id
			AND status IN ('pending', 'running')
		)`

	rows, err := r.db.NamedQueryContext(ctx, query, map[string]interface{}{
		"scheduled_task_id": scheduledTaskID,
	})
	if err != nil {
		return false, ierr.WithError(err).
			WithHint("Failed to check in-flight tasks").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var exists bool
	if rows.Next() {
		if err := rows.Scan(&exists); err != nil {
			return false, ierr.WithError(err).
				WithHint("Failed to scan in-flight check").
				Mark(ierr.ErrDatabase)
		}
	}
	return exists, nil
}
