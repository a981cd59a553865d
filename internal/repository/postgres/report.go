package postgres

import (
	"context"
	"time"

	"github.com/fiscalflow/fiscalflow/internal/domain/report"
	ierr "github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/fiscalflow/fiscalflow/internal/logger"
	"github.com/fiscalflow/fiscalflow/internal/postgres"
	"github.com/fiscalflow/fiscalflow/internal/types"
	"github.com/lib/pq"
)

type reportRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewReportRepository(db *postgres.DB, logger *logger.Logger) report.Repository {
	return &reportRepository{db: db, logger: logger}
}

type reportRow struct {
	ID                string     `db:"id"`
	ShopID            string     `db:"shop_id"`
	Type              string     `db:"type"`
	DataType          string     `db:"data_type"`
	Status            string     `db:"status"`
	Format            string     `db:"format"`
	StartDate         *time.Time `db:"start_date"`
	EndDate           *time.Time `db:"end_date"`
	FileSize          int64      `db:"file_size"`
	FileName          *string    `db:"file_name"`
	FilePath          *string    `db:"file_path"`
	ErrorMessage      *string    `db:"error_message"`
	DeliveryMethod    string     `db:"delivery_method"`
	FtpDeliveryStatus *string    `db:"ftp_delivery_status"`
	CreatedAt         time.Time  `db:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at"`
}

func toReportRow(rep *report.Report) *reportRow {
	row := &reportRow{
		ID:             rep.ID,
		ShopID:         rep.ShopID,
		Type:           rep.Type,
		DataType:       rep.DataType,
		Status:         string(rep.Status),
		Format:         string(rep.Format),
		StartDate:      rep.StartDate,
		EndDate:        rep.EndDate,
		FileSize:       rep.FileSize,
		DeliveryMethod: string(rep.DeliveryMethod),
		CreatedAt:      rep.CreatedAt,
		UpdatedAt:      rep.UpdatedAt,
	}
	if rep.FileName != "" {
		row.FileName = &rep.FileName
	}
	if rep.FilePath != "" {
		row.FilePath = &rep.FilePath
	}
	if rep.ErrorMessage != "" {
		row.ErrorMessage = &rep.ErrorMessage
	}
	if rep.FtpDeliveryStatus != nil {
		s := string(*rep.FtpDeliveryStatus)
		row.FtpDeliveryStatus = &s
	}
	return row
}

func (row *reportRow) toDomain() *report.Report {
	rep := &report.Report{
		ID:             row.ID,
		ShopID:         row.ShopID,
		Type:           row.Type,
		DataType:       row.DataType,
		Status:         types.ReportStatus(row.Status),
		Format:         types.ExportFormat(row.Format),
		StartDate:      row.StartDate,
		EndDate:        row.EndDate,
		FileSize:       row.FileSize,
		DeliveryMethod: types.DeliveryMethod(row.DeliveryMethod),
		CreatedAt:      row.CreatedAt,
		UpdatedAt:      row.UpdatedAt,
	}
	if row.FileName != nil {
		rep.FileName = *row.FileName
	}
	if row.FilePath != nil {
		rep.FilePath = *row.FilePath
	}
	if row.ErrorMessage != nil {
		rep.ErrorMessage = *row.ErrorMessage
	}
	if row.FtpDeliveryStatus != nil {
		s := types.DeliveryStatus(*row.FtpDeliveryStatus)
		rep.FtpDeliveryStatus = &s
	}
	return rep
}

func (r *reportRepository) Create(ctx context.Context, rep *report.Report) error {
	query := `
		INSERT INTO reports (
			id, shop_id, type, data_type, status, format,
			start_date, end_date, file_size, file_name, file_path,
			error_message, delivery_method, ftp_delivery_status,
			created_at, updated_at
		) VALUES (
			:id, :shop_id, :type, :data_type, :status, :format,
			:start_date, :end_date, :file_size, :file_name, :file_path,
			:error_message, :delivery_method, :ftp_delivery_status,
			:created_at, :updated_at
		)`

	r.logger.Debugw("creating report",
		"report_id", rep.ID,
		"shop_id", rep.ShopID,
		"format", rep.Format,
	)

	if _, err := r.db.NamedExecContext(ctx, query, toReportRow(rep)); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create report").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *reportRepository) Get(ctx context.Context, id string) (*report.Report, error) {
	rows, err := r.db.NamedQueryContext(ctx, "SELECT * FROM reports WHERE id = :id", map[string]interface{}{
		"id": id,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get report").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewErrorf("report %s not found", id).
			Mark(ierr.ErrNotFound)
	}
	var row reportRow
	if err := rows.StructScan(&row); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan report").
			Mark(ierr.ErrDatabase)
	}
	return row.toDomain(), nil
}

func (r *reportRepository) Update(ctx context.Context, rep *report.Report) error {
	query := `
		UPDATE reports SET
			status = :status,
			file_size = :file_size,
			file_name = :file_name,
			file_path = :file_path,
			error_message = :error_message,
			delivery_method = :delivery_method,
			ftp_delivery_status = :ftp_delivery_status,
			updated_at = :updated_at
		WHERE id = :id`

	if _, err := r.db.NamedExecContext(ctx, query, toReportRow(rep)); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update report").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *reportRepository) List(ctx context.Context, filter *types.ReportFilter) ([]*report.Report, error) {
	query, params := reportFilterQuery("SELECT *", filter)
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT :limit OFFSET :offset`
		params["limit"] = filter.Limit
		params["offset"] = filter.Offset
	}

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list reports").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var out []*report.Report
	for rows.Next() {
		var row reportRow
		if err := rows.StructScan(&row); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to scan report").
				Mark(ierr.ErrDatabase)
		}
		out = append(out, row.toDomain())
	}
	return out, nil
}

func (r *reportRepository) Count(ctx context.Context, filter *types.ReportFilter) (int, error) {
	query, params := reportFilterQuery("SELECT COUNT(*)", filter)

	rows, err := r.db.NamedQueryContext(ctx, query, params)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count reports").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	var count int
	if rows.Next() {
		if err := rows.Scan(&count); err != nil {
			return 0, ierr.WithError(err).
				WithHint("Failed to scan report count").
				Mark(ierr.ErrDatabase)
		}
	}
	return count, nil
}

func reportFilterQuery(selectClause string, filter *types.ReportFilter) (string, map[string]interface{}) {
	query := selectClause + ` FROM reports WHERE 1=1`
	params := map[string]interface{}{}
	if filter.ShopID != "" {
		query += ` AND shop_id = :shop_id`
		params["shop_id"] = filter.ShopID
	}
	if filter.Format != "" {
		query += ` AND format = :format`
		params["format"] = filter.Format
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
