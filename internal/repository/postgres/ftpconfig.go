package postgres

import (
	"context"

	"github.com/fiscalflow/fiscalflow/internal/domain/ftpconfig"
	ierr "github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/fiscalflow/fiscalflow/internal/logger"
	"github.com/fiscalflow/fiscalflow/internal/postgres"
)

type ftpConfigRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewFtpConfigRepository(db *postgres.DB, logger *logger.Logger) ftpconfig.Repository {
	return &ftpConfigRepository{db: db, logger: logger}
}

func (r *ftpConfigRepository) Create(ctx context.Context, c *ftpconfig.FtpConfig) error {
	query := `
		INSERT INTO ftp_configurations (
			id, shop_id, host, port, protocol, username, password,
			directory, passive_mode, retry_delay, status, created_at, updated_at
		) VALUES (
			:id, :shop_id, :host, :port, :protocol, :username, :password,
			:directory, :passive_mode, :retry_delay, :status, :created_at, :updated_at
		)`

	// Redacted() keeps the password out of the logs.
	r.logger.Debugw("creating ftp configuration",
		"ftp_config_id", c.ID,
		"shop_id", c.ShopID,
		"destination", c.Redacted(),
	)

	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create delivery destination").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *ftpConfigRepository) GetByShop(ctx context.Context, shopID string) (*ftpconfig.FtpConfig, error) {
	rows, err := r.db.NamedQueryContext(ctx,
		"SELECT * FROM ftp_configurations WHERE shop_id = :shop_id AND status = 'active'",
		map[string]interface{}{"shop_id": shopID})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get delivery destination").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewErrorf("no delivery destination for shop %s", shopID).
			Mark(ierr.ErrNotFound)
	}
	var c ftpconfig.FtpConfig
	if err := rows.StructScan(&c); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan delivery destination").
			Mark(ierr.ErrDatabase)
	}
	return &c, nil
}

func (r *ftpConfigRepository) Update(ctx context.Context, c *ftpconfig.FtpConfig) error {
	query := `
		UPDATE ftp_configurations SET
			host = :host,
			port = :port,
			protocol = :protocol,
			username = :username,
			password = :password,
			directory = :directory,
			passive_mode = :passive_mode,
			retry_delay = :retry_delay,
			status = :status,
			updated_at = :updated_at
		WHERE id = :id`

	if _, err := r.db.NamedExecContext(ctx, query, c); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update delivery destination").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *ftpConfigRepository) Delete(ctx context.Context, id string) error {
	query := `
		UPDATE ftp_configurations SET
			status = 'deleted',
			updated_at = now()
		WHERE id = :id`

	r.logger.Debugw("deleting ftp configuration", "ftp_config_id", id)

	if _, err := r.db.NamedExecContext(ctx, query, map[string]interface{}{
		"id": id,
	}); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete delivery destination").
			Mark(ierr.ErrDatabase)
	}
	return nil
}
