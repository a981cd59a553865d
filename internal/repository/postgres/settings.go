package postgres

import (
	"context"

	"github.com/fiscalflow/fiscalflow/internal/domain/settings"
	ierr "github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/fiscalflow/fiscalflow/internal/logger"
	"github.com/fiscalflow/fiscalflow/internal/postgres"
)

type settingsRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewSettingsRepository(db *postgres.DB, logger *logger.Logger) settings.Repository {
	return &settingsRepository{db: db, logger: logger}
}

func (r *settingsRepository) Create(ctx context.Context, gs *settings.GeneralSettings) error {
	query := `
		INSERT INTO general_settings (
			id, shop_id, timezone, language, sales_account,
			status, created_at, updated_at
		) VALUES (
			:id, :shop_id, :timezone, :language, :sales_account,
			:status, :created_at, :updated_at
		)`

	r.logger.Debugw("creating general settings",
		"settings_id", gs.ID,
		"shop_id", gs.ShopID,
	)

	if _, err := r.db.NamedExecContext(ctx, query, gs); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create settings").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *settingsRepository) GetByShop(ctx context.Context, shopID string) (*settings.GeneralSettings, error) {
	rows, err := r.db.NamedQueryContext(ctx,
		"SELECT * FROM general_settings WHERE shop_id = :shop_id AND status = 'active'",
		map[string]interface{}{"shop_id": shopID})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get settings").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewErrorf("no settings for shop %s", shopID).
			Mark(ierr.ErrNotFound)
	}
	var gs settings.GeneralSettings
	if err := rows.StructScan(&gs); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan settings").
			Mark(ierr.ErrDatabase)
	}
	return &gs, nil
}

func (r *settingsRepository) Update(ctx context.Context, gs *settings.GeneralSettings) error {
	query := `
		UPDATE general_settings SET
			timezone = :timezone,
			language = :language,
			sales_account = :sales_account,
			status = :status,
			updated_at = :updated_at
		WHERE id = :id`

	if _, err := r.db.NamedExecContext(ctx, query, gs); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update settings").
			Mark(ierr.ErrDatabase)
	}
	return nil
}
