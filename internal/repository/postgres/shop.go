package postgres

import (
	"context"

	"github.com/fiscalflow/fiscalflow/internal/domain/shop"
	ierr "github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/fiscalflow/fiscalflow/internal/logger"
	"github.com/fiscalflow/fiscalflow/internal/postgres"
)

type shopRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewShopRepository(db *postgres.DB, logger *logger.Logger) shop.Repository {
	return &shopRepository{db: db, logger: logger}
}

func (r *shopRepository) Create(ctx context.Context, s *shop.Shop) error {
	query := `
		INSERT INTO shops (
			id, shopify_domain, access_token, status, created_at, updated_at
		) VALUES (
			:id, :shopify_domain, :access_token, :status, :created_at, :updated_at
		)`

	r.logger.Debugw("creating shop",
		"shop_id", s.ID,
		"domain", s.ShopifyDomain,
	)

	_, err := r.db.NamedExecContext(ctx, query, s)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to create shop").
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *shopRepository) Get(ctx context.Context, id string) (*shop.Shop, error) {
	var s shop.Shop
	rows, err := r.db.NamedQueryContext(ctx, "SELECT * FROM shops WHERE id = :id", map[string]interface{}{
		"id": id,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get shop").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewErrorf("shop %s not found", id).
			Mark(ierr.ErrNotFound)
	}
	if err := rows.StructScan(&s); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan shop").
			Mark(ierr.ErrDatabase)
	}
	return &s, nil
}

func (r *shopRepository) GetByDomain(ctx context.Context, shopifyDomain string) (*shop.Shop, error) {
	var s shop.Shop
	rows, err := r.db.NamedQueryContext(ctx, "SELECT * FROM shops WHERE shopify_domain = :shopify_domain", map[string]interface{}{
		"shopify_domain": shopifyDomain,
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get shop by domain").
			Mark(ierr.ErrDatabase)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, ierr.NewErrorf("shop %s not found", shopifyDomain).
			Mark(ierr.ErrNotFound)
	}
	if err := rows.StructScan(&s); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to scan shop").
			Mark(ierr.ErrDatabase)
	}
	return &s, nil
}

func (r *shopRepository) Update(ctx context.Context, s *shop.Shop) error {
	query := `
		UPDATE shops SET
			shopify_domain = :shopify_domain,
			access_token = :access_token,
			status = :status,
			updated_at = :updated_at
		WHERE id = :id`

	r.logger.Debugw("updating shop", "shop_id", s.ID)

	_, err := r.db.NamedExecContext(ctx, query, s)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update shop").
			Mark(ierr.ErrDatabase)
	}
	return nil
}
