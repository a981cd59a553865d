package fiscalconfig

import "context"

// Repository defines the interface for fiscal configuration persistence operations
type Repository interface {
	Create(ctx context.Context, config *FiscalConfiguration) error
	// GetByShop returns the shop's fiscal configuration or ErrNotFound.
	GetByShop(ctx context.Context, shopID string) (*FiscalConfiguration, error)
	Update(ctx context.Context, config *FiscalConfiguration) error
	Delete(ctx context.Context, id string) error
}
