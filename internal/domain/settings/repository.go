package settings

import "context"

// Repository defines the interface for general settings persistence operations
type Repository interface {
	Create(ctx context.Context, settings *GeneralSettings) error
	// GetByShop returns the shop's settings or ErrNotFound.
	GetByShop(ctx context.Context, shopID string) (*GeneralSettings, error)
	Update(ctx context.Context, settings *GeneralSettings) error
}
