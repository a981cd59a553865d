package ftpconfig

import "context"

// Repository defines the interface for FTP configuration persistence operations
type Repository interface {
	Create(ctx context.Context, config *FtpConfig) error
	// GetByShop returns the shop's delivery destination or ErrNotFound.
	GetByShop(ctx context.Context, shopID string) (*FtpConfig, error)
	Update(ctx context.Context, config *FtpConfig) error
	Delete(ctx context.Context, id string) error
}
