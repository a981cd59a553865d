package service

import (
	"context"

	"github.com/fiscalflow/fiscalflow/internal/cache"
	"github.com/fiscalflow/fiscalflow/internal/domain/fiscalconfig"
	"github.com/fiscalflow/fiscalflow/internal/domain/ftpconfig"
	"github.com/fiscalflow/fiscalflow/internal/domain/settings"
	"github.com/fiscalflow/fiscalflow/internal/domain/shop"
	ierr "github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/fiscalflow/fiscalflow/internal/types"
	"github.com/fiscalflow/fiscalflow/internal/validator"
)

// CreateShopRequest onboards a new tenant.
type CreateShopRequest struct {
	ShopifyDomain string `json:"shopify_domain" validate:"required"`
	AccessToken   string `json:"access_token" validate:"required"`
}

// ShopService manages tenants and their per-shop configuration.
type ShopService interface {
	Create(ctx context.Context, req CreateShopRequest) (*shop.Shop, error)
	Get(ctx context.Context, id string) (*shop.Shop, error)
	GetByDomain(ctx context.Context, shopifyDomain string) (*shop.Shop, error)

	UpsertFiscalConfig(ctx context.Context, cfg *fiscalconfig.FiscalConfiguration) (*fiscalconfig.FiscalConfiguration, error)
	UpsertSettings(ctx context.Context, gs *settings.GeneralSettings) (*settings.GeneralSettings, error)
	UpsertFtpConfig(ctx context.Context, cfg *ftpconfig.FtpConfig) (*ftpconfig.FtpConfig, error)
	RemoveFtpConfig(ctx context.Context) error
}

type shopService struct {
	ServiceParams
}

func NewShopService(params ServiceParams) ShopService {
	return &shopService{ServiceParams: params}
}

func (s *shopService) Create(ctx context.Context, req CreateShopRequest) (*shop.Shop, error) {
	if err := validator.ValidateRequest(req); err != nil {
		return nil, err
	}

	if existing, err := s.ShopRepo.GetByDomain(ctx, req.ShopifyDomain); err == nil && existing != nil {
		return nil, ierr.NewErrorf("shop %s already exists", req.ShopifyDomain).
			WithHint("A shop with this domain is already onboarded").
			Mark(ierr.ErrAlreadyExists)
	}

	now := s.Clock.Now()
	sh := &shop.Shop{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_SHOP),
		ShopifyDomain: req.ShopifyDomain,
		AccessToken:   req.AccessToken,
		Status:        types.StatusActive,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := sh.Validate(); err != nil {
		return nil, err
	}
	if err := s.ShopRepo.Create(ctx, sh); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to create shop").
			Mark(ierr.ErrDatabase)
	}

	s.Logger.Infow("onboarded shop", "shop_id", sh.ID, "domain", sh.ShopifyDomain)
	return sh, nil
}

func (s *shopService) Get(ctx context.Context, id string) (*shop.Shop, error) {
	return s.ShopRepo.Get(ctx, id)
}

func (s *shopService) GetByDomain(ctx context.Context, shopifyDomain string) (*shop.Shop, error) {
	return s.ShopRepo.GetByDomain(ctx, shopifyDomain)
}

// UpsertFiscalConfig installs or replaces the shop's fiscal configuration
// and invalidates its cache entry so running executors pick it up.
func (s *shopService) UpsertFiscalConfig(ctx context.Context, cfg *fiscalconfig.FiscalConfiguration) (*fiscalconfig.FiscalConfiguration, error) {
	if err := types.ValidateShopContext(ctx); err != nil {
		return nil, err
	}
	shopID := types.GetShopID(ctx)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.FiscalConfigRepo.GetByShop(ctx, shopID)
	switch {
	case err == nil:
		cfg.ID = existing.ID
		cfg.BaseModel = existing.BaseModel
		cfg.UpdatedAt = s.Clock.Now()
		err = s.FiscalConfigRepo.Update(ctx, cfg)
	case ierr.IsNotFound(err):
		cfg.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_FISCAL_CONFIG)
		cfg.BaseModel = types.GetDefaultBaseModel(ctx)
		err = s.FiscalConfigRepo.Create(ctx, cfg)
	default:
		return nil, err
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to save fiscal configuration").
			Mark(ierr.ErrDatabase)
	}

	s.Cache.Delete(ctx, cache.FiscalConfigKey(shopID))
	return cfg, nil
}

func (s *shopService) UpsertSettings(ctx context.Context, gs *settings.GeneralSettings) (*settings.GeneralSettings, error) {
	if err := types.ValidateShopContext(ctx); err != nil {
		return nil, err
	}
	shopID := types.GetShopID(ctx)
	if _, err := gs.Location(); err != nil {
		return nil, err
	}

	existing, err := s.SettingsRepo.GetByShop(ctx, shopID)
	switch {
	case err == nil:
		gs.ID = existing.ID
		gs.BaseModel = existing.BaseModel
		gs.UpdatedAt = s.Clock.Now()
		err = s.SettingsRepo.Update(ctx, gs)
	case ierr.IsNotFound(err):
		gs.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_GENERAL_SETTINGS)
		gs.BaseModel = types.GetDefaultBaseModel(ctx)
		err = s.SettingsRepo.Create(ctx, gs)
	default:
		return nil, err
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to save settings").
			Mark(ierr.ErrDatabase)
	}

	s.Cache.Delete(ctx, cache.SettingsKey(shopID))
	return gs, nil
}

func (s *shopService) UpsertFtpConfig(ctx context.Context, cfg *ftpconfig.FtpConfig) (*ftpconfig.FtpConfig, error) {
	if err := types.ValidateShopContext(ctx); err != nil {
		return nil, err
	}
	shopID := types.GetShopID(ctx)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.FtpConfigRepo.GetByShop(ctx, shopID)
	switch {
	case err == nil:
		cfg.ID = existing.ID
		cfg.BaseModel = existing.BaseModel
		cfg.UpdatedAt = s.Clock.Now()
		err = s.FtpConfigRepo.Update(ctx, cfg)
	case ierr.IsNotFound(err):
		cfg.ID = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_FTP_CONFIG)
		cfg.BaseModel = types.GetDefaultBaseModel(ctx)
		err = s.FtpConfigRepo.Create(ctx, cfg)
	default:
		return nil, err
	}
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to save delivery destination").
			Mark(ierr.ErrDatabase)
	}

	s.Cache.Delete(ctx, cache.FtpConfigKey(shopID))
	return cfg, nil
}

// RemoveFtpConfig detaches the shop's delivery destination. Future reports
// are still generated but no longer shipped anywhere.
func (s *shopService) RemoveFtpConfig(ctx context.Context) error {
	if err := types.ValidateShopContext(ctx); err != nil {
		return err
	}
	shopID := types.GetShopID(ctx)
	cfg, err := s.FtpConfigRepo.GetByShop(ctx, shopID)
	if err != nil {
		return err
	}
	if err := s.FtpConfigRepo.Delete(ctx, cfg.ID); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to remove delivery destination").
			Mark(ierr.ErrDatabase)
	}
	s.Cache.Delete(ctx, cache.FtpConfigKey(shopID))
	return nil
}
