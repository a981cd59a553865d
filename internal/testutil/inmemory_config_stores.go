package testutil

import (
	"context"
	"fmt"

	"github.com/fiscalflow/fiscalflow/internal/domain/fiscalconfig"
	"github.com/fiscalflow/fiscalflow/internal/domain/ftpconfig"
	"github.com/fiscalflow/fiscalflow/internal/domain/settings"
	"github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/fiscalflow/fiscalflow/internal/types"
)

// InMemoryFiscalConfigStore implements fiscalconfig.Repository
type InMemoryFiscalConfigStore struct {
	*InMemoryStore[*fiscalconfig.FiscalConfiguration]
}

func NewInMemoryFiscalConfigStore() *InMemoryFiscalConfigStore {
	return &InMemoryFiscalConfigStore{
		InMemoryStore: NewInMemoryStore[*fiscalconfig.FiscalConfiguration](),
	}
}

func copyFiscalConfig(c *fiscalconfig.FiscalConfiguration) *fiscalconfig.FiscalConfiguration {
	if c == nil {
		return nil
	}
	out := *c
	out.Countries = append([]string(nil), c.Countries...)
	out.RequiredColumns = append([]string(nil), c.RequiredColumns...)
	out.CompatibleSoftware = append([]string(nil), c.CompatibleSoftware...)
	out.ExportFormats = append([]types.ExportFormat(nil), c.ExportFormats...)
	return &out
}

func (s *InMemoryFiscalConfigStore) Create(ctx context.Context, c *fiscalconfig.FiscalConfiguration) error {
	if c == nil {
		return fmt.Errorf("fiscal configuration cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, c.ID, copyFiscalConfig(c))
}

func (s *InMemoryFiscalConfigStore) GetByShop(ctx context.Context, shopID string) (*fiscalconfig.FiscalConfiguration, error) {
	configs, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, c *fiscalconfig.FiscalConfiguration, _ interface{}) bool {
		return c.ShopID == shopID
	}, nil)
	if err != nil || len(configs) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "fiscal configuration not found")
	}
	return copyFiscalConfig(configs[0]), nil
}

func (s *InMemoryFiscalConfigStore) Update(ctx context.Context, c *fiscalconfig.FiscalConfiguration) error {
	if c == nil {
		return fmt.Errorf("fiscal configuration cannot be nil")
	}
	return s.InMemoryStore.Update(ctx, c.ID, copyFiscalConfig(c))
}

func (s *InMemoryFiscalConfigStore) Delete(ctx context.Context, id string) error {
	return s.InMemoryStore.Delete(ctx, id)
}

// InMemorySettingsStore implements settings.Repository
type InMemorySettingsStore struct {
	*InMemoryStore[*settings.GeneralSettings]
}

func NewInMemorySettingsStore() *InMemorySettingsStore {
	return &InMemorySettingsStore{
		InMemoryStore: NewInMemoryStore[*settings.GeneralSettings](),
	}
}

func copySettings(s *settings.GeneralSettings) *settings.GeneralSettings {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}

func (s *InMemorySettingsStore) Create(ctx context.Context, gs *settings.GeneralSettings) error {
	if gs == nil {
		return fmt.Errorf("settings cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, gs.ID, copySettings(gs))
}

func (s *InMemorySettingsStore) GetByShop(ctx context.Context, shopID string) (*settings.GeneralSettings, error) {
	items, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, gs *settings.GeneralSettings, _ interface{}) bool {
		return gs.ShopID == shopID
	}, nil)
	if err != nil || len(items) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "general settings not found")
	}
	return copySettings(items[0]), nil
}

func (s *InMemorySettingsStore) Update(ctx context.Context, gs *settings.GeneralSettings) error {
	if gs == nil {
		return fmt.Errorf("settings cannot be nil")
	}
	return s.InMemoryStore.Update(ctx, gs.ID, copySettings(gs))
}

// InMemoryFtpConfigStore implements ftpconfig.Repository
type InMemoryFtpConfigStore struct {
	*InMemoryStore[*ftpconfig.FtpConfig]
}

func NewInMemoryFtpConfigStore() *InMemoryFtpConfigStore {
	return &InMemoryFtpConfigStore{
		InMemoryStore: NewInMemoryStore[*ftpconfig.FtpConfig](),
	}
}

func copyFtpConfig(c *ftpconfig.FtpConfig) *ftpconfig.FtpConfig {
	if c == nil {
		return nil
	}
	out := *c
	if c.RetryDelaySeconds != nil {
		v := *c.RetryDelaySeconds
		out.RetryDelaySeconds = &v
	}
	return &out
}

func (s *InMemoryFtpConfigStore) Create(ctx context.Context, c *ftpconfig.FtpConfig) error {
	if c == nil {
		return fmt.Errorf("ftp configuration cannot be nil")
	}
	return s.InMemoryStore.Create(ctx, c.ID, copyFtpConfig(c))
}

func (s *InMemoryFtpConfigStore) GetByShop(ctx context.Context, shopID string) (*ftpconfig.FtpConfig, error) {
	items, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, c *ftpconfig.FtpConfig, _ interface{}) bool {
		return c.ShopID == shopID
	}, nil)
	if err != nil || len(items) == 0 {
		return nil, errors.New(errors.ErrCodeNotFound, "ftp configuration not found")
	}
	return copyFtpConfig(items[0]), nil
}

func (s *InMemoryFtpConfigStore) Update(ctx context.Context, c *ftpconfig.FtpConfig) error {
	if c == nil {
		return fmt.Errorf("ftp configuration cannot be nil")
	}
	return s.InMemoryStore.Update(ctx, c.ID, copyFtpConfig(c))
}

func (s *InMemoryFtpConfigStore) Delete(ctx context.Context, id string) error {
	return s.InMemoryStore.Delete(ctx, id)
}
