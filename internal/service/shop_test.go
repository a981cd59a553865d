package service

import (
	"testing"

	"github.com/fiscalflow/fiscalflow/internal/cache"
	"github.com/fiscalflow/fiscalflow/internal/domain/fiscalconfig"
	"github.com/fiscalflow/fiscalflow/internal/domain/ftpconfig"
	"github.com/fiscalflow/fiscalflow/internal/domain/settings"
	ierr "github.com/fiscalflow/fiscalflow/internal/errors"
	"github.com/fiscalflow/fiscalflow/internal/testutil"
	"github.com/fiscalflow/fiscalflow/internal/types"
	"github.com/stretchr/testify/suite"
)

type ShopServiceSuite struct {
	testutil.BaseServiceTestSuite
	service ShopService
	params  ServiceParams
}

func TestShopService(t *testing.T) {
	suite.Run(t, new(ShopServiceSuite))
}

func (s *ShopServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()

	stores := s.GetStores()
	s.params = ServiceParams{
		Logger:            s.GetLogger(),
		Config:            s.GetConfig(),
		Clock:             s.GetClock(),
		Cache:             cache.NewInMemoryCache(),
		Tx:                NoopTxRunner{},
		ShopRepo:          stores.ShopRepo,
		FiscalConfigRepo:  stores.FiscalConfigRepo,
		SettingsRepo:      stores.SettingsRepo,
		FtpConfigRepo:     stores.FtpConfigRepo,
		ScheduledTaskRepo: stores.ScheduledTaskRepo,
		TaskRepo:          stores.TaskRepo,
		ReportRepo:        stores.ReportRepo,
	}
	s.service = NewShopService(s.params)
}

func (s *ShopServiceSuite) TestCreateShop() {
	sh, err := s.service.Create(s.GetContext(), CreateShopRequest{
		ShopifyDomain: "acme.myshopify.com",
		AccessToken:   "token",
	})
	s.NoError(err)
	s.Equal(types.StatusActive, sh.Status)

	byDomain, err := s.service.GetByDomain(s.GetContext(), "acme.myshopify.com")
	s.NoError(err)
	s.Equal(sh.ID, byDomain.ID)
}

func (s *ShopServiceSuite) TestCreateDuplicateDomain() {
	_, err := s.service.Create(s.GetContext(), CreateShopRequest{
		ShopifyDomain: "acme.myshopify.com",
		AccessToken:   "token",
	})
	s.NoError(err)

	_, err = s.service.Create(s.GetContext(), CreateShopRequest{
		ShopifyDomain: "acme.myshopify.com",
		AccessToken:   "token2",
	})
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *ShopServiceSuite) TestUpsertFiscalConfigCreatesThenUpdates() {
	cfg := &fiscalconfig.FiscalConfiguration{
		Code:            "fr-fec",
		Name:            "FEC",
		Currency:        "EUR",
		RequiredColumns: []string{"order_id", "date", "gross_amount"},
		DefaultFormat:   types.ExportFormatCSV,
	}
	created, err := s.service.UpsertFiscalConfig(s.GetContext(), cfg)
	s.NoError(err)
	s.NotEmpty(created.ID)
	s.Equal("shop_test", created.ShopID)

	cfg2 := &fiscalconfig.FiscalConfiguration{
		Code:            "fr-fec",
		Name:            "FEC",
		Currency:        "EUR",
		RequiredColumns: []string{"order_id", "date", "gross_amount"},
		DefaultFormat:   types.ExportFormatXML,
	}
	updated, err := s.service.UpsertFiscalConfig(s.GetContext(), cfg2)
	s.NoError(err)
	s.Equal(created.ID, updated.ID)

	stored, err := s.params.FiscalConfigRepo.GetByShop(s.GetContext(), "shop_test")
	s.NoError(err)
	s.Equal(types.ExportFormatXML, stored.DefaultFormat)
}

func (s *ShopServiceSuite) TestUpsertSettingsRejectsBadTimezone() {
	_, err := s.service.UpsertSettings(s.GetContext(), &settings.GeneralSettings{
		Timezone: "Mars/Olympus",
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *ShopServiceSuite) TestFtpConfigLifecycle() {
	cfg := &ftpconfig.FtpConfig{
		Host:     "ftp.example.com",
		Port:     21,
		Protocol: types.DeliveryProtocolFTP,
		Username: "merchant",
		Password: "secret",
	}
	created, err := s.service.UpsertFtpConfig(s.GetContext(), cfg)
	s.NoError(err)
	s.NotEmpty(created.ID)

	s.NoError(s.service.RemoveFtpConfig(s.GetContext()))

	_, err = s.params.FtpConfigRepo.GetByShop(s.GetContext(), "shop_test")
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}
