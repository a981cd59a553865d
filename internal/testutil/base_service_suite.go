package testutil

import (
	"context"
	"time"

	"github.com/fiscalflow/fiscalflow/internal/clock"
	"github.com/fiscalflow/fiscalflow/internal/config"
	"github.com/fiscalflow/fiscalflow/internal/domain/fiscalconfig"
	"github.com/fiscalflow/fiscalflow/internal/domain/ftpconfig"
	"github.com/fiscalflow/fiscalflow/internal/domain/report"
	"github.com/fiscalflow/fiscalflow/internal/domain/scheduledtask"
	"github.com/fiscalflow/fiscalflow/internal/domain/settings"
	"github.com/fiscalflow/fiscalflow/internal/domain/shop"
	"github.com/fiscalflow/fiscalflow/internal/domain/task"
	"github.com/fiscalflow/fiscalflow/internal/logger"
	"github.com/fiscalflow/fiscalflow/internal/types"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	ShopRepo          shop.Repository
	FiscalConfigRepo  fiscalconfig.Repository
	SettingsRepo      settings.Repository
	FtpConfigRepo     ftpconfig.Repository
	ScheduledTaskRepo scheduledtask.Repository
	TaskRepo          task.Repository
	ReportRepo        report.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	logger *logger.Logger
	clock  *clock.Mock
	config *config.Configuration
}

// SetupTest initializes fresh stores, a frozen clock and a shop context.
func (s *BaseServiceTestSuite) SetupTest() {
	s.ctx = types.SetShopID(context.Background(), "shop_test")
	s.logger = logger.NewNopLogger()
	s.clock = clock.NewMock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.config = config.GetDefaultConfig()
	s.stores = Stores{
		ShopRepo:          NewInMemoryShopStore(),
		FiscalConfigRepo:  NewInMemoryFiscalConfigStore(),
		SettingsRepo:      NewInMemorySettingsStore(),
		FtpConfigRepo:     NewInMemoryFtpConfigStore(),
		ScheduledTaskRepo: NewInMemoryScheduledTaskStore(),
		TaskRepo:          NewInMemoryTaskStore(),
		ReportRepo:        NewInMemoryReportStore(),
	}
}

func (s *BaseServiceTestSuite) TearDownTest() {}

func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

func (s *BaseServiceTestSuite) GetClock() *clock.Mock {
	return s.clock
}

func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}
