package service

import (
	"context"

	"github.com/fiscalflow/fiscalflow/internal/artifact"
	"github.com/fiscalflow/fiscalflow/internal/cache"
	"github.com/fiscalflow/fiscalflow/internal/clock"
	"github.com/fiscalflow/fiscalflow/internal/config"
	"github.com/fiscalflow/fiscalflow/internal/delivery"
	"github.com/fiscalflow/fiscalflow/internal/domain/fiscalconfig"
	"github.com/fiscalflow/fiscalflow/internal/domain/ftpconfig"
	"github.com/fiscalflow/fiscalflow/internal/domain/report"
	"github.com/fiscalflow/fiscalflow/internal/domain/scheduledtask"
	"github.com/fiscalflow/fiscalflow/internal/domain/settings"
	"github.com/fiscalflow/fiscalflow/internal/domain/shop"
	"github.com/fiscalflow/fiscalflow/internal/domain/task"
	"github.com/fiscalflow/fiscalflow/internal/logger"
	"github.com/fiscalflow/fiscalflow/internal/render"
)

// TxRunner scopes a function to one storage transaction. Implementations
// without transactional storage may run the function directly.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// NoopTxRunner runs the function without a transaction. Used with the
// in-memory repositories.
type NoopTxRunner struct{}

func (NoopTxRunner) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger    *logger.Logger
	Config    *config.Configuration
	Clock     clock.Clock
	Cache     cache.Cache
	Tx        TxRunner
	Registry  *render.Registry
	Delivery  delivery.Client
	Artifacts artifact.Store

	// Repositories
	ShopRepo          shop.Repository
	FiscalConfigRepo  fiscalconfig.Repository
	SettingsRepo      settings.Repository
	FtpConfigRepo     ftpconfig.Repository
	ScheduledTaskRepo scheduledtask.Repository
	TaskRepo          task.Repository
	ReportRepo        report.Repository
}

// NewServiceParams assembles the common dependency bundle the service
// constructors share. Wired through fx in cmd/worker.
func NewServiceParams(
	logger *logger.Logger,
	config *config.Configuration,
	clock clock.Clock,
	cache cache.Cache,
	tx TxRunner,
	registry *render.Registry,
	deliveryClient delivery.Client,
	artifacts artifact.Store,
	shopRepo shop.Repository,
	fiscalConfigRepo fiscalconfig.Repository,
	settingsRepo settings.Repository,
	ftpConfigRepo ftpconfig.Repository,
	scheduledTaskRepo scheduledtask.Repository,
	taskRepo task.Repository,
	reportRepo report.Repository,
) ServiceParams {
	return ServiceParams{
		Logger:            logger,
		Config:            config,
		Clock:             clock,
		Cache:             cache,
		Tx:                tx,
		Registry:          registry,
		Delivery:          deliveryClient,
		Artifacts:         artifacts,
		ShopRepo:          shopRepo,
		FiscalConfigRepo:  fiscalConfigRepo,
		SettingsRepo:      settingsRepo,
		FtpConfigRepo:     ftpConfigRepo,
		ScheduledTaskRepo: scheduledTaskRepo,
		TaskRepo:          taskRepo,
		ReportRepo:        reportRepo,
	}
}
