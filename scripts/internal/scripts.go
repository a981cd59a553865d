package internal

import (
	"github.com/fiscalflow/fiscalflow/internal/artifact"
	"github.com/fiscalflow/fiscalflow/internal/cache"
	"github.com/fiscalflow/fiscalflow/internal/clock"
	"github.com/fiscalflow/fiscalflow/internal/config"
	"github.com/fiscalflow/fiscalflow/internal/logger"
	pg "github.com/fiscalflow/fiscalflow/internal/postgres"
	"github.com/fiscalflow/fiscalflow/internal/repository"
	"github.com/fiscalflow/fiscalflow/internal/service"
)

// newServiceParams wires the storage-backed dependencies shared by all
// maintenance scripts.
func newServiceParams() (service.ServiceParams, *pg.DB, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return service.ServiceParams{}, nil, err
	}
	log, err := logger.NewLogger(cfg)
	if err != nil {
		return service.ServiceParams{}, nil, err
	}
	db, err := pg.NewDB(cfg, log)
	if err != nil {
		return service.ServiceParams{}, nil, err
	}

	params := service.ServiceParams{
		Logger:            log,
		Config:            cfg,
		Clock:             clock.New(),
		Cache:             cache.NewInMemoryCache(),
		Tx:                db,
		Artifacts:         artifact.NewLocalStore(cfg.Artifact.BaseDir),
		ShopRepo:          repository.NewShopRepository(db, log),
		FiscalConfigRepo:  repository.NewFiscalConfigRepository(db, log),
		SettingsRepo:      repository.NewSettingsRepository(db, log),
		FtpConfigRepo:     repository.NewFtpConfigRepository(db, log),
		ScheduledTaskRepo: repository.NewScheduledTaskRepository(db, log),
		TaskRepo:          repository.NewTaskRepository(db, log),
		ReportRepo:        repository.NewReportRepository(db, log),
	}
	return params, db, nil
}
