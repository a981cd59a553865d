package repository

import (
	"github.com/fiscalflow/fiscalflow/internal/domain/fiscalconfig"
	"github.com/fiscalflow/fiscalflow/internal/domain/ftpconfig"
	"github.com/fiscalflow/fiscalflow/internal/domain/report"
	"github.com/fiscalflow/fiscalflow/internal/domain/scheduledtask"
	"github.com/fiscalflow/fiscalflow/internal/domain/settings"
	"github.com/fiscalflow/fiscalflow/internal/domain/shop"
	"github.com/fiscalflow/fiscalflow/internal/domain/task"
	"github.com/fiscalflow/fiscalflow/internal/logger"
	"github.com/fiscalflow/fiscalflow/internal/postgres"
	"github.com/fiscalflow/fiscalflow/internal/render"
	postgresRepo "github.com/fiscalflow/fiscalflow/internal/repository/postgres"
)

func NewShopRepository(db *postgres.DB, logger *logger.Logger) shop.Repository {
	return postgresRepo.NewShopRepository(db, logger)
}

func NewFiscalConfigRepository(db *postgres.DB, logger *logger.Logger) fiscalconfig.Repository {
	return postgresRepo.NewFiscalConfigRepository(db, logger)
}

func NewSettingsRepository(db *postgres.DB, logger *logger.Logger) settings.Repository {
	return postgresRepo.NewSettingsRepository(db, logger)
}

func NewFtpConfigRepository(db *postgres.DB, logger *logger.Logger) ftpconfig.Repository {
	return postgresRepo.NewFtpConfigRepository(db, logger)
}

func NewScheduledTaskRepository(db *postgres.DB, logger *logger.Logger) scheduledtask.Repository {
	return postgresRepo.NewScheduledTaskRepository(db, logger)
}

func NewTaskRepository(db *postgres.DB, logger *logger.Logger) task.Repository {
	return postgresRepo.NewTaskRepository(db, logger)
}

func NewReportRepository(db *postgres.DB, logger *logger.Logger) report.Repository {
	return postgresRepo.NewReportRepository(db, logger)
}

func NewEntryDataSource(db *postgres.DB, logger *logger.Logger) render.DataSource {
	return postgresRepo.NewEntryDataSource(db, logger)
}
