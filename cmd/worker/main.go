package main

import (
	"context"
	"time"

	"github.com/fiscalflow/fiscalflow/internal/artifact"
	"github.com/fiscalflow/fiscalflow/internal/cache"
	"github.com/fiscalflow/fiscalflow/internal/clock"
	"github.com/fiscalflow/fiscalflow/internal/config"
	"github.com/fiscalflow/fiscalflow/internal/delivery"
	"github.com/fiscalflow/fiscalflow/internal/logger"
	"github.com/fiscalflow/fiscalflow/internal/postgres"
	"github.com/fiscalflow/fiscalflow/internal/render"
	"github.com/fiscalflow/fiscalflow/internal/repository"
	"github.com/fiscalflow/fiscalflow/internal/service"
	"github.com/fiscalflow/fiscalflow/internal/types"
	"go.uber.org/fx"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Clock
			clock.New,

			// Cache
			cache.NewInMemoryCache,

			// Postgres
			postgres.NewDB,
			provideTxRunner,

			// Repositories
			repository.NewShopRepository,
			repository.NewFiscalConfigRepository,
			repository.NewSettingsRepository,
			repository.NewFtpConfigRepository,
			repository.NewScheduledTaskRepository,
			repository.NewTaskRepository,
			repository.NewReportRepository,
			repository.NewEntryDataSource,

			// Rendering and delivery
			render.NewRegistry,
			provideDeliveryClient,
			provideArtifactStore,
		),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,

			service.NewDispatcherService,
			service.NewExecutorService,
		),
	)

	opts = append(opts,
		fx.Invoke(startWorker),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideTxRunner(db *postgres.DB) service.TxRunner {
	return db
}

func provideDeliveryClient(cfg *config.Configuration, log *logger.Logger) delivery.Client {
	return delivery.NewClient(cfg.Delivery, log)
}

func provideArtifactStore(cfg *config.Configuration) artifact.Store {
	return artifact.NewLocalStore(cfg.Artifact.BaseDir)
}

func startWorker(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	dispatcher service.DispatcherService,
	executor service.ExecutorService,
	db *postgres.DB,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal:
		startDispatcher(lc, dispatcher, log)
		startExecutor(lc, executor, log)
	case types.ModeDispatcher:
		startDispatcher(lc, dispatcher, log)
	case types.ModeWorker:
		startExecutor(lc, executor, log)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			db.Close()
			return nil
		},
	})
}

func startDispatcher(lc fx.Lifecycle, dispatcher service.DispatcherService, log *logger.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info("Starting dispatcher...")
			go func() {
				defer close(done)
				if err := dispatcher.Run(ctx); err != nil && ctx.Err() == nil {
					log.Errorw("dispatcher stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			log.Info("Shutting down dispatcher...")
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}

func startExecutor(lc fx.Lifecycle, executor service.ExecutorService, log *logger.Logger) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			log.Info("Starting executor pool...")
			go func() {
				defer close(done)
				if err := executor.Run(ctx); err != nil && ctx.Err() == nil {
					log.Errorw("executor stopped", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			log.Info("Shutting down executor pool...")
			cancel()
			select {
			case <-done:
				return nil
			case <-stopCtx.Done():
				return stopCtx.Err()
			}
		},
	})
}
