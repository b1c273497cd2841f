package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/pharmadash/backend/internal/application/analytics"
	appintegration "github.com/pharmadash/backend/internal/application/integration"
	"github.com/pharmadash/backend/internal/infrastructure/commerce"
	"github.com/pharmadash/backend/internal/infrastructure/config"
	"github.com/pharmadash/backend/internal/infrastructure/logger"
	"github.com/pharmadash/backend/internal/infrastructure/persistence"
	"github.com/pharmadash/backend/internal/infrastructure/rates"
	"github.com/pharmadash/backend/internal/infrastructure/scheduler"
	"github.com/pharmadash/backend/internal/interfaces/http/router"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer log.Sync()

	log.Info("Starting pharmadash backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
	)

	gormLogger := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLogger)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	orderRepo := persistence.NewGormOrderRepository(db.DB)
	productRepo := persistence.NewGormProductRepository(db.DB)
	rateRepo := persistence.NewGormExchangeRateRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Exchange rates refresh at startup; a fetch failure degrades to the
	// latest persisted rate instead of blocking boot.
	if cfg.Rates.SourceURL != "" {
		rateSource := rates.NewHTTPSource(cfg.Rates.SourceURL, cfg.Rates.Timeout)
		initializer := rates.NewInitializer(rateSource, rateRepo, cfg.Rates.BufferPercent, log)
		if err := initializer.Run(ctx); err != nil {
			log.Fatal("Failed to persist exchange rate", zap.Error(err))
		}
	} else {
		log.Warn("No exchange-rate source configured, analytics will use persisted or fallback rates")
	}

	platform, err := commerce.NewClient(&commerce.Config{
		BaseURL: cfg.Commerce.BaseURL,
		Token:   cfg.Commerce.Token,
		Timeout: cfg.Commerce.Timeout,
	}, log)
	if err != nil {
		log.Fatal("Commerce platform misconfigured", zap.Error(err))
	}

	orderSyncer := appintegration.NewOrderSyncer(orderRepo, log)
	productSyncer := appintegration.NewProductSyncer(productRepo, log)
	orchestrator := appintegration.NewSyncOrchestrator(platform, orderSyncer, productSyncer, log)

	syncScheduler, err := scheduler.NewSyncScheduler(orchestrator, cfg.Sync.Schedule, cfg.Sync.Timezone, log)
	if err != nil {
		log.Fatal("Invalid sync schedule", zap.Error(err))
	}
	if cfg.Sync.Enabled {
		if err := syncScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start sync scheduler", zap.Error(err))
		}
		defer syncScheduler.Stop()
	} else {
		log.Warn("Scheduled sync disabled, only manual triggers will run")
	}

	engine := analytics.NewEngine(
		productRepo,
		orderRepo,
		rateRepo,
		expenseRepo,
		analytics.Config{
			LeadTimeDays:    cfg.Replenishment.LeadTimeDays,
			MinStock:        cfg.Replenishment.MinStock,
			DeliveryPerUnit: decimal.NewFromFloat(cfg.Replenishment.DeliveryPerUnit),
		},
		log,
	)

	r := router.New(cfg.App.Env, router.Dependencies{
		Logger:    log,
		Database:  db,
		Scheduler: syncScheduler,
		Analytics: engine,
		Expenses:  expenseRepo,
		Rates:     rateRepo,
	})

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      r,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Graceful shutdown failed", zap.Error(err))
	}
}
