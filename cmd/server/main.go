package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	catalogapp "github.com/sellerhub/backend/internal/application/catalog"
	marketplaceapp "github.com/sellerhub/backend/internal/application/marketplace"
	"github.com/sellerhub/backend/internal/application/reconcile"
	"github.com/sellerhub/backend/internal/infrastructure/cache"
	"github.com/sellerhub/backend/internal/infrastructure/config"
	"github.com/sellerhub/backend/internal/infrastructure/ecommerce"
	"github.com/sellerhub/backend/internal/infrastructure/logger"
	"github.com/sellerhub/backend/internal/infrastructure/notify"
	"github.com/sellerhub/backend/internal/infrastructure/persistence"
	"github.com/sellerhub/backend/internal/infrastructure/scheduler"
	"github.com/sellerhub/backend/internal/infrastructure/storage"
	"github.com/sellerhub/backend/internal/interfaces/http/handler"
	"github.com/sellerhub/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting SellerHub Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	// Initialize database connection with a zap-backed GORM logger
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, log, gormLogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	categoryRepo := persistence.NewGormCategoryRepository(db.DB)
	priceListRepo := persistence.NewGormPriceListRepository(db.DB)
	integrationRepo := persistence.NewGormIntegrationRepository(db.DB)
	listingRepo := persistence.NewGormListingRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	supplyRepo := persistence.NewGormSupplyRepository(db.DB)
	dictionaryRepo := persistence.NewGormDictionaryRepository(db.DB)

	// Image storage (S3 in production, stub otherwise)
	imageStore, err := storage.NewImageStore(&cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize image storage", zap.Error(err))
	}

	// Marketplace provider registry (Ozon, Wildberries)
	registry := ecommerce.NewProviderRegistry(cfg.Marketplaces, log)

	// Dictionary cache (Redis with in-memory fallback)
	dictionaryCache := cache.NewDictionaryCache(cfg.Redis, log)

	// Notifier for import and order events
	notifier := notify.NewLoggerNotifier(log)

	// Reconciliation engine shared by batch endpoints and imports
	engine := reconcile.NewEngine(productRepo, categoryRepo, priceListRepo, imageStore, log)

	// Initialize application services
	productService := catalogapp.NewProductService(productRepo, engine, log)
	categoryService := catalogapp.NewCategoryService(categoryRepo, engine, log)
	priceListService := catalogapp.NewPriceListService(priceListRepo, engine, log)
	integrationService := marketplaceapp.NewIntegrationService(integrationRepo, registry)
	orderService := marketplaceapp.NewOrderService(orderRepo, registry, notifier, log)
	supplyService := marketplaceapp.NewSupplyService(supplyRepo, orderRepo, registry, log)
	dictionaryService := marketplaceapp.NewDictionaryService(dictionaryRepo, registry, dictionaryCache, log)
	importService := marketplaceapp.NewImportService(engine, integrationRepo, registry, notifier, log)
	exportService := marketplaceapp.NewExportService(productRepo, priceListRepo, integrationRepo, listingRepo, registry, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Background synchronization (if enabled)
	if cfg.Scheduler.Enabled {
		executor := scheduler.NewMarketplaceSyncExecutor(
			orderService, supplyService, dictionaryService, importService, exportService, log,
		)
		syncScheduler, err := scheduler.NewSyncScheduler(scheduler.SyncSchedulerConfig{
			Enabled:           cfg.Scheduler.Enabled,
			MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
			JobTimeout:        cfg.Scheduler.JobTimeout,
			RetryAttempts:     cfg.Scheduler.RetryAttempts,
			RetryDelay:        cfg.Scheduler.RetryDelay,
			QueueSize:         cfg.Scheduler.QueueSize,
		}, executor, log)
		if err != nil {
			log.Fatal("Failed to create sync scheduler", zap.Error(err))
		}
		if err := syncScheduler.Start(ctx); err != nil {
			log.Fatal("Failed to start sync scheduler", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := syncScheduler.Stop(shutdownCtx); err != nil {
				log.Error("Error stopping sync scheduler", zap.Error(err))
			}
		}()

		orchestrator := scheduler.NewOrchestrator(scheduler.OrchestratorConfig{
			TickInterval:  cfg.Orchestrator.TickInterval,
			OrderLookback: cfg.Orchestrator.OrderLookback,
			Intervals: map[scheduler.SyncKind]time.Duration{
				scheduler.SyncKindPullOrders:     cfg.Orchestrator.OrdersInterval,
				scheduler.SyncKindOrderStatuses:  cfg.Orchestrator.OrdersInterval,
				scheduler.SyncKindSupplies:       cfg.Orchestrator.SuppliesInterval,
				scheduler.SyncKindWarehouses:     cfg.Orchestrator.WarehousesInterval,
				scheduler.SyncKindAttributes:     cfg.Orchestrator.AttributesInterval,
				scheduler.SyncKindProductImport:  cfg.Orchestrator.ImportInterval,
				scheduler.SyncKindPriceStockPush: cfg.Orchestrator.PriceStockInterval,
			},
		}, syncScheduler, integrationRepo, log)
		if err := orchestrator.Start(ctx); err != nil {
			log.Fatal("Failed to start sync orchestrator", zap.Error(err))
		}
		defer orchestrator.Stop()

		log.Info("Sync scheduler started",
			zap.Int("max_concurrent_jobs", cfg.Scheduler.MaxConcurrentJobs),
			zap.Duration("job_timeout", cfg.Scheduler.JobTimeout),
			zap.Duration("tick_interval", cfg.Orchestrator.TickInterval),
		)
	}

	// Initialize HTTP handlers
	uploadIssuer, ok := imageStore.(handler.UploadIssuer)
	if !ok {
		log.Fatal("Image storage does not support upload sessions")
	}
	handlers := router.Handlers{
		System:       handler.NewSystemHandler(db.DB, version, log),
		Products:     handler.NewProductHandler(productService, log),
		Categories:   handler.NewCategoryHandler(categoryService, log),
		PriceLists:   handler.NewPriceListHandler(priceListService, log),
		Integrations: handler.NewIntegrationHandler(integrationService, exportService, importService, log),
		Orders:       handler.NewOrderHandler(orderService, integrationService, log),
		Supplies:     handler.NewSupplyHandler(supplyService, integrationService, log),
		Dictionaries: handler.NewDictionaryHandler(dictionaryService, integrationService, log),
		Uploads:      handler.NewUploadHandler(uploadIssuer, log),
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        router.New(cfg, handlers, log),
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
		_ = srv.Close()
	}
	log.Info("Server stopped")
}
