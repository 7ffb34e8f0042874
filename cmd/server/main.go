package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	inventoryapp "github.com/repairshop/backend/internal/application/inventory"
	invoicingapp "github.com/repairshop/backend/internal/application/invoicing"
	purchasingapp "github.com/repairshop/backend/internal/application/purchasing"
	"github.com/repairshop/backend/internal/domain/shared"
	"github.com/repairshop/backend/internal/infrastructure/cache"
	"github.com/repairshop/backend/internal/infrastructure/config"
	"github.com/repairshop/backend/internal/infrastructure/event"
	"github.com/repairshop/backend/internal/infrastructure/lock"
	"github.com/repairshop/backend/internal/infrastructure/logger"
	"github.com/repairshop/backend/internal/infrastructure/persistence"
	"github.com/repairshop/backend/internal/infrastructure/scheduler"
	"github.com/repairshop/backend/internal/infrastructure/telemetry"
	"github.com/repairshop/backend/internal/interfaces/http/handler"
	"github.com/repairshop/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

const slowQueryThreshold = 200 * time.Millisecond

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting repair shop backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	gormLog := logger.NewGormLogger(log, logger.GormLevel(cfg.Log.Level), slowQueryThreshold)
	db, err := persistence.NewDatabase(&cfg.Database, persistence.WithLogger(gormLog))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.EnableDBTracing(db.DB, cfg.Telemetry, log); err != nil {
		log.Fatal("Failed to enable database tracing", zap.Error(err))
	}
	log.Info("Database connected successfully")

	startupCtx, cancelStartup := context.WithTimeout(context.Background(), 10*time.Second)
	redisClient, err := cache.NewRedisClient(startupCtx, cfg.Redis)
	cancelStartup()
	if err != nil {
		if cfg.Event.RequireRedis {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		log.Warn("Redis unavailable, continuing without it", zap.Error(err))
		redisClient = nil
	}
	if redisClient != nil {
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
	}

	idempotencyStore, err := cache.NewIdempotencyStore(redisClient, cfg.Event, log)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		_ = idempotencyStore.Close()
	}()

	var numberLocker shared.NumberLocker = shared.NoopNumberLocker{}
	if redisClient != nil {
		numberLocker = lock.NewRedisNumberLocker(redisClient, cfg.Invoice.NumberLockTTL, log)
	}

	eventBus := event.NewInMemoryEventBus(log)
	stockLevelHandler := inventoryapp.NewStockLevelHandler(log).
		WithNotifier(inventoryapp.NewLoggingStockAlertNotifier(log))
	eventBus.Subscribe(event.NewIdempotentHandler(
		stockLevelHandler,
		idempotencyStore,
		shared.IdempotencyConfig{TTL: cfg.Event.IdempotencyTTL, Enabled: true},
		log,
	))
	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	repos := persistence.NewRepositories(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	inventoryService := inventoryapp.NewInventoryService(repos, txScope)
	inventoryService.SetEventPublisher(eventBus)
	inventoryService.SetLogger(log)

	transferService := inventoryapp.NewTransferService(repos, txScope)
	transferService.SetEventPublisher(eventBus)
	transferService.SetLogger(log)

	invoiceService := invoicingapp.NewInvoiceService(repos, txScope, invoicingapp.ServiceConfig{
		NumberPrefix:   cfg.Invoice.NumberPrefix,
		DefaultDueDays: cfg.Invoice.DefaultDueDays,
	})
	invoiceService.SetEventPublisher(eventBus)
	invoiceService.SetLogger(log)
	invoiceService.SetNumberLocker(numberLocker)

	invoiceItemService := invoicingapp.NewInvoiceItemService(txScope)
	invoiceItemService.SetEventPublisher(eventBus)
	invoiceItemService.SetLogger(log)

	purchaseOrderService := purchasingapp.NewPurchaseOrderService(repos, txScope)
	purchaseOrderService.SetEventPublisher(eventBus)
	purchaseOrderService.SetLogger(log)
	purchaseOrderService.SetNumberLocker(numberLocker)
	purchaseOrderService.SetNumberPrefix(cfg.Invoice.PONumberPrefix)

	var overdueScheduler *scheduler.OverdueScheduler
	if cfg.Scheduler.Enabled {
		overdueScheduler, err = scheduler.NewOverdueScheduler(invoiceService, cfg.Scheduler, log)
		if err != nil {
			log.Fatal("Failed to create overdue scheduler", zap.Error(err))
		}
		overdueScheduler.Start()
	}

	sqlDB, err := db.DB.DB()
	if err != nil {
		log.Fatal("Failed to access database handle", zap.Error(err))
	}
	engine, err := router.NewEngine(cfg, log, router.Handlers{
		Health:        handler.NewHealthHandler(sqlDB),
		Inventory:     handler.NewInventoryHandler(inventoryService),
		Transfer:      handler.NewTransferHandler(transferService),
		Invoice:       handler.NewInvoiceHandler(invoiceService, invoiceItemService),
		PurchaseOrder: handler.NewPurchaseOrderHandler(purchaseOrderService),
	})
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if overdueScheduler != nil {
		if err := overdueScheduler.Stop(ctx); err != nil {
			log.Warn("Overdue scheduler did not stop cleanly", zap.Error(err))
		}
	}
	if err := eventBus.Stop(ctx); err != nil {
		log.Warn("Event bus did not stop cleanly", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
