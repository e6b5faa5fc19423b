package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dealerportal/backend/internal/application/backorderapp"
	"github.com/dealerportal/backend/internal/application/dealerapp"
	"github.com/dealerportal/backend/internal/application/importing"
	"github.com/dealerportal/backend/internal/application/pricing"
	"github.com/dealerportal/backend/internal/infrastructure/cache"
	"github.com/dealerportal/backend/internal/infrastructure/config"
	"github.com/dealerportal/backend/internal/infrastructure/logger"
	"github.com/dealerportal/backend/internal/infrastructure/persistence"
	"github.com/dealerportal/backend/internal/interfaces/http/handler"
	"github.com/dealerportal/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting dealer portal backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	assignmentCache := cache.NewAssignmentCache(cfg.Redis, log)
	defer func() {
		if err := assignmentCache.Close(); err != nil {
			log.Error("Error closing assignment cache", zap.Error(err))
		}
	}()

	// Repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	dealerRepo := persistence.NewGormDealerRepository(db.DB)
	batchRepo := persistence.NewGormBatchRepository(db.DB)
	backorderRepo := persistence.NewGormBackorderRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)

	// Application services
	importService := importing.NewImportService(
		batchRepo,
		productRepo,
		backorderRepo,
		orderRepo,
		db,
		importing.Limits{
			MaxFileSize: cfg.Import.MaxFileSize,
			MaxRows:     cfg.Import.MaxRows,
			MaxErrors:   cfg.Import.MaxErrors,
		},
		log,
	)
	historyService := importing.NewHistoryService(batchRepo, log)
	priceService := pricing.NewPriceService(dealerRepo, productRepo, assignmentCache, log)
	bandService := dealerapp.NewBandService(dealerRepo, assignmentCache, log)
	snapshotService := backorderapp.NewSnapshotService(backorderRepo, dealerRepo)

	// HTTP server
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(logger.GinMiddleware(log), logger.Recovery(log))
	engine.MaxMultipartMemory = cfg.HTTP.MaxBodySize

	engine.GET("/health", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	router.NewRouter(engine).
		Register(handler.NewImportHandler(importService, historyService)).
		Register(handler.NewPricingHandler(priceService)).
		Register(handler.NewDealerHandler(bandService)).
		Register(handler.NewBackorderHandler(snapshotService)).
		Setup()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()
	log.Info("HTTP server listening", zap.String("addr", srv.Addr))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
}
