package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/ndewijer/Broker-Report-Importer/internal/api"
	"github.com/ndewijer/Broker-Report-Importer/internal/config"
	"github.com/ndewijer/Broker-Report-Importer/internal/database"
	"github.com/ndewijer/Broker-Report-Importer/internal/logging"
	"github.com/ndewijer/Broker-Report-Importer/internal/repository"
	"github.com/ndewijer/Broker-Report-Importer/internal/service"
	"github.com/ndewijer/Broker-Report-Importer/internal/version"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.Init(cfg.Log.Level)

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		logger.Error("failed to create database directory", "error", err)
		os.Exit(1)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	schemaVersion, err := database.Migrate(context.Background(), db)
	if err != nil {
		logger.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}
	logger.Info("connected to database",
		"path", cfg.Database.Path,
		"schema_version", schemaVersion,
		"app_version", version.Version)

	// Create repositories
	portfolioRepo := repository.NewPortfolioRepository(db)
	reportRepo := repository.NewReportRepository(db)
	tradeRepo := repository.NewTradeOperationRepository(db)
	fiscalRepo := repository.NewFiscalTransactionRepository(db)

	// Create services
	activityCache := service.NewActivityCache(cfg.Import.ActivityCacheTTL)
	systemService := service.NewSystemService(db)
	reportService := service.NewReportService(
		db,
		portfolioRepo,
		reportRepo,
		tradeRepo,
		fiscalRepo,
		activityCache,
		logger,
		cfg.Import.AtomicUpload,
	)
	activityService := service.NewActivityService(portfolioRepo, tradeRepo, fiscalRepo, activityCache)
	tradeService := service.NewTradeOperationService(portfolioRepo, tradeRepo, activityCache)
	fiscalService := service.NewFiscalTransactionService(portfolioRepo, fiscalRepo, activityCache)

	// Create router
	router := api.NewRouter(systemService, reportService, activityService, tradeService, fiscalService, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("starting server", "addr", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		return
	}

	logger.Info("server exited")
}
