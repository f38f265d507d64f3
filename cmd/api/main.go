package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	balanceUseCase "github.com/amirhossein-jamali/transfer-ledger/internal/domain/usecase/balance"
	transferUseCase "github.com/amirhossein-jamali/transfer-ledger/internal/domain/usecase/transfer"

	"github.com/amirhossein-jamali/transfer-ledger/internal/infrastructure/adapter/api/handler"
	"github.com/amirhossein-jamali/transfer-ledger/internal/infrastructure/adapter/api/routes"
	"github.com/amirhossein-jamali/transfer-ledger/internal/infrastructure/adapter/cache"
	"github.com/amirhossein-jamali/transfer-ledger/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/transfer-ledger/internal/infrastructure/adapter/logger"
	"github.com/amirhossein-jamali/transfer-ledger/internal/infrastructure/adapter/repository"
	timeProvider "github.com/amirhossein-jamali/transfer-ledger/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/transfer-ledger/internal/infrastructure/config"

	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := validateConfig(cfg); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	// Set Gin mode based on environment
	if cfg.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	appLogger := logger.NewZapLogger(cfg.Environment == config.Production)
	defer func() {
		_ = appLogger.Flush()
	}()

	tp := timeProvider.NewRealTimeProvider()

	// Connect to the database
	dbConfig := database.CreateConfigFromAppConfig(cfg)
	dbManager := database.NewManager(dbConfig, appLogger, tp)
	if _, err := dbManager.Connect(); err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer dbManager.Close()

	// Run migrations
	if err := dbManager.MigrationManager().MigrateAll(); err != nil {
		appLogger.Error("Failed to run migrations", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	// Connect to Redis. A failed connection is not fatal: the balance
	// cache degrades every lookup to a store read.
	redisClient, err := cache.NewRedisClient(&cfg.Redis, tp, appLogger)
	if err != nil {
		appLogger.Warn("Redis unavailable, balance cache degraded", map[string]any{
			"error": err.Error(),
		})
	}
	balanceCache := cache.NewRedisBalanceCache(redisClient, appLogger, cfg.Cache.KeyPrefix, cfg.Cache.BalanceTTL)

	// Repositories and unit of work
	balanceRepo := repository.NewUserBalanceRepository(dbManager.DB(), tp, appLogger)
	uow := database.NewUnitOfWork(dbManager.DB(), appLogger, tp)

	// Use cases
	balanceService := balanceUseCase.NewService(balanceRepo, balanceCache, tp, appLogger)
	transferService := transferUseCase.NewService(uow, balanceCache, tp, appLogger, transferUseCase.Config{
		CancelWindow:    cfg.Transfer.CancelWindow,
		MaxApplyRetries: cfg.Transfer.MaxRetries,
	})

	// Background settlement processor
	processor := transferUseCase.NewProcessor(transferService, tp, appLogger, transferUseCase.ProcessorConfig{
		Interval:  cfg.Transfer.ProcessorInterval,
		Delay:     cfg.Transfer.ProcessorDelay,
		BatchSize: cfg.Transfer.ProcessorBatchSize,
	})
	processor.Start(context.Background())

	// API handlers
	userHandler := handler.NewUserHandler(balanceService, appLogger)
	transferHandler := handler.NewTransferHandler(transferService, appLogger)

	router := gin.New()
	routes.SetupMiddlewares(router, appLogger)
	routes.SetupRoutes(router, userHandler, transferHandler)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info("Starting server", map[string]any{
			"port": cfg.Server.Port,
			"env":  cfg.Environment,
		})

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("Failed to start server", map[string]any{
				"error": err.Error(),
			})
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...", nil)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Stop the processor first so no settlement is cut off mid-sweep
	processor.Stop()

	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("Server forced to shutdown", map[string]any{
			"error": err.Error(),
		})
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			appLogger.Warn("Failed to close Redis client", map[string]any{
				"error": err.Error(),
			})
		}
	}

	appLogger.Info("Server exited gracefully", nil)
}

// validateConfig ensures all required configuration values are present
func validateConfig(cfg *config.Config) error {
	var missingConfigs []string

	if cfg.Server.Port == 0 {
		missingConfigs = append(missingConfigs, "server.port")
	}
	if cfg.Server.ReadTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.readTimeout")
	}
	if cfg.Server.WriteTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.writeTimeout")
	}
	if cfg.Server.ShutdownTimeout == 0 {
		missingConfigs = append(missingConfigs, "server.shutdownTimeout")
	}

	if cfg.Database.Host == "" && os.Getenv("TL_DB_HOST") == "" {
		missingConfigs = append(missingConfigs, "database.host (or TL_DB_HOST environment variable)")
	}
	if cfg.Database.Username == "" && os.Getenv("TL_DB_USERNAME") == "" {
		missingConfigs = append(missingConfigs, "database.username (or TL_DB_USERNAME environment variable)")
	}
	if cfg.Database.Password == "" && os.Getenv("TL_DB_PASSWORD") == "" {
		missingConfigs = append(missingConfigs, "database.password (or TL_DB_PASSWORD environment variable)")
	}
	if cfg.Database.Database == "" && os.Getenv("TL_DB_NAME") == "" {
		missingConfigs = append(missingConfigs, "database.database (or TL_DB_NAME environment variable)")
	}
	if cfg.Database.QueryTimeout == 0 {
		missingConfigs = append(missingConfigs, "database.queryTimeout")
	}

	if cfg.Transfer.CancelWindow == 0 {
		missingConfigs = append(missingConfigs, "transfer.cancelWindow")
	}
	if cfg.Transfer.MaxRetries == 0 {
		missingConfigs = append(missingConfigs, "transfer.maxRetries")
	}
	if cfg.Transfer.ProcessorInterval == 0 {
		missingConfigs = append(missingConfigs, "transfer.processorInterval")
	}

	if cfg.Environment == "" {
		missingConfigs = append(missingConfigs, "environment")
	} else if cfg.Environment != config.Development &&
		cfg.Environment != config.Production &&
		cfg.Environment != config.Test {
		return fmt.Errorf("invalid environment value: %s, must be one of: %s, %s, or %s",
			cfg.Environment, config.Development, config.Production, config.Test)
	}

	if cfg.Logger.Level == "" {
		missingConfigs = append(missingConfigs, "logger.level")
	}

	if len(missingConfigs) > 0 {
		return fmt.Errorf("missing required configurations: %v", missingConfigs)
	}

	if cfg.Environment == config.Production {
		var warnings []string

		sslMode := strings.ToLower(cfg.Database.SSLMode)
		if sslMode != "require" && sslMode != "verify-ca" && sslMode != "verify-full" {
			warnings = append(warnings, "database.sslMode should be set to 'require', 'verify-ca', or 'verify-full' in production")
		}
		if cfg.Server.ReadTimeout < 5*time.Second {
			warnings = append(warnings, "server.readTimeout is too low for production")
		}
		if cfg.Server.WriteTimeout < 5*time.Second {
			warnings = append(warnings, "server.writeTimeout is too low for production")
		}

		if len(warnings) > 0 {
			log.Printf("Warning: potential security issues in production configuration: %v", warnings)
		}
	}

	return nil
}
