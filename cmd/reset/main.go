package main

import (
	"context"
	"log"
	"os"

	"github.com/amirhossein-jamali/transfer-ledger/internal/infrastructure/adapter/database"
	"github.com/amirhossein-jamali/transfer-ledger/internal/infrastructure/adapter/logger"
	timeProvider "github.com/amirhossein-jamali/transfer-ledger/internal/infrastructure/adapter/time"
	"github.com/amirhossein-jamali/transfer-ledger/internal/infrastructure/config"
)

// Wipes all service data. Development tool; refuses to run in production.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Environment == config.Production {
		log.Fatal("Refusing to reset a production database")
	}

	appLogger := logger.NewZapLogger(false)
	tp := timeProvider.NewRealTimeProvider()

	dbConfig := database.CreateConfigFromAppConfig(cfg)
	dbManager := database.NewManager(dbConfig, appLogger, tp)
	if _, err := dbManager.Connect(); err != nil {
		appLogger.Error("Failed to connect to database", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}
	defer dbManager.Close()

	resetter := database.NewResetter(dbManager.DB(), appLogger)
	if err := resetter.ResetAll(context.Background()); err != nil {
		appLogger.Error("Reset failed", map[string]any{
			"error": err.Error(),
		})
		os.Exit(1)
	}

	appLogger.Info("All service data cleared", nil)
}
