package main

import (
	"context"
	"log"

	"pantryplanner/internal/config"
	"pantryplanner/internal/db"
	"pantryplanner/internal/logger"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load("pantryplanner-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	zl, err := logger.New(logger.LogConfig{Level: cfg.LogLevel, Environment: cfg.Server.Env, ServiceName: cfg.ServiceName})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DB)
	if err != nil {
		zl.Fatal("Failed to connect to DB", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, zl); err != nil {
		zl.Fatal("Migration failed", zap.Error(err))
	}
	zl.Info("Migrations up to date")
}
