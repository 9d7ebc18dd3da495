package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"

	"pantryplanner/internal/adapters/cli"
	"pantryplanner/internal/ai"
	"pantryplanner/internal/app"
	"pantryplanner/internal/config"
	"pantryplanner/internal/core"
	"pantryplanner/internal/db"
	"pantryplanner/internal/logger"
	"pantryplanner/internal/metrics"
)

func main() {
	cfg, err := config.Load("pantryplanner-cli")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// The CLI logs at warn by default so command output stays readable.
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "warn"
	}
	zl, err := logger.New(logger.LogConfig{Level: level, Environment: cfg.Server.Env, ServiceName: cfg.ServiceName})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	userID, err := strconv.Atoi(os.Getenv("CLI_USER_ID"))
	if err != nil || userID <= 0 {
		log.Fatal("CLI_USER_ID must be set to the id of the acting user")
	}

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	svc := app.NewAppService(app.Services{
		Shopping:  core.NewShoppingService(pool),
		MealPlans: core.NewMealPlanService(pool),
		Snapshots: core.NewSnapshotService(pool),
		Users:     core.NewUserService(pool),
		Assistant: ai.NewAgent(cfg.AI.OpenAIKey, cfg.AI.Model),
	}, metrics.New())

	if err := cli.Run(ctx, svc, userID, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
