package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	webAdapter "pantryplanner/internal/adapters/web"
	"pantryplanner/internal/ai"
	"pantryplanner/internal/app"
	"pantryplanner/internal/config"
	"pantryplanner/internal/core"
	"pantryplanner/internal/db"
	"pantryplanner/internal/logger"
	"pantryplanner/internal/metrics"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load("pantryplanner-server")
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(logger.LogConfig{
		Level:       cfg.LogLevel,
		Environment: cfg.Server.Env,
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer zl.Sync()

	if cfg.Server.JWTSecret == "" {
		zl.Fatal("JWT_SECRET is not set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DB)
	if err != nil {
		zl.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := db.Migrate(ctx, pool, zl); err != nil {
		zl.Fatal("migrations", zap.Error(err))
	}

	if cfg.AI.OpenAIKey == "" {
		zl.Warn("OPENAI_API_KEY is not set; the household assistant is disabled")
	}

	m := metrics.New()
	svc := app.NewAppService(app.Services{
		Shopping:  core.NewShoppingService(pool),
		MealPlans: core.NewMealPlanService(pool),
		Snapshots: core.NewSnapshotService(pool),
		Users:     core.NewUserService(pool),
		Assistant: ai.NewAgent(cfg.AI.OpenAIKey, cfg.AI.Model),
	}, m)

	handler := webAdapter.NewHandler(svc, webAdapter.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		JWTSecret:      cfg.Server.JWTSecret,
		Production:     cfg.Production(),
		Logger:         zl,
		Metrics:        m,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zl.Info("server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("shutdown", zap.Error(err))
	}
}
