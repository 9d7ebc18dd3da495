package config

import (
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/pantry_test")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_MAX_CONNS", "4")
	t.Setenv("DB_CONN_MAX_LIFETIME", "30m")
	t.Setenv("APP_ENV", "production")

	cfg, err := Load("pantryplanner")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.DB.MaxConns != 4 {
		t.Errorf("Expected max conns 4, got %d", cfg.DB.MaxConns)
	}
	if cfg.DB.ConnMaxLifetime != 30*time.Minute {
		t.Errorf("Expected lifetime 30m, got %s", cfg.DB.ConnMaxLifetime)
	}
	if !cfg.Production() {
		t.Error("Expected production environment")
	}
}

func TestLoad_InvalidNumbersFallBack(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/pantry_test")
	t.Setenv("DB_MAX_CONNS", "many")
	t.Setenv("DB_CONN_MAX_LIFETIME", "forever")

	cfg, err := Load("pantryplanner")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.DB.MaxConns != 10 {
		t.Errorf("Expected default max conns 10, got %d", cfg.DB.MaxConns)
	}
	if cfg.DB.ConnMaxLifetime != time.Hour {
		t.Errorf("Expected default lifetime 1h, got %s", cfg.DB.ConnMaxLifetime)
	}
}

func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	if _, err := Load("pantryplanner"); err == nil {
		t.Error("Expected error when DATABASE_URL is empty")
	}
}
