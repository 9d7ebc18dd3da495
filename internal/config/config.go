package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DBConfig holds database configuration.
type DBConfig struct {
	URL             string
	MaxConns        int
	ConnMaxLifetime time.Duration
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins string
	JWTSecret      string
}

// AIConfig holds household assistant configuration.
type AIConfig struct {
	OpenAIKey string
	Model     string
}

// Config holds all configuration.
type Config struct {
	ServiceName string
	DB          DBConfig
	Server      ServerConfig
	AI          AIConfig
	LogLevel    string
}

// Load reads configuration from the environment, after loading .env if present.
func Load(serviceName string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		ServiceName: serviceName,
		DB: DBConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 10),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
		},
		Server: ServerConfig{
			Port:           getEnv("SERVER_PORT", "8080"),
			Env:            getEnv("APP_ENV", "development"),
			AllowedOrigins: getEnv("ALLOWED_ORIGINS", ""),
			JWTSecret:      getEnv("JWT_SECRET", ""),
		},
		AI: AIConfig{
			OpenAIKey: getEnv("OPENAI_API_KEY", ""),
			Model:     getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if cfg.DB.URL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	return cfg, nil
}

// Production reports whether the service runs with APP_ENV=production.
func (c *Config) Production() bool {
	return c.Server.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
