package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Port string
	Env  string

	// Profile storage: Postgres when DatabaseURL is set, otherwise
	// SQLite at SQLitePath.
	DatabaseURL string
	SQLitePath  string

	// Optional recommendation result cache.
	RedisURL string

	// LLM backend
	AnthropicAPIKey  string
	AnthropicModel   string
	AnthropicBaseURL string
}

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
// In production, it panics on missing required variables.
func Load() *Config {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Env:              getEnv("ENV", "development"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		SQLitePath:       os.Getenv("SQLITE_PATH"),
		RedisURL:         os.Getenv("REDIS_URL"),
		AnthropicAPIKey:  os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:   os.Getenv("ANTHROPIC_MODEL"),
		AnthropicBaseURL: os.Getenv("ANTHROPIC_BASE_URL"),
	}

	// In production, require the LLM credentials
	if cfg.Env == "production" {
		if cfg.AnthropicAPIKey == "" {
			panic("ANTHROPIC_API_KEY is required in production")
		}
	}

	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
