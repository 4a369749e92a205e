package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/freigent-ai/freigent/internal/api"
	"github.com/freigent-ai/freigent/internal/config"
	"github.com/freigent-ai/freigent/internal/hub"
	"github.com/freigent-ai/freigent/internal/orchestrator"
	"github.com/freigent-ai/freigent/internal/recommend"
	"github.com/freigent-ai/freigent/internal/store"
	"github.com/freigent-ai/freigent/internal/worker"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	var logger zerolog.Logger
	if cfg.IsDevelopment() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Logger()
	} else {
		logger = zerolog.New(os.Stdout).
			With().
			Timestamp().
			Logger()
	}

	ctx := context.Background()

	// Initialize the profile store: Postgres when configured, SQLite otherwise
	var profiles store.ProfileStore
	if cfg.DatabaseURL != "" {
		pgStore, err := store.NewPostgresStore(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("postgres connection failed")
		}
		profiles = pgStore
		logger.Info().Msg("connected to PostgreSQL")
	} else {
		sqliteStore, err := store.NewSQLiteStore(ctx, cfg.SQLitePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("sqlite open failed")
		}
		profiles = sqliteStore
		logger.Info().Str("path", cfg.SQLitePath).Msg("opened SQLite store")
	}
	defer profiles.Close()

	// Recommendation generator, optionally cached in Redis
	var gen recommend.Generator = recommend.NewClaudeGenerator(
		cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.AnthropicBaseURL, logger)
	if cfg.RedisURL != "" {
		cached, err := recommend.NewCachedGenerator(ctx, gen, cfg.RedisURL, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connection failed")
		}
		defer cached.Close()
		gen = cached
		logger.Info().Msg("recommendation cache enabled")
	}

	// Messaging hub, worker and orchestrator
	h := hub.New()
	wrk := worker.New(h, profiles, gen, logger)
	orch := orchestrator.New(h, profiles, gen, wrk, logger)

	// Create router
	router := api.NewRouter(logger, profiles, h, gen, wrk, orch)

	// Create server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // auto_search fans out to helpers sequentially
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().
			Str("port", cfg.Port).
			Str("env", cfg.Env).
			Msg("starting Freigent server")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server failed to start")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down server...")

	// Graceful shutdown with 30 second timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatal().Err(err).Msg("server forced to shutdown")
	}

	logger.Info().Msg("server stopped")
}
