package main

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sivaneshk23/honeypot-api/internal/api"
	"github.com/sivaneshk23/honeypot-api/internal/api/handlers"
	"github.com/sivaneshk23/honeypot-api/internal/config"
	"github.com/sivaneshk23/honeypot-api/internal/domain/services"
	"github.com/sivaneshk23/honeypot-api/internal/domain/services/detection"
	"github.com/sivaneshk23/honeypot-api/internal/domain/services/engage"
	"github.com/sivaneshk23/honeypot-api/internal/domain/services/extraction"
	"github.com/sivaneshk23/honeypot-api/internal/infrastructure/cache"
	"github.com/sivaneshk23/honeypot-api/internal/infrastructure/sessions"
	"github.com/sivaneshk23/honeypot-api/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadDefault()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	var log *logger.Logger
	if cfg.App.Environment == "production" {
		log = logger.NewProduction()
	} else {
		log = logger.NewDevelopment()
	}
	logger.SetGlobal(log)

	log.Info().
		Str("app", cfg.App.Name).
		Str("env", cfg.App.Environment).
		Str("version", cfg.App.Version).
		Msg("starting honeypot API")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis is optional: without it sessions live in process memory
	// and rate limiting is disabled.
	var redisCache *cache.RedisCache
	if cfg.Redis.Enabled {
		redisCache, err = cache.NewRedis(ctx, cfg.Redis, log)
		if err != nil {
			log.Warn().Err(err).Msg("failed to connect to Redis, continuing with in-memory sessions")
		}
	}
	defer func() {
		if redisCache != nil {
			redisCache.Close()
		}
	}()

	// Session store
	var store sessions.Store
	if redisCache != nil && cfg.Honeypot.UseRedisSessions {
		store = sessions.NewRedisStore(redisCache, log)
		log.Info().Msg("using Redis session store")
	} else {
		store = sessions.NewMemoryStore(cfg.Honeypot.SessionCapacity, log)
		log.Info().Int("capacity", cfg.Honeypot.SessionCapacity).Msg("using in-memory session store")
	}

	// Core pipeline
	classifier := detection.NewClassifier(log)
	extractor := extraction.NewExtractor(log)
	replier := engage.New(log, rand.NewSource(time.Now().UnixNano()))

	var reporter services.Reporter
	if cfg.Callback.Enabled && cfg.Callback.URL != "" {
		reporter = services.NewCallbackReporter(cfg.Callback, log)
		log.Info().Str("url", cfg.Callback.URL).Msg("finalization callback enabled")
	}

	engagement := services.NewEngagementService(
		classifier, extractor, replier,
		store, reporter,
		cfg.Honeypot, cfg.Callback,
		log,
	)

	// HTTP server
	h := handlers.NewHandlers(handlers.Dependencies{
		Engagement: engagement,
		Cache:      redisCache,
		Config:     *cfg,
		Logger:     log,
	})
	router := api.NewRouter(*cfg, h, redisCache, log)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.HTTPPort),
		Handler:      router.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("HTTP server listening")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("shutdown complete")
}
