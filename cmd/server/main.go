package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/vidtube/backend/internal/cache"
	"github.com/anonto42/vidtube/backend/internal/handlers"
	"github.com/anonto42/vidtube/backend/internal/repositories"
	"github.com/anonto42/vidtube/backend/internal/router"
	"github.com/anonto42/vidtube/backend/internal/uploads"
	"github.com/anonto42/vidtube/backend/internal/validation"
	"github.com/anonto42/vidtube/backend/pkg/config"
	"github.com/anonto42/vidtube/backend/pkg/logger"
	"github.com/anonto42/vidtube/backend/pkg/media"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg := config.Load()

	zapLogger, err := logger.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = zapLogger.Sync() }()

	// Initialize database connection
	db, err := config.InitDB(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize database", zap.Error(err))
	}
	defer db.CloseDB()

	indexCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := repositories.EnsureIndexes(indexCtx, db.Database, zapLogger); err != nil {
		cancel()
		zapLogger.Fatal("Failed to create indexes", zap.Error(err))
	}
	cancel()

	store, err := media.NewCloudinary(media.Config{
		CloudName:     cfg.CloudinaryCloudName,
		APIKey:        cfg.CloudinaryAPIKey,
		APISecret:     cfg.CloudinaryAPISecret,
		Folder:        cfg.CloudinaryFolder,
		UploadTimeout: cfg.MediaUploadTimeout,
		MaxRetries:    cfg.MediaMaxRetries,
	}, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize media store", zap.Error(err))
	}

	statsCache := newStatsCache(cfg, zapLogger)
	if closer, ok := statsCache.(interface{ Close() error }); ok {
		defer func() { _ = closer.Close() }()
	}

	stager, err := uploads.NewStager(cfg.UploadDir, cfg.MaxUploadBytes, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to prepare upload directory", zap.Error(err))
	}

	// Create Echo instance
	e := echo.New()
	e.HideBanner = true
	e.Validator = validation.New()
	e.HTTPErrorHandler = handlers.NewHTTPErrorHandler(zapLogger)

	// Setup global middleware
	config.SetupMiddleware(e, cfg, zapLogger)

	// Setup routes and dependencies
	router.SetupRoutes(e, router.Dependencies{
		Config:     cfg,
		Database:   db.Database,
		Media:      store,
		StatsCache: statsCache,
		Stager:     stager,
		Logger:     zapLogger,
	})

	go func() {
		zapLogger.Info("Server starting", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server")
	ctx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := e.Shutdown(ctx); err != nil {
		zapLogger.Error("Server shutdown failed", zap.Error(err))
	}
}

// newStatsCache prefers Redis and falls back to an in-process cache when
// REDIS_URL is unset or unreachable.
func newStatsCache(cfg *config.Config, logger *zap.Logger) cache.StatsCache {
	if cfg.RedisURL == "" {
		return cache.NewMemoryStatsCache(cfg.StatsCacheTTL)
	}
	redisCache, err := cache.NewRedisStatsCache(cfg.RedisURL, cfg.StatsCacheTTL, logger)
	if err != nil {
		logger.Warn("Redis unavailable, using in-memory stats cache", zap.Error(err))
		return cache.NewMemoryStatsCache(cfg.StatsCacheTTL)
	}
	return redisCache
}
