package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bsm/redislock"
	"github.com/sirupsen/logrus"

	"owners-health-api/internal/cache"
	"owners-health-api/internal/config"
	"owners-health-api/internal/handler"
	"owners-health-api/internal/llm"
	"owners-health-api/internal/logging"
	"owners-health-api/internal/profile"
	"owners-health-api/internal/repository"
	"owners-health-api/internal/router"
	"owners-health-api/internal/service"
	"owners-health-api/internal/syncproto"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()

	logger := logging.New(logging.Options{Level: cfg.App.LogLevel, Format: cfg.App.Format()})
	logger.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     cfg.App.Version,
	}).Info("starting owners health API")

	loc, err := cfg.App.Location()
	if err != nil {
		logger.WithError(err).Fatal("invalid timezone")
	}

	// Record store
	store, err := repository.Open(cfg.Store.Type, cfg.Store.Path, cfg.Store.DSN(), logger)
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize store")
	}
	defer store.Close()

	// Cache and lock. Redis is optional; without it the process falls back
	// to an in-memory cache and generation runs unlocked.
	var (
		textCache cache.Cache
		locker    *redislock.Client
		cacheType = "memory"
	)
	if cfg.Cache.Type == "redis" {
		redisClient, err := cache.NewRedisClient(context.Background(), cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddress(),
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err != nil {
			logger.WithError(err).Warn("Redis unavailable, falling back to memory cache")
		} else {
			textCache = cache.NewRedisCache(redisClient, cfg.Cache.RedisPrefix)
			locker = redislock.New(redisClient)
			cacheType = "redis"
			logger.WithField("addr", cfg.Cache.RedisAddress()).Info("Redis cache initialized")
		}
	}
	if textCache == nil {
		textCache = cache.NewMemoryCache(time.Minute)
	}
	defer textCache.Close()

	// Profile catalog
	var catalog *profile.Catalog
	if cfg.Profile.CatalogPath != "" {
		catalog, err = profile.LoadCatalogFile(cfg.Profile.CatalogPath)
		if err != nil {
			logger.WithError(err).Fatal("failed to load profile catalog")
		}
		logger.WithField("path", cfg.Profile.CatalogPath).Info("profile catalog loaded")
	}
	resolver := profile.NewResolver(catalog)

	generator := llm.NewClient(llm.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	})
	if !generator.Available() {
		logger.Warn("LLM_API_KEY is not set, text generation is disabled")
	}

	// Initialize services
	protocol := syncproto.NewService(store, syncproto.Options{NonceBytes: cfg.Sync.NonceBytes}, logger)
	entityService := service.NewEntityService(store, logger)
	dashboardService := service.NewDashboardService(store, resolver, loc, nil)
	taskService := service.NewTaskService(store, nil, logger)
	itemService := service.NewItemService(store)
	syncService := service.NewSyncService(store, protocol)
	generationService := service.NewGenerationService(store, generator, textCache, service.GenerationOptions{
		CacheTTL: cfg.Cache.TTL,
		Locker:   locker,
	}, logger)

	sweeper := service.NewRetentionSweeper(store, service.RetentionConfig{
		HistoryRetention: cfg.Retention.History,
		TodoRetention:    cfg.Retention.Todo,
		Interval:         cfg.Retention.Interval,
		InitialDelay:     time.Minute,
	}, logger)
	sweeper.Start()
	defer sweeper.Stop()

	apiKeys := cfg.Auth.Keys()
	if len(apiKeys) == 0 {
		logger.Warn("AUTH_API_KEYS is empty, API key check disabled")
	}

	// Create router
	r := router.New(router.Config{
		Logger:            logger,
		APIKeys:           apiKeys,
		CORSOrigins:       cfg.Server.CORSOrigins,
		Handler:           handler.New(cfg.App.Version, store),
		EntityHandler:     handler.NewEntityHandler(entityService, nil, logger),
		DashboardHandler:  handler.NewDashboardHandler(dashboardService, logger),
		TaskHandler:       handler.NewTaskHandler(taskService, logger),
		ItemHandler:       handler.NewItemHandler(itemService, logger),
		SyncHandler:       handler.NewSyncHandler(syncService, logger),
		GenerationHandler: handler.NewGenerationHandler(generationService, logger),
		AdminHandler:      handler.NewAdminHandler(store, store.Dialect(), cacheType, textCache, sweeper, logger),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.WithField("addr", cfg.Server.Address()).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("server shutdown error")
	}

	logger.Info("server stopped")
}
