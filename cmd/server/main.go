package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/plumehq/plume/internal/api"
	"github.com/plumehq/plume/internal/cache"
	"github.com/plumehq/plume/internal/compute"
	"github.com/plumehq/plume/internal/feed"
	"github.com/plumehq/plume/internal/service"
	"github.com/plumehq/plume/internal/session"
	"github.com/plumehq/plume/internal/store"
	"github.com/plumehq/plume/pkg/config"
	"github.com/plumehq/plume/pkg/logging"
	"github.com/plumehq/plume/pkg/telemetry"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logging.InitLogger(&cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.GetLogger().Sync()

	logger := logging.GetLogger()
	logger.Info("Starting Plume API Server")

	// Initialize telemetry
	telemetryShutdown, err := telemetry.Init(&cfg.Telemetry)
	if err != nil {
		logger.Fatal("Failed to initialize telemetry", zap.Error(err))
	}
	defer telemetryShutdown()

	// Connect to the primary store
	database, err := store.New(&cfg.Database, cfg.Logging.Level)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	// Redis cache (optional)
	redisCache, err := cache.New(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisCache.Close()

	// Change-feed broker: Redis-backed when available, in-process otherwise
	var broker feed.Broker
	if client := redisCache.Client(); client != nil {
		broker, err = feed.NewRedisBroker(client)
		if err != nil {
			logger.Fatal("Failed to create Redis broker", zap.Error(err))
		}
	} else {
		broker = feed.NewMemoryBroker()
	}

	// Compute API client
	computeClient, err := compute.New(&cfg.Compute)
	if err != nil {
		logger.Fatal("Failed to create compute client", zap.Error(err))
	}

	// Build the data service
	repo := store.NewRepository(database.DB)
	svc := service.New(service.Deps{
		Posts:    store.NewPostRepository(repo),
		Comments: store.NewCommentRepository(repo),
		Profiles: store.NewProfileRepository(repo),
		Tags:     store.NewTagRepository(repo),
		Compute:  computeClient,
		Session:  session.FromEnv(),
		Broker:   broker,
		Cache:    redisCache,
	}, service.Options{
		DeleteCascade:    cfg.Service.DeleteCascade,
		TrendingCacheTTL: cfg.Service.TrendingCacheTTL,
	})

	// Create Gin router
	if cfg.Logging.Level == "DEBUG" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	apiRouter := api.NewRouter(svc, database, redisCache)
	apiRouter.SetupRoutes(router)

	// Create HTTP server
	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		logger.Info("Server starting", zap.String("address", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
