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

	"github.com/simonai-git/restaurant-recommendations/internal/cache"
	"github.com/simonai-git/restaurant-recommendations/internal/cleanup"
	"github.com/simonai-git/restaurant-recommendations/internal/config"
	"github.com/simonai-git/restaurant-recommendations/internal/domain"
	"github.com/simonai-git/restaurant-recommendations/internal/handler"
	"github.com/simonai-git/restaurant-recommendations/internal/metrics"
	"github.com/simonai-git/restaurant-recommendations/internal/places"
	"github.com/simonai-git/restaurant-recommendations/internal/repository"
	"github.com/simonai-git/restaurant-recommendations/internal/service"
	"github.com/simonai-git/restaurant-recommendations/pkg/database"
	pkglog "github.com/simonai-git/restaurant-recommendations/pkg/log"
	"github.com/simonai-git/restaurant-recommendations/pkg/middleware"
)

const (
	serviceName = "restaurant-service"
	version     = "1.0.0"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	// Initialize structured logger
	pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Pretty,
		ServiceName: serviceName,
	})
	logger := pkglog.L()

	logger.Info().Str("version", version).Str("host", cfg.Server.Host).Int("port", cfg.Server.Port).
		Str("db_driver", cfg.Database.Driver).Bool("fast_store", cfg.Redis.Enabled()).
		Msg("starting restaurant service")

	// Initialize database
	db, err := database.New(&database.Config{
		Driver:          cfg.Database.Driver,
		DSN:             cfg.Database.URL,
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		TimeZone:        cfg.Database.TimeZone,
		FilePath:        cfg.Database.FilePath,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		LogLevel:        cfg.Database.LogLevel,
		SlowThreshold:   cfg.Database.SlowThreshold,
	}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db, domain.Models()...); err != nil {
			logger.Fatal().Err(err).Msg("failed to migrate database")
		}
		logger.Info().Msg("database migrated")
	}

	// Initialize fast store
	fastStore := cache.Open(context.Background(), cfg.Redis)

	// Initialize repositories and services
	cacheRepo := repository.NewGormCacheRepository(db)
	restaurantRepo := repository.NewGormRestaurantRepository(db)

	placesClient := places.NewClient(cfg.Places)
	if !placesClient.Enabled() {
		logger.Warn().Msg("places api key not configured, upstream lookups return empty results")
	}

	placesSvc := service.NewPlacesService(fastStore, cacheRepo, placesClient, cfg.Cache)
	restaurantSvc := service.NewRestaurantService(restaurantRepo)

	// Start expired row cleaner
	var cleaner *cleanup.Cleaner
	if cfg.Cleanup.Enabled {
		cleaner = cleanup.New(cacheRepo, cfg.Cleanup)
		cleaner.Start(context.Background())
		logger.Info().Dur("interval", cfg.Cleanup.Interval).Msg("cleaner started")
	}

	apiKey := middleware.NewAPIKeyMiddleware(cfg.Auth.APIKey)
	if !apiKey.Enabled() {
		logger.Warn().Msg("no api key configured, restaurant writes are unauthenticated")
	}

	// Setup Gin router
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(logger))
	r.Use(metrics.GinMiddleware())

	r.GET("/metrics", metrics.Handler())
	handler.NewHandler(placesSvc, restaurantSvc, fastStore, apiKey).RegisterRoutes(r)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("restaurant service listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down restaurant service")

	timeout := cfg.Server.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), timeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}

	if cleaner != nil {
		cleaner.Stop()
		select {
		case <-cleaner.Done():
		case <-shutdownCtx.Done():
			logger.Warn().Msg("cleaner did not stop before shutdown deadline")
		}
	}

	if err := fastStore.Close(); err != nil {
		logger.Error().Err(err).Msg("failed to close fast store")
	}
	if err := database.Close(db); err != nil {
		logger.Error().Err(err).Msg("failed to close database")
	}

	logger.Info().Msg("restaurant service stopped")
}
