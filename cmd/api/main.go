package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jwalitptl/booking-api/internal/adminapi"
	"github.com/jwalitptl/booking-api/internal/cache"
	"github.com/jwalitptl/booking-api/internal/config"
	"github.com/jwalitptl/booking-api/internal/handler"
	availabilityHandler "github.com/jwalitptl/booking-api/internal/handler/availability"
	bookingHandler "github.com/jwalitptl/booking-api/internal/handler/booking"
	catalogHandler "github.com/jwalitptl/booking-api/internal/handler/catalog"
	patientHandler "github.com/jwalitptl/booking-api/internal/handler/patient"
	"github.com/jwalitptl/booking-api/internal/middleware"
	"github.com/jwalitptl/booking-api/internal/router"
	availabilityService "github.com/jwalitptl/booking-api/internal/service/availability"
	bookingService "github.com/jwalitptl/booking-api/internal/service/booking"
	catalogService "github.com/jwalitptl/booking-api/internal/service/catalog"
	"github.com/jwalitptl/booking-api/pkg/logger"
	"github.com/jwalitptl/booking-api/pkg/metrics"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	if cfg.AdminAPI.BaseURL == "" {
		log.Fatal().Msg("admin API base URL is not configured")
	}
	logger.SetupGlobal(cfg.Server.LogLevel)

	appMetrics := metrics.NewMetrics("booking_api", "core")

	// Admin API client and catalog cache
	providerClient := adminapi.NewClient(cfg.AdminAPI, appMetrics)
	catalogSvc := catalogService.NewService(providerClient, cfg.AdminAPI.CatalogTTL)

	// Optional shared day-summary cache
	var summaryCache *cache.SummaryCache
	if cfg.Redis.URL != "" {
		summaryCache, err = cache.NewSummaryCache(cfg.Redis.URL, cfg.Redis.SummaryTTL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer summaryCache.Close()
	}

	// Core services
	availabilitySvc := availabilityService.NewService(
		providerClient,
		catalogSvc,
		cfg.Calendar,
		summaryCache,
		appMetrics,
		time.Local,
	)
	bookingSvc := bookingService.NewService(providerClient, appMetrics)

	// Middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.PatientTokenSecret)
	h := handler.NewHandler()

	r := router.NewRouter(
		h,
		router.RouterConfig{
			RateLimitRPS:   cfg.Server.RateLimitRPS,
			RateLimitBurst: cfg.Server.RateLimitBurst,
			RequestTimeout: cfg.Server.RequestTimeout,
			CORSConfig:     middleware.DefaultCORSConfig(),
		},
		availabilityHandler.NewHandler(availabilitySvc),
		bookingHandler.NewHandler(bookingSvc, authMiddleware),
		catalogHandler.NewHandler(catalogSvc),
		patientHandler.NewHandler(providerClient, authMiddleware),
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	log.Info().Msg("server exited")
}
