package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vetconnect/backend/internal/adapters/providers/geolocation"
	"github.com/vetconnect/backend/internal/api/handlers"
	"github.com/vetconnect/backend/internal/api/middleware"
	"github.com/vetconnect/backend/internal/api/routes"
	"github.com/vetconnect/backend/internal/application/services"
	"github.com/vetconnect/backend/internal/bootstrap"
	"github.com/vetconnect/backend/internal/infrastructure/observability"
	"github.com/vetconnect/backend/pkg/config"
	"github.com/vetconnect/backend/pkg/secrets"
)

func main() {
	if _, err := secrets.Apply(context.Background(), secrets.VaultConfigFromEnv()); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load secrets: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(shutdownCtx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Str("endpoint", cfg.OTEL.Endpoint).Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	res, err := bootstrap.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer res.Close()

	geocoder, err := geolocation.NewProvider(cfg.Geolocation, res.Cache)
	if err != nil {
		return err
	}

	// Services
	proximityService := services.NewProximityService(res.Source, cfg.Search, cfg.Timeouts, metrics)

	var analyticsService *services.SearchAnalyticsService
	if res.Analytics != nil {
		analyticsService = services.NewSearchAnalyticsService(res.Analytics)
		defer analyticsService.Wait()
	}

	searchService := services.NewSearchService(res.Source, proximityService, analyticsService, cfg.Search, cfg.Timeouts, metrics)
	clinicService := services.NewClinicService(res.Source, cfg.Search, cfg.Timeouts, metrics)
	locationService := services.NewLocationService(geocoder, nil, cfg.Timeouts, metrics)

	// Handlers
	var analyticsHandler *handlers.AnalyticsHandler
	if analyticsService != nil {
		analyticsHandler = handlers.NewAnalyticsHandler(analyticsService)
	}

	checks := make(map[string]handlers.HealthCheck, len(res.Checks))
	for name, check := range res.Checks {
		checks[name] = check
	}

	if res.ClinicCache != nil {
		warmer := services.NewCacheWarmingService(res.ClinicCache, cfg.Search.NearbyCandidateLimit)
		go func() {
			if err := warmer.WarmCache(ctx); err != nil {
				log.Warn().Err(err).Msg("cache warming failed")
			}
		}()
	}

	cacheMiddleware := middleware.NewCacheMiddleware(res.Cache, nil, cfg.Timeouts.CacheOperation, metrics)

	// Drop cached responses when the seed script or indexer rewrites data
	if res.Events != nil {
		var clinicCache services.Invalidator
		if res.ClinicCache != nil {
			clinicCache = res.ClinicCache
		}
		invalidation := services.NewCacheInvalidationService(res.Events, services.InvalidatorFunc(cacheMiddleware.InvalidateAll), clinicCache, cfg.Timeouts.RemoteQuery)
		if err := invalidation.Start(ctx); err != nil {
			log.Warn().Err(err).Msg("cache invalidation disabled")
		} else {
			defer invalidation.Wait()
		}
	}

	router := routes.NewRouter(
		handlers.NewVeterinarianHandler(searchService, proximityService, locationService, clinicService),
		handlers.NewClinicHandler(clinicService, proximityService),
		handlers.NewGeolocationHandler(locationService),
		handlers.NewDistanceHandler(proximityService),
		analyticsHandler,
		handlers.NewHealthHandler(res.Source.Name(), checks, cfg.Timeouts.RemoteQuery),
		routes.Options{
			Clinics:         res.Source.Clinics(),
			CacheMiddleware: cacheMiddleware,
			AllowedOrigins:  cfg.Server.AllowedOrigins,
			Metrics:         metrics,
		},
	)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Str("data_source", res.Source.Name()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Timeouts.ShutdownGrace)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info().Msg("server exited")
	return nil
}
