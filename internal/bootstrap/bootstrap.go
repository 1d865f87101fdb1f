// Package bootstrap opens the data source, cache, event bus and analytics
// store named in configuration. The API server, the CLI and the tooling share it.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/vetconnect/backend/internal/adapters/cache"
	"github.com/vetconnect/backend/internal/adapters/database"
	"github.com/vetconnect/backend/internal/adapters/events"
	"github.com/vetconnect/backend/internal/adapters/fixture"
	"github.com/vetconnect/backend/internal/adapters/search"
	"github.com/vetconnect/backend/internal/domain/providers"
	"github.com/vetconnect/backend/internal/domain/repositories"
	"github.com/vetconnect/backend/internal/infrastructure/clients/postgres"
	"github.com/vetconnect/backend/internal/infrastructure/clients/redis"
	"github.com/vetconnect/backend/internal/infrastructure/clients/typesense"
	"github.com/vetconnect/backend/pkg/config"
)

// Resources are the opened backends. Close releases them.
type Resources struct {
	Source repositories.DataSource

	// Cache is redis when reachable, otherwise an in-process cache
	Cache providers.CacheProvider

	// Analytics is nil for the fixture source
	Analytics repositories.SearchAnalyticsRepository

	// Events is nil unless redis is reachable
	Events providers.EventBus

	// ClinicCache is nil for the fixture source
	ClinicCache *database.CachedClinicAdapter

	// Checks probe each remote dependency for the health endpoint
	Checks map[string]func(context.Context) error

	Postgres  *postgres.Client
	Typesense *typesense.Client

	closers []func() error
}

// Open connects to everything cfg asks for
func Open(ctx context.Context, cfg *config.Config) (*Resources, error) {
	res := &Resources{Checks: map[string]func(context.Context) error{}}

	res.Cache = res.openCache(ctx, cfg)

	switch cfg.DataSource {
	case config.DataSourceFixture:
		source, err := fixture.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load fixture data: %w", err)
		}
		res.Source = source

	case config.DataSourcePostgres, config.DataSourceTypesense:
		if err := res.openRemote(ctx, cfg); err != nil {
			res.Close()
			return nil, err
		}

	default:
		res.Close()
		return nil, fmt.Errorf("unknown data source %q", cfg.DataSource)
	}

	log.Info().Str("data_source", res.Source.Name()).Msg("data source ready")
	return res, nil
}

func (r *Resources) openCache(ctx context.Context, cfg *config.Config) providers.CacheProvider {
	if !cfg.Redis.Enabled {
		log.Info().Msg("redis disabled; using in-process cache")
		return cache.NewMemoryCache()
	}

	client, err := redis.NewClient(ctx, &cfg.Redis, cfg.Timeouts.CacheOperation)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable; using in-process cache")
		return cache.NewMemoryCache()
	}

	r.closers = append(r.closers, client.Close)
	r.Checks["redis"] = client.Ping

	bus := events.NewRedisEventBus(client)
	r.closers = append(r.closers, bus.Close)
	r.Events = bus

	return cache.NewRedisAdapter(client)
}

func (r *Resources) openRemote(ctx context.Context, cfg *config.Config) error {
	pg, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	r.Postgres = pg
	r.closers = append(r.closers, pg.Close)
	r.Checks["postgres"] = pg.Ping

	r.ClinicCache = database.NewCachedClinicAdapter(database.NewClinicAdapter(pg), r.Cache, cfg.Timeouts.CacheOperation)
	source := database.NewRemoteSource(database.NewVeterinarianAdapter(pg), r.ClinicCache)
	r.Analytics = database.NewSearchAnalyticsAdapter(pg)

	if cfg.DataSource == config.DataSourceTypesense {
		ts, err := typesense.NewClient(ctx, &cfg.Typesense, cfg.Timeouts.RemoteQuery)
		if err != nil {
			return err
		}
		r.Typesense = ts

		index := search.NewTypesenseAdapter(ts)
		if err := index.InitSchema(ctx); err != nil {
			return fmt.Errorf("failed to initialize typesense schema: %w", err)
		}
		r.Source = source.WithIndex(index)
		return nil
	}

	r.Source = source
	return nil
}

// Close releases every opened client, most recent first
func (r *Resources) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i](); err != nil {
			log.Warn().Err(err).Msg("failed to close client")
		}
	}
	r.closers = nil
}
