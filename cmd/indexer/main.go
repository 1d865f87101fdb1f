package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vetconnect/backend/internal/adapters/database"
	"github.com/vetconnect/backend/internal/adapters/events"
	"github.com/vetconnect/backend/internal/adapters/search"
	"github.com/vetconnect/backend/internal/application/services"
	"github.com/vetconnect/backend/internal/domain/entities"
	"github.com/vetconnect/backend/internal/domain/repositories"
	"github.com/vetconnect/backend/internal/infrastructure/clients/postgres"
	"github.com/vetconnect/backend/internal/infrastructure/clients/redis"
	"github.com/vetconnect/backend/internal/infrastructure/clients/typesense"
	"github.com/vetconnect/backend/internal/infrastructure/observability"
	"github.com/vetconnect/backend/pkg/config"
	"github.com/vetconnect/backend/pkg/secrets"
)

const pageSize = 500

func main() {
	var reset bool
	var intervalFlag string
	flag.BoolVar(&reset, "reset", false, "delete the existing Typesense collection before reindexing")
	flag.StringVar(&intervalFlag, "interval", "", "repeat interval for reindexing (e.g. 6h, 30m)")
	flag.Parse()

	if _, err := secrets.Apply(context.Background(), secrets.VaultConfigFromEnv()); err != nil {
		log.Fatal().Err(err).Msg("failed to load secrets")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	observability.InitLogger("vetconnect-indexer", cfg.Env)

	intervalValue := strings.TrimSpace(intervalFlag)
	if intervalValue == "" {
		intervalValue = strings.TrimSpace(os.Getenv("REINDEX_INTERVAL"))
	}

	var interval time.Duration
	if intervalValue != "" {
		interval, err = time.ParseDuration(intervalValue)
		if err != nil || interval <= 0 {
			log.Fatal().Str("interval", intervalValue).Msg("interval must be a positive duration")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	for {
		if err := indexOnce(ctx, cfg, reset); err != nil {
			log.Error().Err(err).Msg("reindex failed")
		}

		if interval <= 0 {
			break
		}

		reset = false
		log.Info().Dur("next_run_in", interval).Msg("reindex complete")

		select {
		case <-ctx.Done():
			log.Info().Msg("indexer shutting down")
			return
		case <-time.After(interval):
		}
	}
}

func indexOnce(ctx context.Context, cfg *config.Config, reset bool) error {
	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		return err
	}
	defer pgClient.Close()

	tsClient, err := typesense.NewClient(ctx, &cfg.Typesense, cfg.Timeouts.RemoteQuery)
	if err != nil {
		return err
	}

	if reset || os.Getenv("RESET_TYPESENSE") == "true" {
		log.Info().Str("collection", search.CollectionName).Msg("deleting collection before reindex")
		if _, err := tsClient.Client().Collection(search.CollectionName).Delete(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to delete collection")
		}
	}

	index := search.NewTypesenseAdapter(tsClient)
	if err := index.InitSchema(ctx); err != nil {
		return err
	}

	vets := database.NewVeterinarianAdapter(pgClient)

	indexed, failed := 0, 0
	for offset := 0; ; offset += pageSize {
		page, err := vets.List(ctx, repositories.VeterinarianFilter{Limit: pageSize, Offset: offset})
		if err != nil {
			return err
		}

		for _, vet := range page {
			if vet == nil {
				continue
			}
			if err := index.Index(ctx, vet); err != nil {
				failed++
				log.Warn().Err(err).Str("veterinarian_id", vet.ID).Msg("failed to index veterinarian")
				continue
			}
			indexed++
		}

		if len(page) < pageSize {
			break
		}
	}

	log.Info().Int("indexed", indexed).Int("failed", failed).Msg("indexed veterinarians")
	announceReindex(ctx, cfg)
	return nil
}

// announceReindex lets running servers drop responses built from the old index
func announceReindex(ctx context.Context, cfg *config.Config) {
	if !cfg.Redis.Enabled {
		return
	}
	client, err := redis.NewClient(ctx, &cfg.Redis, cfg.Timeouts.CacheOperation)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable; skipping reindex announcement")
		return
	}
	defer client.Close()

	bus := events.NewRedisEventBus(client)
	defer bus.Close()
	if err := services.PublishDataChange(ctx, bus, entities.DataChangeReindex, "indexer", nil); err != nil {
		log.Warn().Err(err).Msg("failed to announce reindex")
	}
}
