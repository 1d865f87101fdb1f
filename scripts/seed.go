package main

import (
	"context"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/vetconnect/backend/internal/adapters/database"
	"github.com/vetconnect/backend/internal/adapters/events"
	"github.com/vetconnect/backend/internal/adapters/fixture"
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

func main() {
	if _, err := secrets.Apply(context.Background(), secrets.VaultConfigFromEnv()); err != nil {
		log.Fatal().Err(err).Msg("failed to load secrets")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	observability.InitLogger("vetconnect-seed", cfg.Env)

	ctx := context.Background()

	pgClient, err := postgres.NewClient(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pgClient.Close()

	var index *search.TypesenseAdapter
	if tsClient, err := typesense.NewClient(ctx, &cfg.Typesense, cfg.Timeouts.RemoteQuery); err != nil {
		log.Warn().Err(err).Msg("typesense unavailable; seeding postgres only")
	} else {
		index = search.NewTypesenseAdapter(tsClient)
		if err := index.InitSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to initialize typesense schema")
		}
	}

	if os.Getenv("RESET_DB") == "true" {
		log.Info().Msg("RESET_DB=true detected, truncating tables before seeding")
		if _, err := pgClient.DB().ExecContext(ctx, `
			TRUNCATE TABLE
				search_analytics,
				veterinarians,
				clinics
			RESTART IDENTITY CASCADE
		`); err != nil {
			log.Fatal().Err(err).Msg("failed to reset tables")
		}
	}

	data, err := fixture.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load fixture data")
	}

	clinics, err := data.Clinics().List(ctx, repositories.ClinicFilter{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to list fixture clinics")
	}
	vets, err := data.Veterinarians().List(ctx, repositories.VeterinarianFilter{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to list fixture veterinarians")
	}

	clinicRepo := database.NewClinicAdapter(pgClient)
	for _, c := range clinics {
		if err := clinicRepo.Upsert(ctx, c); err != nil {
			log.Error().Err(err).Str("clinic_id", c.ID).Msg("failed to upsert clinic")
		}
	}

	vetRepo := database.NewVeterinarianAdapter(pgClient)
	for _, v := range vets {
		if err := vetRepo.Upsert(ctx, v); err != nil {
			log.Error().Err(err).Str("veterinarian_id", v.ID).Msg("failed to upsert veterinarian")
			continue
		}
		if index != nil {
			if err := index.Index(ctx, v); err != nil {
				log.Error().Err(err).Str("veterinarian_id", v.ID).Msg("failed to index veterinarian")
			}
		}
	}

	log.Info().Int("clinics", len(clinics)).Int("veterinarians", len(vets)).Msg("seeding completed")

	clinicIDs := make([]string, len(clinics))
	for i, c := range clinics {
		clinicIDs[i] = c.ID
	}
	announce(ctx, cfg, entities.DataChangeClinics, clinicIDs)
}

// announce tells running servers that data changed. Failures only log.
func announce(ctx context.Context, cfg *config.Config, kind entities.DataChangeKind, ids []string) {
	if !cfg.Redis.Enabled {
		return
	}
	client, err := redis.NewClient(ctx, &cfg.Redis, cfg.Timeouts.CacheOperation)
	if err != nil {
		log.Warn().Err(err).Msg("redis unavailable; running servers keep their caches until expiry")
		return
	}
	defer client.Close()

	bus := events.NewRedisEventBus(client)
	defer bus.Close()
	if err := services.PublishDataChange(ctx, bus, kind, "seed", ids); err != nil {
		log.Warn().Err(err).Msg("failed to announce data change")
	}
}
