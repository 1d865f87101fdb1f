package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/vetconnect/backend/internal/domain/repositories"
)

// CacheWarmingService preloads the clinic cache so the first proximity
// searches after a deploy do not all miss
type CacheWarmingService struct {
	clinics repositories.ClinicRepository
	limit   int
}

// NewCacheWarmingService creates a warmer reading through clinics, which
// should be the cached clinic repository
func NewCacheWarmingService(clinics repositories.ClinicRepository, limit int) *CacheWarmingService {
	return &CacheWarmingService{clinics: clinics, limit: limit}
}

// WarmCache reads the active clinic list and then each clinic by id. Both
// reads populate the cache as a side effect.
func (s *CacheWarmingService) WarmCache(ctx context.Context) error {
	active := true
	clinics, err := s.clinics.List(ctx, repositories.ClinicFilter{IsActive: &active, Limit: s.limit})
	if err != nil {
		return fmt.Errorf("failed to list clinics: %w", err)
	}

	ids := make([]string, 0, len(clinics))
	for _, c := range clinics {
		ids = append(ids, c.ID)
	}
	if len(ids) > 0 {
		if _, err := s.clinics.GetByIDs(ctx, ids); err != nil {
			return fmt.Errorf("failed to load clinics by id: %w", err)
		}
	}

	log.Info().Int("clinics", len(ids)).Msg("warmed clinic cache")
	return nil
}
