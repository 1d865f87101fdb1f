package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/vetconnect/backend/internal/domain/entities"
	"github.com/vetconnect/backend/internal/domain/providers"
	"github.com/vetconnect/backend/internal/domain/repositories"
)

// Cache TTLs (in seconds)
const (
	clinicByIDTTL  = 300
	clinicsListTTL = 180
)

func clinicCacheKey(id string) string {
	return fmt.Sprintf("clinic:%s", id)
}

func clinicsListCacheKey(filter repositories.ClinicFilter) string {
	active := "any"
	if filter.IsActive != nil {
		active = fmt.Sprintf("%t", *filter.IsActive)
	}
	return fmt.Sprintf("clinics:list:%s:%d:%d", active, filter.Limit, filter.Offset)
}

// CachedClinicAdapter wraps a ClinicRepository with a read-through cache.
// Cache writes happen in the background under their own deadline so a slow
// cache never delays a response.
type CachedClinicAdapter struct {
	adapter      repositories.ClinicRepository
	cache        providers.CacheProvider
	cacheTimeout time.Duration
}

var _ repositories.ClinicRepository = (*CachedClinicAdapter)(nil)

// NewCachedClinicAdapter creates a new cached clinic adapter
func NewCachedClinicAdapter(adapter repositories.ClinicRepository, cache providers.CacheProvider, cacheTimeout time.Duration) *CachedClinicAdapter {
	return &CachedClinicAdapter{
		adapter:      adapter,
		cache:        cache,
		cacheTimeout: cacheTimeout,
	}
}

// GetByID retrieves a clinic by ID with caching
func (a *CachedClinicAdapter) GetByID(ctx context.Context, id string) (*entities.Clinic, error) {
	cacheKey := clinicCacheKey(id)

	if cached, err := a.cacheGet(ctx, cacheKey); err == nil {
		var clinic entities.Clinic
		if err := json.Unmarshal(cached, &clinic); err == nil {
			return &clinic, nil
		}
		log.Warn().Str("clinic_id", id).Msg("discarding undecodable cached clinic")
	}

	clinic, err := a.adapter.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a.writeBehind(func(bgCtx context.Context) error {
		data, err := json.Marshal(clinic)
		if err != nil {
			return err
		}
		return a.cache.Set(bgCtx, cacheKey, data, clinicByIDTTL)
	})

	return clinic, nil
}

// GetByIDs serves what it can from cache and fetches the rest in one batch.
// Results follow the order of ids; unknown ids are skipped.
func (a *CachedClinicAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Clinic, error) {
	if len(ids) == 0 {
		return []*entities.Clinic{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = clinicCacheKey(id)
	}

	cached, err := a.cacheGetMulti(ctx, keys)
	if err != nil {
		log.Debug().Err(err).Msg("clinic batch cache lookup failed")
	}

	byID := make(map[string]*entities.Clinic, len(ids))
	queued := make(map[string]bool)
	var missing []string
	for i, id := range ids {
		if data, ok := cached[keys[i]]; ok {
			var clinic entities.Clinic
			if err := json.Unmarshal(data, &clinic); err == nil {
				byID[id] = &clinic
				continue
			}
		}
		if _, seen := byID[id]; !seen && !queued[id] {
			queued[id] = true
			missing = append(missing, id)
		}
	}

	if len(missing) > 0 {
		fetched, err := a.adapter.GetByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}

		items := make(map[string][]byte, len(fetched))
		for _, clinic := range fetched {
			byID[clinic.ID] = clinic
			if data, err := json.Marshal(clinic); err == nil {
				items[clinicCacheKey(clinic.ID)] = data
			}
		}

		if len(items) > 0 {
			a.writeBehind(func(bgCtx context.Context) error {
				return a.cache.SetMulti(bgCtx, items, clinicByIDTTL)
			})
		}
	}

	clinics := make([]*entities.Clinic, 0, len(byID))
	emitted := make(map[string]bool, len(byID))
	for _, id := range ids {
		if clinic, ok := byID[id]; ok && !emitted[id] {
			clinics = append(clinics, clinic)
			emitted[id] = true
		}
	}
	return clinics, nil
}

// List retrieves a list of clinics with caching
func (a *CachedClinicAdapter) List(ctx context.Context, filter repositories.ClinicFilter) ([]*entities.Clinic, error) {
	cacheKey := clinicsListCacheKey(filter)

	if cached, err := a.cacheGet(ctx, cacheKey); err == nil {
		var clinics []*entities.Clinic
		if err := json.Unmarshal(cached, &clinics); err == nil {
			return clinics, nil
		}
		log.Warn().Str("key", cacheKey).Msg("discarding undecodable cached clinic list")
	}

	clinics, err := a.adapter.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	a.writeBehind(func(bgCtx context.Context) error {
		data, err := json.Marshal(clinics)
		if err != nil {
			return err
		}
		return a.cache.Set(bgCtx, cacheKey, data, clinicsListTTL)
	})

	return clinics, nil
}

// Invalidate drops every cached clinic and clinic list
func (a *CachedClinicAdapter) Invalidate(ctx context.Context) error {
	for _, pattern := range []string{"clinic:*", "clinics:list:*"} {
		if err := a.cache.DeletePattern(ctx, pattern); err != nil {
			return err
		}
	}
	return nil
}

func (a *CachedClinicAdapter) cacheGet(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cacheTimeout)
	defer cancel()
	return a.cache.Get(ctx, key)
}

func (a *CachedClinicAdapter) cacheGetMulti(ctx context.Context, keys []string) (map[string][]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cacheTimeout)
	defer cancel()
	return a.cache.GetMulti(ctx, keys)
}

func (a *CachedClinicAdapter) writeBehind(write func(context.Context) error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), a.cacheTimeout)
		defer cancel()
		if err := write(ctx); err != nil {
			log.Warn().Err(err).Msg("failed to update clinic cache")
		}
	}()
}
