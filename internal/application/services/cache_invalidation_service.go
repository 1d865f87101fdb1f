package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/vetconnect/backend/internal/domain/entities"
	"github.com/vetconnect/backend/internal/domain/providers"
)

// Invalidator drops a group of cached entries
type Invalidator interface {
	Invalidate(ctx context.Context) error
}

// InvalidatorFunc adapts a function to Invalidator
type InvalidatorFunc func(ctx context.Context) error

// Invalidate calls f
func (f InvalidatorFunc) Invalidate(ctx context.Context) error { return f(ctx) }

// CacheInvalidationService listens for data change events and drops the
// caches they make stale. Clinic changes clear the clinic cache and the
// HTTP response cache; veterinarian changes clear the response cache only.
type CacheInvalidationService struct {
	bus       providers.EventBus
	responses Invalidator
	clinics   Invalidator
	timeout   time.Duration
	wg        sync.WaitGroup
}

// NewCacheInvalidationService creates the service. clinics may be nil when
// clinics are not cached.
func NewCacheInvalidationService(bus providers.EventBus, responses, clinics Invalidator, timeout time.Duration) *CacheInvalidationService {
	return &CacheInvalidationService{
		bus:       bus,
		responses: responses,
		clinics:   clinics,
		timeout:   timeout,
	}
}

// Start subscribes and processes events until ctx ends
func (s *CacheInvalidationService) Start(ctx context.Context) error {
	events, err := s.bus.Subscribe(ctx, providers.EventChannelDataUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to data updates: %w", err)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		for event := range events {
			s.handle(event)
		}
	}()

	log.Info().Msg("cache invalidation service started")
	return nil
}

// Wait blocks until the event loop has drained after ctx ended
func (s *CacheInvalidationService) Wait() {
	s.wg.Wait()
}

func (s *CacheInvalidationService) handle(event *entities.DataChangeEvent) {
	if event == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	logger := log.With().Str("event_id", event.ID).Str("kind", string(event.Kind)).Logger()

	if s.clinics != nil && (event.Kind == entities.DataChangeClinics || event.Kind == entities.DataChangeReindex) {
		if err := s.clinics.Invalidate(ctx); err != nil {
			logger.Warn().Err(err).Msg("failed to invalidate clinic cache")
		}
	}

	if err := s.responses.Invalidate(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to invalidate response cache")
		return
	}
	logger.Info().Int("entities", len(event.EntityIDs)).Msg("invalidated caches")
}

// PublishDataChange announces a change of kind on bus. Tools that write
// clinics or veterinarians call it so running servers drop stale caches.
func PublishDataChange(ctx context.Context, bus providers.EventBus, kind entities.DataChangeKind, source string, ids []string) error {
	return bus.Publish(ctx, providers.EventChannelDataUpdates, &entities.DataChangeEvent{
		ID:        uuid.NewString(),
		Kind:      kind,
		EntityIDs: ids,
		Source:    source,
		Timestamp: time.Now().UTC(),
	})
}
