package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vetconnect/backend/internal/application/services"
	"github.com/vetconnect/backend/internal/domain/entities"
)

// chanBus is an in-process EventBus with a single channel
type chanBus struct {
	mu        sync.Mutex
	events    chan *entities.DataChangeEvent
	published []*entities.DataChangeEvent
	subErr    error
}

func newChanBus() *chanBus {
	return &chanBus{events: make(chan *entities.DataChangeEvent, 8)}
}

func (b *chanBus) Publish(ctx context.Context, channel string, event *entities.DataChangeEvent) error {
	b.mu.Lock()
	b.published = append(b.published, event)
	b.mu.Unlock()
	b.events <- event
	return nil
}

func (b *chanBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.DataChangeEvent, error) {
	if b.subErr != nil {
		return nil, b.subErr
	}
	out := make(chan *entities.DataChangeEvent)
	go func() {
		defer close(out)
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-b.events:
				out <- event
			}
		}
	}()
	return out, nil
}

func (b *chanBus) Close() error { return nil }

type MockInvalidator struct {
	mock.Mock
}

func (m *MockInvalidator) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func startInvalidation(t *testing.T, bus *chanBus, responses, clinics services.Invalidator) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	svc := services.NewCacheInvalidationService(bus, responses, clinics, time.Second)
	require.NoError(t, svc.Start(ctx))
	t.Cleanup(func() {
		cancel()
		svc.Wait()
	})
}

// signalOn makes m.Invalidate succeed and report each call on the returned channel
func signalOn(m *MockInvalidator) <-chan struct{} {
	done := make(chan struct{}, 4)
	m.On("Invalidate", mock.Anything).Return(nil).Run(func(mock.Arguments) {
		done <- struct{}{}
	})
	return done
}

func waitFor(t *testing.T, done <-chan struct{}) {
	t.Helper()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("cache was not invalidated")
	}
}

func TestCacheInvalidation_ClinicChangeClearsBothCaches(t *testing.T) {
	bus := newChanBus()
	responses := new(MockInvalidator)
	clinics := new(MockInvalidator)
	done := signalOn(responses)
	clinics.On("Invalidate", mock.Anything).Return(nil)

	startInvalidation(t, bus, responses, clinics)
	require.NoError(t, services.PublishDataChange(context.Background(), bus, entities.DataChangeClinics, "test", []string{"clinic-1"}))

	waitFor(t, done)
	clinics.AssertNumberOfCalls(t, "Invalidate", 1)
}

func TestCacheInvalidation_VeterinarianChangeKeepsClinicCache(t *testing.T) {
	bus := newChanBus()
	responses := new(MockInvalidator)
	clinics := new(MockInvalidator)
	done := signalOn(responses)

	startInvalidation(t, bus, responses, clinics)
	require.NoError(t, services.PublishDataChange(context.Background(), bus, entities.DataChangeVeterinarians, "test", nil))

	waitFor(t, done)
	clinics.AssertNotCalled(t, "Invalidate", mock.Anything)
}

func TestCacheInvalidation_ClinicFailureStillClearsResponses(t *testing.T) {
	bus := newChanBus()
	responses := new(MockInvalidator)
	done := signalOn(responses)
	clinics := services.InvalidatorFunc(func(ctx context.Context) error { return errors.New("redis down") })

	startInvalidation(t, bus, responses, clinics)
	require.NoError(t, services.PublishDataChange(context.Background(), bus, entities.DataChangeReindex, "test", nil))

	waitFor(t, done)
}

func TestCacheInvalidation_SubscribeError(t *testing.T) {
	bus := newChanBus()
	bus.subErr = errors.New("no redis")

	svc := services.NewCacheInvalidationService(bus, new(MockInvalidator), nil, time.Second)
	assert.Error(t, svc.Start(context.Background()))
}

func TestPublishDataChange(t *testing.T) {
	bus := newChanBus()
	require.NoError(t, services.PublishDataChange(context.Background(), bus, entities.DataChangeVeterinarians, "seed", []string{"vet-1"}))

	require.Len(t, bus.published, 1)
	event := bus.published[0]
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, entities.DataChangeVeterinarians, event.Kind)
	assert.Equal(t, "seed", event.Source)
	assert.Equal(t, []string{"vet-1"}, event.EntityIDs)
	assert.False(t, event.Timestamp.IsZero())
}
