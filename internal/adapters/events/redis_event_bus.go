package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/vetconnect/backend/internal/domain/entities"
	"github.com/vetconnect/backend/internal/domain/providers"
	redisclient "github.com/vetconnect/backend/internal/infrastructure/clients/redis"
)

// subscriberBuffer is how many undelivered events a slow subscriber may hold
const subscriberBuffer = 32

// RedisEventBus implements the EventBus interface using Redis Pub/Sub. Each
// channel has one Redis subscription fanned out to local subscribers.
type RedisEventBus struct {
	client        *redisclient.Client
	subscriptions map[string]*redis.PubSub
	subscribers   map[string]map[chan *entities.DataChangeEvent]struct{}
	mu            sync.Mutex
	ctx           context.Context
	cancel        context.CancelFunc
}

var _ providers.EventBus = (*RedisEventBus)(nil)

// NewRedisEventBus creates a new Redis-based event bus
func NewRedisEventBus(client *redisclient.Client) *RedisEventBus {
	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client:        client,
		subscriptions: make(map[string]*redis.PubSub),
		subscribers:   make(map[string]map[chan *entities.DataChangeEvent]struct{}),
		ctx:           ctx,
		cancel:        cancel,
	}
}

// Publish publishes an event to all subscribers
func (b *RedisEventBus) Publish(ctx context.Context, channel string, event *entities.DataChangeEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.client.Client().Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	log.Debug().Str("channel", channel).Str("event_id", event.ID).Str("kind", string(event.Kind)).Msg("published event")
	return nil
}

// Subscribe delivers events on channel until ctx ends, then closes the returned channel
func (b *RedisEventBus) Subscribe(ctx context.Context, channel string) (<-chan *entities.DataChangeEvent, error) {
	b.mu.Lock()
	if b.ctx.Err() != nil {
		b.mu.Unlock()
		return nil, errors.New("event bus is closed")
	}

	if _, exists := b.subscriptions[channel]; !exists {
		pubsub := b.client.Client().Subscribe(b.ctx, channel)
		if _, err := pubsub.Receive(ctx); err != nil {
			_ = pubsub.Close()
			b.mu.Unlock()
			return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
		}
		b.subscriptions[channel] = pubsub
		go b.receive(channel, pubsub)
	}

	if b.subscribers[channel] == nil {
		b.subscribers[channel] = make(map[chan *entities.DataChangeEvent]struct{})
	}
	events := make(chan *entities.DataChangeEvent, subscriberBuffer)
	b.subscribers[channel][events] = struct{}{}
	b.mu.Unlock()

	log.Info().Str("channel", channel).Msg("subscribed to events")

	go func() {
		select {
		case <-ctx.Done():
		case <-b.ctx.Done():
		}
		b.removeSubscriber(channel, events)
	}()

	return events, nil
}

// receive fans messages from Redis out to local subscribers
func (b *RedisEventBus) receive(channel string, pubsub *redis.PubSub) {
	for msg := range pubsub.Channel() {
		var event entities.DataChangeEvent
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Warn().Err(err).Str("channel", channel).Msg("dropping undecodable event")
			continue
		}

		b.mu.Lock()
		for subscriber := range b.subscribers[channel] {
			select {
			case subscriber <- &event:
			default:
				log.Warn().Str("channel", channel).Str("event_id", event.ID).Msg("subscriber is full; dropping event")
			}
		}
		b.mu.Unlock()
	}
}

func (b *RedisEventBus) removeSubscriber(channel string, events chan *entities.DataChangeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subscribers, ok := b.subscribers[channel]
	if !ok {
		return
	}
	if _, ok := subscribers[events]; !ok {
		return
	}
	delete(subscribers, events)
	close(events)

	if len(subscribers) > 0 {
		return
	}
	delete(b.subscribers, channel)
	if pubsub, ok := b.subscriptions[channel]; ok {
		if err := pubsub.Close(); err != nil {
			log.Warn().Err(err).Str("channel", channel).Msg("failed to close subscription")
		}
		delete(b.subscriptions, channel)
	}
}

// Close ends every subscription. Subscriber channels are closed shortly after.
func (b *RedisEventBus) Close() error {
	b.cancel()

	b.mu.Lock()
	defer b.mu.Unlock()

	var errs []error
	for channel, pubsub := range b.subscriptions {
		if err := pubsub.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", channel, err))
		}
		delete(b.subscriptions, channel)
	}
	return errors.Join(errs...)
}
