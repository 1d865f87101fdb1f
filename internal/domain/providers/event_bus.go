package providers

import (
	"context"

	"github.com/vetconnect/backend/internal/domain/entities"
)

// EventChannelDataUpdates carries every DataChangeEvent
const EventChannelDataUpdates = "vetconnect:data:updates"

// EventBus defines the interface for publishing and subscribing to data change events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.DataChangeEvent) error

	// Subscribe delivers events on channel until ctx ends
	Subscribe(ctx context.Context, channel string) (<-chan *entities.DataChangeEvent, error)

	// Close closes the event bus and all subscriptions
	Close() error
}
