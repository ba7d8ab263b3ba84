// Package eventbus defines the publish/subscribe contract used to fan out
// domain events after a transaction commits.
package eventbus

import (
	"context"

	"github.com/amirasaad/donation/pkg/domain/events"
)

// HandlerFunc handles a single event. Returned errors are logged by the bus.
type HandlerFunc func(ctx context.Context, e events.Event) error

// Bus is implemented by the memory, Redis Streams and Kafka drivers.
type Bus interface {
	Register(eventType events.EventType, handler HandlerFunc)
	Emit(ctx context.Context, event events.Event) error
}
