package eventstream

import "context"

// Publisher publishes confirmation events to an event stream backend.
type Publisher interface {
	Publish(ctx context.Context, event *InteractionConfirmedEvent) error
	Close() error
}
