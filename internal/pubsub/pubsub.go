package pubsub

import (
	"context"
)

// Message is the structure passed between components on the bus.
// It is intentionally simple to act as a wrapper for raw data.
type Message struct {
	// Topic identifies the channel the message belongs to
	// (e.g., "player.<id>.events").
	Topic string
	// Payload contains the raw message data (JSON-encoded events).
	Payload []byte
	// Metadata can contain arbitrary key-value pairs for context.
	Metadata map[string]string
}

// Handler defines the function signature for processing a received message.
type Handler func(ctx context.Context, msg Message) error

// Publisher defines the contract for sending events to the notification
// channel. Delivery is best-effort: a failed publish is reported to the
// caller but never rolls back state that was already committed.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Subscriber defines the contract for receiving events from the notification
// channel. Subscribe registers the handler and returns; delivery stops when
// the context is canceled.
type Subscriber interface {
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}

// Bus is a backend that can both publish and subscribe. The server picks one
// at startup: Redis for multi-process deployments, the in-memory watermill
// bridge for single-process ones.
type Bus interface {
	Publisher
	Subscriber
}
