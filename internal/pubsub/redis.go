package pubsub

import (
	"context"
	"log/slog"
	"sync"

	"github.com/redis/go-redis/v9"
)

// RedisBridge implements Publisher and Subscriber on Redis pub/sub channels.
// It is the production notification backend: the matchmaking loop and every
// session coordinator publish through it, and the transport layer of each
// server process subscribes to its connected players' channels.
type RedisBridge struct {
	rdb *redis.Client

	mu   sync.Mutex
	subs []*redis.PubSub
}

// NewRedisBridge wraps an existing Redis client.
func NewRedisBridge(rdb *redis.Client) *RedisBridge {
	return &RedisBridge{rdb: rdb}
}

// Publish implements the Publisher interface.
func (rb *RedisBridge) Publish(ctx context.Context, msg Message) error {
	return rb.rdb.Publish(ctx, msg.Topic, msg.Payload).Err()
}

// Subscribe implements the Subscriber interface. The handler runs in a
// background goroutine until the context is canceled or the bridge closes.
func (rb *RedisBridge) Subscribe(ctx context.Context, topic string, handler Handler) error {
	sub := rb.rdb.Subscribe(ctx, topic)
	// Force the subscription onto the wire before returning so callers can
	// rely on not missing events published after Subscribe returns.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return err
	}

	rb.mu.Lock()
	rb.subs = append(rb.subs, sub)
	rb.mu.Unlock()

	ch := sub.Channel()
	go func() {
		defer sub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-ch:
				if !ok {
					return
				}
				msg := Message{Topic: m.Channel, Payload: []byte(m.Payload)}
				if err := handler(ctx, msg); err != nil {
					slog.Error("Failed to handle message", "topic", m.Channel, "error", err)
				}
			}
		}
	}()

	return nil
}

// Close tears down every active subscription. The underlying Redis client is
// owned by the caller and stays open.
func (rb *RedisBridge) Close() error {
	rb.mu.Lock()
	defer rb.mu.Unlock()
	for _, sub := range rb.subs {
		_ = sub.Close()
	}
	rb.subs = nil
	return nil
}
