package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatermillBridgeRoundTrip(t *testing.T) {
	bridge := NewWatermillBridge()
	t.Cleanup(func() { _ = bridge.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	topic := PlayerTopic(uuid.New())
	received := make(chan Message, 1)
	require.NoError(t, bridge.Subscribe(ctx, topic, func(_ context.Context, msg Message) error {
		received <- msg
		return nil
	}))

	require.NoError(t, bridge.Publish(ctx, Message{
		Topic:    topic,
		Payload:  []byte(`{"type":"game_start"}`),
		Metadata: map[string]string{"origin": "test"},
	}))

	select {
	case msg := <-received:
		assert.Equal(t, topic, msg.Topic)
		assert.JSONEq(t, `{"type":"game_start"}`, string(msg.Payload))
		assert.Equal(t, "test", msg.Metadata["origin"])
	case <-time.After(2 * time.Second):
		t.Fatal("message never delivered")
	}
}

func TestWatermillBridgeTopicsAreIsolated(t *testing.T) {
	bridge := NewWatermillBridge()
	t.Cleanup(func() { _ = bridge.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	playerA := PlayerTopic(uuid.New())
	playerB := PlayerTopic(uuid.New())
	gotA := make(chan Message, 1)
	require.NoError(t, bridge.Subscribe(ctx, playerA, func(_ context.Context, msg Message) error {
		gotA <- msg
		return nil
	}))

	require.NoError(t, bridge.Publish(ctx, Message{Topic: playerB, Payload: []byte("b")}))
	require.NoError(t, bridge.Publish(ctx, Message{Topic: playerA, Payload: []byte("a")}))

	select {
	case msg := <-gotA:
		assert.Equal(t, []byte("a"), msg.Payload)
	case <-time.After(2 * time.Second):
		t.Fatal("message never delivered")
	}
	assert.Empty(t, gotA)
}

func TestPlayerTopic(t *testing.T) {
	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	assert.Equal(t, "player.11111111-2222-3333-4444-555555555555.events", PlayerTopic(id))
}
