package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/genewar/internal/domain"
	"github.com/nfrund/genewar/internal/pubsub"
)

type fakeDispatcher struct {
	mu   sync.Mutex
	msgs []domain.ClientMsg
	err  error
}

func (f *fakeDispatcher) Dispatch(ctx context.Context, msg domain.ClientMsg) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msg)
	return nil
}

func (f *fakeDispatcher) dispatched() []domain.ClientMsg {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.ClientMsg(nil), f.msgs...)
}

type fakeSubscriber struct {
	mu       sync.Mutex
	handlers map[string]pubsub.Handler
}

func newFakeSubscriber() *fakeSubscriber {
	return &fakeSubscriber{handlers: make(map[string]pubsub.Handler)}
}

func (f *fakeSubscriber) Subscribe(ctx context.Context, topic string, handler pubsub.Handler) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[topic] = handler
	return nil
}

func (f *fakeSubscriber) Close() error { return nil }

func (f *fakeSubscriber) publish(topic string, payload []byte) bool {
	f.mu.Lock()
	handler, ok := f.handlers[topic]
	f.mu.Unlock()
	if !ok {
		return false
	}
	_ = handler(context.Background(), pubsub.Message{Topic: topic, Payload: payload})
	return true
}

type bridgeHarness struct {
	bridge     *Bridge
	dispatcher *fakeDispatcher
	subscriber *fakeSubscriber
	server     *httptest.Server
}

func newBridgeHarness(t *testing.T) *bridgeHarness {
	t.Helper()
	dispatcher := &fakeDispatcher{}
	subscriber := newFakeSubscriber()
	bridge := NewBridge(dispatcher, subscriber)

	e := echo.New()
	e.GET("/ws", bridge.Handler())
	server := httptest.NewServer(e)
	t.Cleanup(server.Close)

	return &bridgeHarness{bridge: bridge, dispatcher: dispatcher, subscriber: subscriber, server: server}
}

func (h *bridgeHarness) dial(t *testing.T, playerID uuid.UUID) *websocket.Conn {
	t.Helper()
	url := strings.Replace(h.server.URL, "http://", "ws://", 1) + "/ws?player_id=" + playerID.String()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.CloseNow() })

	require.Eventually(t, func() bool {
		return h.bridge.Connected(playerID) == 1
	}, time.Second, 5*time.Millisecond, "socket registered")
	return conn
}

func readFrame(t *testing.T, conn *websocket.Conn) []byte {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, payload, err := conn.Read(ctx)
	require.NoError(t, err)
	return payload
}

func TestHandlerRejectsBadPlayerID(t *testing.T) {
	h := newBridgeHarness(t)
	resp, err := http.Get(h.server.URL + "/ws?player_id=not-a-uuid")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInboundFrameDispatchedWithSocketIdentity(t *testing.T) {
	h := newBridgeHarness(t)
	playerID := uuid.New()
	matchID := uuid.New()
	conn := h.dial(t, playerID)

	// The frame claims a different player; the socket identity must win.
	frame, err := json.Marshal(map[string]any{
		"type":      "ready",
		"match_id":  matchID,
		"player_id": uuid.New(),
	})
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, frame))

	require.Eventually(t, func() bool {
		return len(h.dispatcher.dispatched()) == 1
	}, time.Second, 5*time.Millisecond)

	msg := h.dispatcher.dispatched()[0]
	assert.Equal(t, domain.ClientReady, msg.Type)
	assert.Equal(t, matchID, msg.MatchID)
	assert.Equal(t, playerID, msg.PlayerID)
}

func TestOutboundEventReachesSocket(t *testing.T) {
	h := newBridgeHarness(t)
	playerID := uuid.New()
	conn := h.dial(t, playerID)

	event, err := json.Marshal(domain.ServerMsg{Type: domain.ServerGameStart, MatchID: uuid.New(), Turn: 1})
	require.NoError(t, err)
	require.True(t, h.subscriber.publish(pubsub.PlayerTopic(playerID), event))

	var got domain.ServerMsg
	require.NoError(t, json.Unmarshal(readFrame(t, conn), &got))
	assert.Equal(t, domain.ServerGameStart, got.Type)
	assert.Equal(t, 1, got.Turn)
}

func TestMalformedFrameGetsErrorReply(t *testing.T) {
	h := newBridgeHarness(t)
	conn := h.dial(t, uuid.New())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, []byte("{not json")))

	var reply errorFrame
	require.NoError(t, json.Unmarshal(readFrame(t, conn), &reply))
	assert.Equal(t, "error", reply.Type)
	assert.Equal(t, "malformed", reply.Code)
	assert.Empty(t, h.dispatcher.dispatched())
}

func TestReservedDisconnectedFrameRejected(t *testing.T) {
	h := newBridgeHarness(t)
	conn := h.dial(t, uuid.New())

	frame, err := json.Marshal(map[string]any{
		"type":     "disconnected",
		"match_id": uuid.New(),
	})
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, frame))

	var reply errorFrame
	require.NoError(t, json.Unmarshal(readFrame(t, conn), &reply))
	assert.Equal(t, "reserved", reply.Code)
	assert.Empty(t, h.dispatcher.dispatched())
}

func TestSocketCloseReportsDisconnectToMatch(t *testing.T) {
	h := newBridgeHarness(t)
	playerID := uuid.New()
	matchID := uuid.New()
	conn := h.dial(t, playerID)

	frame, err := json.Marshal(map[string]any{
		"type":     "ready",
		"match_id": matchID,
	})
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, conn.Write(ctx, websocket.MessageText, frame))
	require.Eventually(t, func() bool {
		return len(h.dispatcher.dispatched()) == 1
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, conn.Close(websocket.StatusNormalClosure, "bye"))

	require.Eventually(t, func() bool {
		msgs := h.dispatcher.dispatched()
		return len(msgs) == 2 && msgs[1].Type == domain.ClientDisconnected
	}, time.Second, 5*time.Millisecond)

	msg := h.dispatcher.dispatched()[1]
	assert.Equal(t, matchID, msg.MatchID)
	assert.Equal(t, playerID, msg.PlayerID)
	assert.Zero(t, h.bridge.Connected(playerID))
}
