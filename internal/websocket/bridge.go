// Package websocket connects players to the game over WebSocket. The bridge
// owns every live connection on this process: inbound frames are decoded,
// validated and handed to the session dispatcher, and each connected player's
// notification topic is subscribed once and fanned out to all of that
// player's sockets.
package websocket

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nfrund/genewar/internal/domain"
	"github.com/nfrund/genewar/internal/pubsub"
)

// GameDispatcher routes inbound client messages to their match coordinator.
type GameDispatcher interface {
	Dispatch(ctx context.Context, msg domain.ClientMsg) error
}

// Bridge manages all WebSocket connections and routes messages between
// connected players and the Pub/Sub message bus.
type Bridge struct {
	dispatcher GameDispatcher
	subscriber pubsub.Subscriber
	validate   *validator.Validate

	// mu protects the connection and subscription maps; a player can hold
	// several sockets at once (reconnect race, second tab).
	mu      sync.RWMutex
	clients map[uuid.UUID][]*Client
	cancels map[uuid.UUID]context.CancelFunc
}

// NewBridge initializes a new Bridge, ready to handle connections.
func NewBridge(dispatcher GameDispatcher, subscriber pubsub.Subscriber) *Bridge {
	return &Bridge{
		dispatcher: dispatcher,
		subscriber: subscriber,
		validate:   validator.New(),
		clients:    make(map[uuid.UUID][]*Client),
		cancels:    make(map[uuid.UUID]context.CancelFunc),
	}
}

// Handler returns an echo.HandlerFunc that upgrades the request and serves
// the connection until the socket closes.
func (b *Bridge) Handler() echo.HandlerFunc {
	return func(c echo.Context) error {
		playerID, err := uuid.Parse(c.QueryParam("player_id"))
		if err != nil {
			return c.String(http.StatusBadRequest, "player_id must be a UUID")
		}

		conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
			InsecureSkipVerify: true, // In production, check origin.
		})
		if err != nil {
			slog.Error("Failed to upgrade connection to WebSocket", "error", err)
			return err
		}

		client := &Client{
			PlayerID: playerID,
			conn:     conn,
			send:     make(chan []byte, 256),
			bridge:   b,
		}
		if err := b.register(client); err != nil {
			slog.Error("Could not subscribe player events", "player_id", playerID, "error", err)
			conn.Close(websocket.StatusInternalError, "subscription failed")
			return nil
		}

		go client.writePump()
		go client.readPump(c.Request().Context())

		return nil
	}
}

// register adds the client and, for the player's first socket, opens the
// subscription on the player's notification topic.
func (b *Bridge) register(client *Client) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.clients[client.PlayerID]) == 0 {
		ctx, cancel := context.WithCancel(context.Background())
		topic := pubsub.PlayerTopic(client.PlayerID)
		err := b.subscriber.Subscribe(ctx, topic, func(_ context.Context, msg pubsub.Message) error {
			b.fanOut(client.PlayerID, msg.Payload)
			return nil
		})
		if err != nil {
			cancel()
			return err
		}
		b.cancels[client.PlayerID] = cancel
	}

	b.clients[client.PlayerID] = append(b.clients[client.PlayerID], client)
	slog.Info("Client registered", "player_id", client.PlayerID)
	return nil
}

// unregister removes the client. When the player's last socket goes away the
// topic subscription is torn down and the player's current match, if any, is
// told about the disconnect so its grace clock starts.
func (b *Bridge) unregister(client *Client) {
	b.mu.Lock()
	clients := b.clients[client.PlayerID]
	for i, c := range clients {
		if c == client {
			b.clients[client.PlayerID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	last := len(b.clients[client.PlayerID]) == 0
	if last {
		delete(b.clients, client.PlayerID)
		if cancel, ok := b.cancels[client.PlayerID]; ok {
			cancel()
			delete(b.cancels, client.PlayerID)
		}
	}
	close(client.send)
	b.mu.Unlock()
	slog.Info("Client unregistered", "player_id", client.PlayerID)

	matchID := client.currentMatch()
	if !last || matchID == uuid.Nil {
		return
	}
	err := b.dispatcher.Dispatch(context.Background(), domain.ClientMsg{
		Type:     domain.ClientDisconnected,
		MatchID:  matchID,
		PlayerID: client.PlayerID,
	})
	if err != nil {
		slog.Warn("Could not report disconnect to match", "match_id", matchID, "player_id", client.PlayerID, "error", err)
	}
}

// fanOut copies a payload to every open socket of one player. A socket whose
// send buffer is full drops the frame rather than stalling the bus.
func (b *Bridge) fanOut(playerID uuid.UUID, payload []byte) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, client := range b.clients[playerID] {
		select {
		case client.send <- payload:
		default:
			slog.Warn("Client send channel full, dropping message", "player_id", playerID)
		}
	}
}

// Connected reports how many sockets are currently open for the player.
func (b *Bridge) Connected(playerID uuid.UUID) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.clients[playerID])
}
