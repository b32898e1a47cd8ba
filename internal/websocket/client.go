package websocket

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/nfrund/genewar/internal/domain"
)

// Client represents a single connected WebSocket socket for one player.
type Client struct {
	PlayerID uuid.UUID
	conn     *websocket.Conn
	send     chan []byte
	bridge   *Bridge

	mu        sync.Mutex
	lastMatch uuid.UUID
}

// errorFrame is sent back on the socket when an inbound frame is rejected.
type errorFrame struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *Client) rememberMatch(matchID uuid.UUID) {
	c.mu.Lock()
	c.lastMatch = matchID
	c.mu.Unlock()
}

func (c *Client) currentMatch() uuid.UUID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastMatch
}

// reject queues an error frame without blocking the read loop.
func (c *Client) reject(code, message string) {
	payload, err := json.Marshal(errorFrame{Type: "error", Code: code, Message: message})
	if err != nil {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

// readPump pumps frames from the WebSocket connection into the dispatcher.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.bridge.unregister(c)
		c.conn.Close(websocket.StatusNormalClosure, "Client disconnected")
	}()

	for {
		_, payload, err := c.conn.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || websocket.CloseStatus(err) == websocket.StatusGoingAway {
				slog.Info("WebSocket closed normally by client", "player_id", c.PlayerID)
			} else if err != io.EOF && ctx.Err() == nil {
				slog.Error("WebSocket read error", "player_id", c.PlayerID, "error", err)
			}
			return
		}

		var msg domain.ClientMsg
		if err := json.Unmarshal(payload, &msg); err != nil {
			c.reject("malformed", "could not decode message")
			continue
		}
		// The socket's identity wins over whatever the frame claims.
		msg.PlayerID = c.PlayerID
		if msg.Type == domain.ClientDisconnected {
			c.reject("reserved", "disconnected is not a client message")
			continue
		}
		if err := c.bridge.validate.Struct(&msg); err != nil {
			c.reject("invalid", err.Error())
			continue
		}

		c.rememberMatch(msg.MatchID)
		if err := c.bridge.dispatcher.Dispatch(ctx, msg); err != nil {
			slog.Warn("Dispatch rejected message", "match_id", msg.MatchID, "player_id", c.PlayerID, "error", err)
			c.reject("rejected", err.Error())
		}
	}
}

// writePump pumps messages from the client's send channel to the WebSocket connection.
func (c *Client) writePump() {
	defer func() {
		c.conn.Close(websocket.StatusNormalClosure, "Server-side cleanup")
	}()

	for {
		message, ok := <-c.send
		if !ok {
			// The bridge closed the channel.
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		err := c.conn.Write(ctx, websocket.MessageText, message)
		cancel()
		if err != nil {
			slog.Error("WebSocket write error", "player_id", c.PlayerID, "error", err)
			return
		}
	}
}
