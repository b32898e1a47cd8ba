package domain

import (
	"github.com/google/uuid"
)

// ClientMsgType discriminates inbound client messages.
type ClientMsgType string

const (
	ClientReady ClientMsgType = "ready"
	ClientTurn  ClientMsgType = "turn"
	// ClientResume is sent by a client that lost its socket and re-opened a
	// new one; the coordinator replays the last turn outcome to it.
	ClientResume ClientMsgType = "resume"
	// ClientDisconnected is emitted internally by the transport layer when a
	// socket closes. It starts the forfeit grace clock.
	ClientDisconnected ClientMsgType = "disconnected"
)

// ClientMsg is the single inbound message shape the transport layer hands to
// the session dispatcher. Turn additionally carries a turn number and the
// batch of actions for that turn.
type ClientMsg struct {
	Type     ClientMsgType `json:"type" validate:"required,oneof=ready turn resume disconnected"`
	MatchID  uuid.UUID     `json:"match_id" validate:"required"`
	PlayerID uuid.UUID     `json:"player_id" validate:"required"`
	Turn     int           `json:"turn,omitempty"`
	Actions  []Action      `json:"actions,omitempty"`
}

// ServerMsgType discriminates outbound events.
type ServerMsgType string

const (
	ServerMatchFound ServerMsgType = "match_found"
	ServerGameStart  ServerMsgType = "game_start"
	ServerTurnResult ServerMsgType = "turn_result"
	ServerGameOver   ServerMsgType = "game_over"
)

// ServerMsg is an event addressed to a single player and delivered over the
// notification channel. Fields beyond Type/MatchID are populated per variant.
type ServerMsg struct {
	Type    ServerMsgType `json:"type"`
	MatchID uuid.UUID     `json:"match_id"`

	// OpponentID is set on match_found.
	OpponentID uuid.UUID `json:"opponent_id,omitempty"`

	// Turn is set on game_start and turn_result.
	Turn int `json:"turn,omitempty"`

	// Result is set on turn_result.
	Result *TurnOutcome `json:"result,omitempty"`

	// Winner is set on game_over; nil means a draw.
	Winner *uuid.UUID `json:"winner,omitempty"`
}
