package game

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nfrund/genewar/internal/domain"
	"github.com/nfrund/genewar/internal/pubsub"
)

// SessionConfig carries the tunables every coordinator runs with.
type SessionConfig struct {
	// DisconnectGrace is how long a disconnected player is tolerated before
	// the match is forfeited to the opponent. It is also the snapshot TTL.
	DisconnectGrace time.Duration
	// GraceTick is the polling interval for the grace check. Advisory
	// resolution on the order of seconds is fine; the grace duration is on
	// the order of minutes.
	GraceTick time.Duration
	// MaxTurns ends the match by normal completion once reached.
	MaxTurns int
	// KFactor is the Elo K-factor applied on completion.
	KFactor float64
	// InboxSize bounds the coordinator's inbox.
	InboxSize int
}

// DefaultSessionConfig returns the production defaults.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		DisconnectGrace: 2 * time.Minute,
		GraceTick:       5 * time.Second,
		MaxTurns:        50,
		KFactor:         DefaultKFactor,
		InboxSize:       64,
	}
}

// Dependencies holds the external collaborators a coordinator talks to.
type Dependencies struct {
	Snapshots domain.SnapshotStore
	Matches   domain.MatchStore
	Ratings   domain.RatingLedger
	Publisher pubsub.Publisher
}

// Session is the exclusive per-match coordinator. It owns the match state
// and processes exactly one inbound event at a time from its bounded inbox,
// which makes turn resolution and state transitions race-free without locks.
type Session struct {
	matchID  uuid.UUID
	inbox    chan domain.ClientMsg
	done     chan struct{}
	registry *Registry
	deps     Dependencies
	cfg      SessionConfig
	logger   *slog.Logger
}

func newSession(matchID uuid.UUID, registry *Registry, deps Dependencies, cfg SessionConfig) *Session {
	return &Session{
		matchID:  matchID,
		inbox:    make(chan domain.ClientMsg, cfg.InboxSize),
		done:     make(chan struct{}),
		registry: registry,
		deps:     deps,
		cfg:      cfg,
		logger:   slog.With("match_id", matchID.String()),
	}
}

// deliver enqueues a message without blocking. A full inbox or a finished
// session surfaces as an error to the sender.
func (s *Session) deliver(msg domain.ClientMsg) error {
	select {
	case <-s.done:
		return domain.ErrSessionClosed
	default:
	}
	select {
	case s.inbox <- msg:
		return nil
	case <-s.done:
		return domain.ErrSessionClosed
	default:
		return domain.ErrInboxFull
	}
}

// run is the coordinator's main loop. It restores a prior snapshot if one
// exists, then alternates between inbox messages and the grace tick until
// the match reaches its terminal state.
func (s *Session) run(ctx context.Context) {
	defer func() {
		s.registry.Remove(s.matchID)
		close(s.done)
	}()

	st := s.restore(ctx)

	if err := s.deps.Matches.MarkInProgress(ctx, s.matchID); err != nil {
		s.logger.Warn("could not mark match in progress", "error", err)
	}

	ticker := time.NewTicker(s.cfg.GraceTick)
	defer ticker.Stop()

	for {
		select {
		case msg := <-s.inbox:
			switch msg.Type {
			case domain.ClientReady, domain.ClientResume:
				s.handleReady(ctx, st, msg)
			case domain.ClientDisconnected:
				s.handleDisconnected(st, msg)
			case domain.ClientTurn:
				if s.handleTurn(ctx, st, msg) {
					return
				}
			}
		case <-ticker.C:
			if s.checkGrace(ctx, st) {
				return
			}
		}
	}
}

// restore loads the match state from a snapshot when one exists; otherwise
// it starts fresh. A corrupt snapshot is logged and treated as absent.
func (s *Session) restore(ctx context.Context) *matchState {
	st := newMatchState()

	data, found, err := s.deps.Snapshots.Get(ctx, s.matchID)
	if err != nil {
		s.logger.Warn("snapshot lookup failed", "error", err)
		return st
	}
	if !found {
		return st
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		s.logger.Warn("discarding unreadable snapshot", "error", err)
		return st
	}
	snap.apply(st)
	s.logger.Info("session restored from snapshot", "turn", st.Turn)
	return st
}

// handleReady binds the sender to a player slot if unseen, marks it ready
// and clears its disconnect clock. A Resume additionally replays the last
// turn outcome to the resuming player alone. Once both players are ready a
// GameStart is (re)broadcast; sending it again on reconnect is harmless.
func (s *Session) handleReady(ctx context.Context, st *matchState, msg domain.ClientMsg) {
	pid := msg.PlayerID
	if st.PlayerA == nil {
		st.PlayerA = &pid
	} else if st.PlayerB == nil && *st.PlayerA != pid {
		st.PlayerB = &pid
	}

	if st.isPlayerA(pid) {
		st.ReadyA = true
		st.dcSinceA = nil
	}
	if st.isPlayerB(pid) {
		st.ReadyB = true
		st.dcSinceB = nil
	}

	if msg.Type == domain.ClientResume && st.LastOutcome != nil {
		s.send(ctx, pid, *st.LastOutcome)
	}

	if st.ReadyA && st.ReadyB {
		start := domain.ServerMsg{Type: domain.ServerGameStart, MatchID: s.matchID, Turn: st.Turn}
		s.send(ctx, *st.PlayerA, start)
		s.send(ctx, *st.PlayerB, start)
		if st.LastOutcome != nil {
			s.send(ctx, *st.PlayerA, *st.LastOutcome)
			s.send(ctx, *st.PlayerB, *st.LastOutcome)
		}
	}
}

// handleDisconnected starts the grace clock for the player. The match does
// not end here; only the periodic grace check can forfeit it.
func (s *Session) handleDisconnected(st *matchState, msg domain.ClientMsg) {
	now := time.Now()
	if st.isPlayerA(msg.PlayerID) {
		st.ReadyA = false
		st.dcSinceA = &now
	}
	if st.isPlayerB(msg.PlayerID) {
		st.ReadyB = false
		st.dcSinceB = &now
	}
}

// handleTurn stores the submission in the sender's pending slot, overwriting
// any earlier submission for the same slot. When both players have pending
// actions for the same turn number the turn resolves atomically: outcome
// broadcast, slots cleared, counter advanced, snapshot refreshed. Returns
// true when the match ended by reaching the turn limit.
func (s *Session) handleTurn(ctx context.Context, st *matchState, msg domain.ClientMsg) bool {
	if st.isPlayerA(msg.PlayerID) {
		st.PendingA = &PendingTurn{Turn: msg.Turn, Actions: msg.Actions}
	}
	if st.isPlayerB(msg.PlayerID) {
		st.PendingB = &PendingTurn{Turn: msg.Turn, Actions: msg.Actions}
	}

	if st.PendingA == nil || st.PendingB == nil || st.PendingA.Turn != st.PendingB.Turn {
		return false
	}

	turnNo := st.PendingA.Turn
	outcome := Resolve(
		st.PendingA.Actions, st.PendingB.Actions,
		&st.PoolA, &st.PoolB,
		&st.UnitsA, &st.UnitsB,
	)

	result := domain.ServerMsg{
		Type:    domain.ServerTurnResult,
		MatchID: s.matchID,
		Turn:    turnNo,
		Result:  &outcome,
	}
	st.LastOutcome = &result
	s.send(ctx, *st.PlayerA, result)
	s.send(ctx, *st.PlayerB, result)

	st.PendingA = nil
	st.PendingB = nil
	st.Turn++

	s.saveSnapshot(ctx, st)

	if st.Turn >= s.cfg.MaxTurns {
		s.finish(ctx, st, decideWinner(st))
		return true
	}
	return false
}

// checkGrace forfeits the match when a player's disconnect clock exceeds the
// grace duration. With both players disconnected, whichever expiry this poll
// observes first wins; no deterministic preference is intended.
func (s *Session) checkGrace(ctx context.Context, st *matchState) bool {
	now := time.Now()
	if st.dcSinceA != nil && st.PlayerB != nil && now.Sub(*st.dcSinceA) >= s.cfg.DisconnectGrace {
		s.logger.Info("forfeit: player A exceeded disconnect grace")
		s.finish(ctx, st, st.PlayerB)
		return true
	}
	if st.dcSinceB != nil && st.PlayerA != nil && now.Sub(*st.dcSinceB) >= s.cfg.DisconnectGrace {
		s.logger.Info("forfeit: player B exceeded disconnect grace")
		s.finish(ctx, st, st.PlayerA)
		return true
	}
	return false
}

// decideWinner returns the player id of the side that still has units when
// exactly one side does; otherwise the match is a draw.
func decideWinner(st *matchState) *uuid.UUID {
	aAlive := len(st.UnitsA) > 0
	bAlive := len(st.UnitsB) > 0
	switch {
	case aAlive && !bAlive:
		return st.PlayerA
	case !aAlive && bAlive:
		return st.PlayerB
	}
	return nil
}

// finish runs the shared terminal path: apply rating deltas, persist the
// terminal match record, notify both players and drop the snapshot. It runs
// exactly once per match; the coordinator exits right after.
func (s *Session) finish(ctx context.Context, st *matchState, winner *uuid.UUID) {
	if st.PlayerA != nil && st.PlayerB != nil {
		a, b := *st.PlayerA, *st.PlayerB

		deltaA, deltaB := s.applyRatings(ctx, a, b, winner)

		if err := s.deps.Matches.MarkFinished(ctx, s.matchID, winner, deltaA, deltaB); err != nil {
			s.logger.Error("could not persist terminal match state", "error", err)
		}

		over := domain.ServerMsg{Type: domain.ServerGameOver, MatchID: s.matchID, Winner: winner}
		s.send(ctx, a, over)
		s.send(ctx, b, over)
	}

	if err := s.deps.Snapshots.Delete(ctx, s.matchID); err != nil {
		s.logger.Warn("could not delete snapshot", "error", err)
	}
	s.logger.Info("session finished", "winner", winnerString(winner))
}

// applyRatings computes and applies the Elo deltas. A ledger read failure
// skips the rating update entirely rather than guessing at ratings.
func (s *Session) applyRatings(ctx context.Context, a, b uuid.UUID, winner *uuid.UUID) (int, int) {
	ratingA, err := s.deps.Ratings.Rating(ctx, a)
	if err != nil {
		s.logger.Error("could not read rating", "player_id", a, "error", err)
		return 0, 0
	}
	ratingB, err := s.deps.Ratings.Rating(ctx, b)
	if err != nil {
		s.logger.Error("could not read rating", "player_id", b, "error", err)
		return 0, 0
	}

	outcome := OutcomeDraw
	if winner != nil {
		switch *winner {
		case a:
			outcome = OutcomeWinA
		case b:
			outcome = OutcomeWinB
		}
	}
	deltaA, deltaB := EloDelta(ratingA, ratingB, outcome, s.cfg.KFactor)

	if _, err := s.deps.Ratings.ApplyDelta(ctx, a, deltaA); err != nil {
		s.logger.Error("could not apply rating delta", "player_id", a, "error", err)
	}
	if _, err := s.deps.Ratings.ApplyDelta(ctx, b, deltaB); err != nil {
		s.logger.Error("could not apply rating delta", "player_id", b, "error", err)
	}
	return deltaA, deltaB
}

// saveSnapshot overwrites the match's snapshot with TTL equal to the grace
// duration, so an in-flight match survives a crash for as long as a
// disconnected player would be tolerated.
func (s *Session) saveSnapshot(ctx context.Context, st *matchState) {
	snap := st.snapshot()
	data, err := json.Marshal(snap)
	if err != nil {
		s.logger.Error("could not serialize snapshot", "error", err)
		return
	}
	if err := s.deps.Snapshots.Put(ctx, s.matchID, data, s.cfg.DisconnectGrace); err != nil {
		s.logger.Warn("could not persist snapshot", "error", err)
	}
}

// send publishes an event addressed to one player. Best-effort: a failed
// publish is logged and the state already committed stands; a disconnected
// client catches up via Resume.
func (s *Session) send(ctx context.Context, playerID uuid.UUID, msg domain.ServerMsg) {
	payload, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("could not encode event", "error", err)
		return
	}
	err = s.deps.Publisher.Publish(ctx, pubsub.Message{
		Topic:   pubsub.PlayerTopic(playerID),
		Payload: payload,
	})
	if err != nil {
		s.logger.Warn("could not publish event", "player_id", playerID, "type", msg.Type, "error", err)
	}
}

func winnerString(winner *uuid.UUID) string {
	if winner == nil {
		return "draw"
	}
	return winner.String()
}
