package matchmaking

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nfrund/genewar/internal/domain"
	"github.com/nfrund/genewar/internal/pubsub"
)

// DefaultInterval is how often the loop attempts a pairing.
const DefaultInterval = time.Second

// Loop is the singleton background worker that pairs waiting players. Every
// tick it pops the two lowest-scoring entries, creates a pending match
// record and tells both players where to go. A storage failure returns both
// players to the queue with their original scores; the next tick retries.
type Loop struct {
	queue     *Queue
	matches   domain.MatchStore
	publisher pubsub.Publisher
	interval  time.Duration
}

// NewLoop wires a matchmaking loop. A non-positive interval falls back to
// DefaultInterval.
func NewLoop(queue *Queue, matches domain.MatchStore, publisher pubsub.Publisher, interval time.Duration) *Loop {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Loop{queue: queue, matches: matches, publisher: publisher, interval: interval}
}

// Run blocks, pairing players until the context is canceled.
func (l *Loop) Run(ctx context.Context) {
	slog.Info("matchmaking loop started", "interval", l.interval)
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("matchmaking loop stopped")
			return
		case <-ticker.C:
			if err := l.tick(ctx); err != nil {
				slog.Error("matchmaking tick failed", "error", err)
			}
		}
	}
}

// tick performs one pairing attempt.
func (l *Loop) tick(ctx context.Context) error {
	a, b, err := l.queue.PopPair(ctx)
	if err != nil {
		return err
	}
	if a == nil || b == nil {
		return nil
	}

	matchID, err := l.matches.CreatePendingMatch(ctx, a.PlayerID, b.PlayerID)
	if err != nil {
		// Put the pair back so no player is lost; retry next tick.
		slog.Warn("could not create match, returning players to queue",
			"player_a", a.PlayerID, "player_b", b.PlayerID, "error", err)
		return l.queue.Requeue(ctx, *a, *b)
	}

	l.notify(ctx, a.PlayerID, matchID, b.PlayerID)
	l.notify(ctx, b.PlayerID, matchID, a.PlayerID)
	slog.Info("match created", "match_id", matchID, "player_a", a.PlayerID, "player_b", b.PlayerID)
	return nil
}

// notify publishes a MatchFound event addressed to one player. Best-effort:
// the match record already exists and the client can discover it on connect.
func (l *Loop) notify(ctx context.Context, playerID, matchID, opponentID uuid.UUID) {
	event := domain.ServerMsg{
		Type:       domain.ServerMatchFound,
		MatchID:    matchID,
		OpponentID: opponentID,
	}
	payload, err := json.Marshal(event)
	if err != nil {
		slog.Error("could not encode match-found event", "error", err)
		return
	}
	err = l.publisher.Publish(ctx, pubsub.Message{
		Topic:   pubsub.PlayerTopic(playerID),
		Payload: payload,
	})
	if err != nil {
		slog.Warn("could not publish match-found event", "player_id", playerID, "error", err)
	}
}
