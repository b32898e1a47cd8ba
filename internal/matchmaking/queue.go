// Package matchmaking pairs waiting players by rating proximity. The waiting
// set lives in a Redis sorted set so that it survives restarts and can be
// shared by every server process; the score combines the player's rating
// with a small join-time epsilon that biases toward first-in-first-out among
// equally rated players.
package matchmaking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const queueKey = "mm:queue"

// timeEpsilon scales join time (unix milliseconds) into a fractional
// tie-breaker that never outweighs a one-point rating difference.
const timeEpsilon = 1e-6

// Entry is one waiting player with the score it was enqueued under.
type Entry struct {
	PlayerID uuid.UUID
	Score    float64
}

// Queue is the Redis-backed waiting set.
type Queue struct {
	rdb *redis.Client
}

// NewQueue wraps an existing Redis client.
func NewQueue(rdb *redis.Client) *Queue {
	return &Queue{rdb: rdb}
}

// Join enqueues the player. Re-joining while already queued keeps the
// original score, so Join is idempotent.
func (q *Queue) Join(ctx context.Context, playerID uuid.UUID, rating int) error {
	score := float64(rating) + float64(time.Now().UnixMilli())*timeEpsilon
	err := q.rdb.ZAddNX(ctx, queueKey, redis.Z{Score: score, Member: playerID.String()}).Err()
	if err != nil {
		return fmt.Errorf("queue join: %w", err)
	}
	return nil
}

// Leave removes the player from the waiting set. Removing an absent player
// is a no-op.
func (q *Queue) Leave(ctx context.Context, playerID uuid.UUID) error {
	if err := q.rdb.ZRem(ctx, queueKey, playerID.String()).Err(); err != nil {
		return fmt.Errorf("queue leave: %w", err)
	}
	return nil
}

// Waiting returns the number of queued players.
func (q *Queue) Waiting(ctx context.Context) (int64, error) {
	n, err := q.rdb.ZCard(ctx, queueKey).Result()
	if err != nil {
		return 0, fmt.Errorf("queue size: %w", err)
	}
	return n, nil
}

// Entries lists every waiting player in pairing order.
func (q *Queue) Entries(ctx context.Context) ([]Entry, error) {
	zs, err := q.rdb.ZRangeWithScores(ctx, queueKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("queue entries: %w", err)
	}
	entries := make([]Entry, 0, len(zs))
	for _, z := range zs {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		id, err := uuid.Parse(member)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{PlayerID: id, Score: z.Score})
	}
	return entries, nil
}

// PopPair removes and returns the two lowest-scoring waiting players. When
// fewer than two players are waiting it returns nils; a lone popped player
// is put straight back so nobody is lost to an odd-sized queue.
func (q *Queue) PopPair(ctx context.Context) (*Entry, *Entry, error) {
	popped, err := q.rdb.ZPopMin(ctx, queueKey, 2).Result()
	if err != nil {
		return nil, nil, fmt.Errorf("queue pop: %w", err)
	}
	entries := make([]Entry, 0, len(popped))
	for _, z := range popped {
		member, ok := z.Member.(string)
		if !ok {
			continue
		}
		id, err := uuid.Parse(member)
		if err != nil {
			slog.Warn("dropping malformed queue entry", "member", member, "error", err)
			continue
		}
		entries = append(entries, Entry{PlayerID: id, Score: z.Score})
	}

	if len(entries) < 2 {
		if len(entries) == 1 {
			if err := q.Requeue(ctx, entries[0]); err != nil {
				return nil, nil, err
			}
		}
		return nil, nil, nil
	}
	return &entries[0], &entries[1], nil
}

// Requeue re-inserts entries with their original scores, preserving both
// rating order and join-time priority.
func (q *Queue) Requeue(ctx context.Context, entries ...Entry) error {
	zs := make([]redis.Z, len(entries))
	for i, e := range entries {
		zs[i] = redis.Z{Score: e.Score, Member: e.PlayerID.String()}
	}
	if err := q.rdb.ZAdd(ctx, queueKey, zs...).Err(); err != nil {
		return fmt.Errorf("queue requeue: %w", err)
	}
	return nil
}
