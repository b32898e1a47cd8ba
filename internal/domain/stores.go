package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// MatchStore is the durable record of a match's lifecycle. Implementations
// must make MarkInProgress idempotent and MarkFinished a single terminal
// write.
type MatchStore interface {
	CreatePendingMatch(ctx context.Context, playerA, playerB uuid.UUID) (uuid.UUID, error)
	MarkInProgress(ctx context.Context, matchID uuid.UUID) error
	MarkFinished(ctx context.Context, matchID uuid.UUID, winner *uuid.UUID, deltaA, deltaB int) error
}

// RatingLedger reads and atomically adjusts player ratings. ApplyDelta must
// floor the resulting rating at zero.
type RatingLedger interface {
	Rating(ctx context.Context, playerID uuid.UUID) (int, error)
	ApplyDelta(ctx context.Context, playerID uuid.UUID, delta int) (int, error)
}

// SnapshotStore is the key-value recovery store. Exactly one record per
// match, overwritten after each resolved turn and deleted on completion.
// Get returns found=false when no snapshot exists (expired or never written).
type SnapshotStore interface {
	Put(ctx context.Context, matchID uuid.UUID, data []byte, ttl time.Duration) error
	Get(ctx context.Context, matchID uuid.UUID) (data []byte, found bool, err error)
	Delete(ctx context.Context, matchID uuid.UUID) error
}
