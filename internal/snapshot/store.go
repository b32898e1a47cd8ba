// Package snapshot persists serialized match state in Redis so that an
// in-flight match survives a process restart or a player's transient
// disconnect. Exactly one record exists per match, overwritten after every
// resolved turn and expiring after the disconnect grace window.
package snapshot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisStore implements domain.SnapshotStore on a Redis key-value store.
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore wraps an existing Redis client.
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Put overwrites the match's snapshot with the given time-to-live.
func (s *RedisStore) Put(ctx context.Context, matchID uuid.UUID, data []byte, ttl time.Duration) error {
	if err := s.rdb.Set(ctx, key(matchID), data, ttl).Err(); err != nil {
		return fmt.Errorf("snapshot put: %w", err)
	}
	return nil
}

// Get returns the stored snapshot, or found=false when none exists.
func (s *RedisStore) Get(ctx context.Context, matchID uuid.UUID) ([]byte, bool, error) {
	data, err := s.rdb.Get(ctx, key(matchID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("snapshot get: %w", err)
	}
	return data, true, nil
}

// Delete removes the match's snapshot. Deleting an absent key is not an
// error; completion and expiry may race.
func (s *RedisStore) Delete(ctx context.Context, matchID uuid.UUID) error {
	if err := s.rdb.Del(ctx, key(matchID)).Err(); err != nil {
		return fmt.Errorf("snapshot delete: %w", err)
	}
	return nil
}

func key(matchID uuid.UUID) string {
	return "game:" + matchID.String() + ":snap"
}
