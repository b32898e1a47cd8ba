package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisStore(rdb), mr
}

func TestPutGetDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	matchID := uuid.New()

	_, found, err := store.Get(ctx, matchID)
	require.NoError(t, err)
	assert.False(t, found, "no snapshot before the first put")

	payload := []byte(`{"turn":3}`)
	require.NoError(t, store.Put(ctx, matchID, payload, time.Minute))

	data, found, err := store.Get(ctx, matchID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, payload, data)

	require.NoError(t, store.Delete(ctx, matchID))
	_, found, err = store.Get(ctx, matchID)
	require.NoError(t, err)
	assert.False(t, found)

	// Deleting again is a no-op, not an error.
	require.NoError(t, store.Delete(ctx, matchID))
}

func TestPutOverwritesAndRefreshesTTL(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	matchID := uuid.New()

	require.NoError(t, store.Put(ctx, matchID, []byte(`{"turn":1}`), time.Minute))
	require.NoError(t, store.Put(ctx, matchID, []byte(`{"turn":2}`), time.Minute))

	data, found, err := store.Get(ctx, matchID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, []byte(`{"turn":2}`), data)

	// The record ages out after the grace window.
	mr.FastForward(2 * time.Minute)
	_, found, err = store.Get(ctx, matchID)
	require.NoError(t, err)
	assert.False(t, found, "snapshot expired with its ttl")
}
