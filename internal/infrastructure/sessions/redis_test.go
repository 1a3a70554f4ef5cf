package sessions

import (
	"context"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sivaneshk23/honeypot-api/internal/config"
	"github.com/sivaneshk23/honeypot-api/internal/domain/models"
	"github.com/sivaneshk23/honeypot-api/internal/infrastructure/cache"
	"github.com/sivaneshk23/honeypot-api/pkg/logger"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)

	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)

	c, err := cache.NewRedis(context.Background(), config.RedisConfig{
		Host:      mr.Host(),
		Port:      port,
		KeyPrefix: "test:",
	}, logger.NewDefault())
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })

	return NewRedisStore(c, logger.NewDefault())
}

func TestRedisStore_UpdateAndGet(t *testing.T) {
	s := newTestRedisStore(t)
	ctx := context.Background()

	state, err := s.Update(ctx, "s1", func(st *models.ConversationState) error {
		st.Messages = append(st.Messages, models.NewMessage("scammer", "send money"))
		st.EngagementLevel = 2
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "s1", state.SessionID)
	assert.Equal(t, 2, state.EngagementLevel)

	got, found, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 2, got.EngagementLevel)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "send money", got.Messages[0].Text)
}

func TestRedisStore_GetMissing(t *testing.T) {
	s := newTestRedisStore(t)

	_, found, err := s.Get(context.Background(), "nope")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStore_StatePersistsAcrossUpdates(t *testing.T) {
	s := newTestRedisStore(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := s.Update(ctx, "s1", func(st *models.ConversationState) error {
			st.EngagementLevel++
			return nil
		})
		require.NoError(t, err)
	}

	got, found, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, 5, got.EngagementLevel)
}

func TestRedisStore_DeleteAndLen(t *testing.T) {
	s := newTestRedisStore(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, err := s.Update(ctx, id, func(st *models.ConversationState) error { return nil })
		require.NoError(t, err)
	}

	n, err := s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	require.NoError(t, s.Delete(ctx, "b"))

	n, err = s.Len(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, found, err := s.Get(ctx, "b")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStore_ReleaseLockKeepsForeignToken(t *testing.T) {
	s := newTestRedisStore(t)
	ctx := context.Background()

	// Another instance holds the lock after ours expired; releasing
	// with the stale token must leave it in place.
	ok, err := s.cache.SetNX(ctx, lockKey("s1"), "theirs", lockTTL)
	require.NoError(t, err)
	require.True(t, ok)

	s.releaseLock(ctx, "s1", "stale-token")

	held, err := s.cache.Get(ctx, lockKey("s1"))
	require.NoError(t, err)
	assert.Equal(t, "theirs", held)

	// The real holder's token still releases it
	s.releaseLock(ctx, "s1", "theirs")

	n, err := s.cache.Exists(ctx, lockKey("s1"))
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRedisStore_UpdateErrorDoesNotPersist(t *testing.T) {
	s := newTestRedisStore(t)
	ctx := context.Background()

	_, err := s.Update(ctx, "s1", func(st *models.ConversationState) error {
		st.EngagementLevel = 7
		return assert.AnError
	})
	require.Error(t, err)

	_, found, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.False(t, found)
}
