package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/sivaneshk23/honeypot-api/internal/domain/models"
	"github.com/sivaneshk23/honeypot-api/internal/infrastructure/cache"
	"github.com/sivaneshk23/honeypot-api/pkg/logger"
)

const (
	sessionTTL     = 24 * time.Hour
	lockTTL        = 5 * time.Second
	lockRetryDelay = 25 * time.Millisecond
	lockRetryLimit = 100
)

// RedisStore keeps session state in Redis so multiple instances can
// share it. Per-session serialization uses a SetNX lock; eviction is
// TTL-based rather than LRU.
type RedisStore struct {
	cache  *cache.RedisCache
	logger *logger.Logger
}

// NewRedisStore wraps an existing Redis connection.
func NewRedisStore(c *cache.RedisCache, log *logger.Logger) *RedisStore {
	return &RedisStore{
		cache:  c,
		logger: log.WithComponent("session-store"),
	}
}

func sessionKey(id string) string { return cache.KeySessionPrefix + id }
func lockKey(id string) string    { return cache.KeySessionLockPrefix + id }

// acquireLock spins on SetNX until it owns the lock or gives up.
func (s *RedisStore) acquireLock(ctx context.Context, sessionID string) (string, error) {
	token := uuid.NewString()
	for i := 0; i < lockRetryLimit; i++ {
		ok, err := s.cache.SetNX(ctx, lockKey(sessionID), token, lockTTL)
		if err != nil {
			return "", err
		}
		if ok {
			return token, nil
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(lockRetryDelay):
		}
	}
	return "", fmt.Errorf("could not lock session %s", sessionID)
}

// releaseLock deletes the lock only while it still holds our token.
// An update that outlived the lock TTL must not remove a lock another
// instance has since acquired.
func (s *RedisStore) releaseLock(ctx context.Context, sessionID, token string) {
	released, err := s.cache.DeleteIfEqual(ctx, lockKey(sessionID), token)
	if err != nil {
		s.logger.Warn().Err(err).Str("session_id", sessionID).Msg("failed to release session lock")
		return
	}
	if !released {
		s.logger.Warn().Str("session_id", sessionID).Msg("session lock expired before release")
	}
}

// Update loads, mutates, and writes back the session state under a
// distributed lock.
func (s *RedisStore) Update(ctx context.Context, sessionID string, fn UpdateFunc) (*models.ConversationState, error) {
	token, err := s.acquireLock(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer s.releaseLock(ctx, sessionID, token)

	state := models.NewConversationState(sessionID)
	err = s.cache.GetJSON(ctx, sessionKey(sessionID), state)
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	if err := fn(state); err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, sessionKey(sessionID), state, sessionTTL); err != nil {
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return state.Clone(), nil
}

// Get returns the session state if present.
func (s *RedisStore) Get(ctx context.Context, sessionID string) (*models.ConversationState, bool, error) {
	state := &models.ConversationState{}
	err := s.cache.GetJSON(ctx, sessionKey(sessionID), state)
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return state, true, nil
}

// Delete removes a session and its lock.
func (s *RedisStore) Delete(ctx context.Context, sessionID string) error {
	return s.cache.Delete(ctx, sessionKey(sessionID), lockKey(sessionID))
}

// Len counts live sessions with a SCAN over the session namespace.
func (s *RedisStore) Len(ctx context.Context) (int, error) {
	return s.cache.CountKeys(ctx, cache.KeySessionPrefix+"*")
}
