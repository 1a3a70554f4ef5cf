package sessions

import (
	"context"
	"errors"

	"github.com/sivaneshk23/honeypot-api/internal/domain/models"
)

// ErrNotFound is returned when a session does not exist
var ErrNotFound = errors.New("session not found")

// UpdateFunc mutates a session's state in place. It runs while the
// session is exclusively held, so it must not block on I/O.
type UpdateFunc func(state *models.ConversationState) error

// Store holds conversation state keyed by session ID. Updates to the
// same session are serialized; different sessions proceed in parallel.
// Implementations return defensive clones so callers can read state
// without holding any lock.
type Store interface {
	// Update applies fn to the session's state, creating the session
	// if it does not exist, and returns a clone of the result.
	Update(ctx context.Context, sessionID string, fn UpdateFunc) (*models.ConversationState, error)

	// Get returns a clone of the session's state if it exists.
	Get(ctx context.Context, sessionID string) (*models.ConversationState, bool, error)

	// Delete removes a session. Deleting an absent session is not an error.
	Delete(ctx context.Context, sessionID string) error

	// Len reports the number of live sessions.
	Len(ctx context.Context) (int, error)
}
