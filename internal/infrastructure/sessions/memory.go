package sessions

import (
	"container/list"
	"context"
	"sync"

	"github.com/sivaneshk23/honeypot-api/internal/domain/models"
	"github.com/sivaneshk23/honeypot-api/pkg/logger"
)

// DefaultCapacity bounds memory growth under session ID churn
const DefaultCapacity = 1000

type memoryEntry struct {
	mu      sync.Mutex
	state   *models.ConversationState
	element *list.Element
}

// MemoryStore is an in-process LRU session store. The store mutex only
// guards the map and recency list; each session carries its own lock
// that is held for the duration of an update, so slow updates on one
// session never stall the others.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*memoryEntry
	order    *list.List
	capacity int
	logger   *logger.Logger
}

// NewMemoryStore creates a store capped at capacity sessions. A
// non-positive capacity falls back to the default.
func NewMemoryStore(capacity int, log *logger.Logger) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &MemoryStore{
		sessions: make(map[string]*memoryEntry),
		order:    list.New(),
		capacity: capacity,
		logger:   log.WithComponent("session-store"),
	}
}

// touch marks an entry most recently used and evicts the oldest entry
// when over capacity. Callers must hold s.mu.
func (s *MemoryStore) touch(e *memoryEntry) {
	s.order.MoveToFront(e.element)
	for len(s.sessions) > s.capacity {
		oldest := s.order.Back()
		if oldest == nil {
			return
		}
		victim := oldest.Value.(string)
		s.order.Remove(oldest)
		delete(s.sessions, victim)
		s.logger.Debug().Str("session_id", victim).Msg("session evicted")
	}
}

func (s *MemoryStore) entry(sessionID string) *memoryEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		e = &memoryEntry{state: models.NewConversationState(sessionID)}
		e.element = s.order.PushFront(sessionID)
		s.sessions[sessionID] = e
	}
	s.touch(e)
	return e
}

// Update applies fn under the session's own lock and returns a clone
// of the updated state.
func (s *MemoryStore) Update(ctx context.Context, sessionID string, fn UpdateFunc) (*models.ConversationState, error) {
	e := s.entry(sessionID)

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := fn(e.state); err != nil {
		return nil, err
	}
	return e.state.Clone(), nil
}

// Get returns a clone of the session's state without creating it.
func (s *MemoryStore) Get(ctx context.Context, sessionID string) (*models.ConversationState, bool, error) {
	s.mu.Lock()
	e, ok := s.sessions[sessionID]
	if ok {
		s.touch(e)
	}
	s.mu.Unlock()
	if !ok {
		return nil, false, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone(), true, nil
}

// Delete removes a session if present.
func (s *MemoryStore) Delete(ctx context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.sessions[sessionID]
	if !ok {
		return nil
	}
	s.order.Remove(e.element)
	delete(s.sessions, sessionID)
	return nil
}

// Len reports the number of live sessions.
func (s *MemoryStore) Len(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions), nil
}
