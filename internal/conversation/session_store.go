package conversation

import (
	"context"
	"sync"
)

// SessionStore keeps one history per session id. Load returns an empty
// history for unknown sessions.
type SessionStore interface {
	Load(ctx context.Context, sessionID string) ([]ChatMessage, error)
	Save(ctx context.Context, sessionID string, history []ChatMessage) error
}

// MemoryStore is a process-local SessionStore.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string][]ChatMessage
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string][]ChatMessage)}
}

func (s *MemoryStore) Load(_ context.Context, sessionID string) ([]ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneHistory(s.sessions[sessionID]), nil
}

func (s *MemoryStore) Save(_ context.Context, sessionID string, history []ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sessionID] = cloneHistory(history)
	return nil
}

func cloneHistory(history []ChatMessage) []ChatMessage {
	if len(history) == 0 {
		return nil
	}
	out := make([]ChatMessage, len(history))
	copy(out, history)
	return out
}
