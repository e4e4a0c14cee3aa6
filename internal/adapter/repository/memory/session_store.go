package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/iho/logiadmin/internal/domain"
	"github.com/iho/logiadmin/internal/usecase"
)

var _ usecase.SessionStore = (*SessionStore)(nil)

// SessionStore keeps the persisted session record in process memory. It
// goes through the same key-value encoding as the durable stores.
type SessionStore struct {
	mu      sync.RWMutex
	entries map[string]string
}

// NewSessionStore creates an empty store.
func NewSessionStore() *SessionStore {
	return &SessionStore{entries: make(map[string]string)}
}

// Load decodes the stored record.
func (s *SessionStore) Load(_ context.Context) (*domain.PersistedState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.DecodePersistedState(s.entries)
}

// Save replaces the stored record with state.
func (s *SessionStore) Save(_ context.Context, state *domain.PersistedState) error {
	entries, err := state.Entries()
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = entries
	return nil
}

// Clear removes every key.
func (s *SessionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.entries)
	return nil
}

// Entries returns a copy of the raw record.
func (s *SessionStore) Entries() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.entries)
}

// SetEntries overwrites the raw record, bypassing the encoder.
func (s *SessionStore) SetEntries(entries map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = maps.Clone(entries)
}
