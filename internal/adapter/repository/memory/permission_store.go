package memory

import (
	"context"
	"sync"

	"github.com/iho/logiadmin/internal/domain"
	"github.com/iho/logiadmin/internal/usecase"
)

var _ usecase.PermissionStore = (*PermissionStore)(nil)

type permissionKey struct {
	userID int64
	menuID int64
}

// PermissionStore caches permission entries in process memory.
type PermissionStore struct {
	mu      sync.RWMutex
	entries map[permissionKey]domain.PermissionEntry
}

// NewPermissionStore creates an empty store.
func NewPermissionStore() *PermissionStore {
	return &PermissionStore{entries: make(map[permissionKey]domain.PermissionEntry)}
}

// Get returns the entry for (userID, menuID) or nil.
func (s *PermissionStore) Get(_ context.Context, userID, menuID int64) (*domain.PermissionEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[permissionKey{userID, menuID}]
	if !ok {
		return nil, nil
	}
	return &entry, nil
}

// Put stores entry, replacing any previous one.
func (s *PermissionStore) Put(_ context.Context, entry domain.PermissionEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[permissionKey{entry.UserID, entry.MenuID}] = entry
	return nil
}

// Purge drops every entry.
func (s *PermissionStore) Purge(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.entries)
	return nil
}

// Len returns the number of cached entries.
func (s *PermissionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
