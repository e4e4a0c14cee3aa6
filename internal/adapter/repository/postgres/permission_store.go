package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/iho/logiadmin/internal/domain"
	"github.com/iho/logiadmin/internal/usecase"
)

var _ usecase.PermissionStore = (*PermissionStore)(nil)

const (
	selectPermissionSQL = `SELECT read_auth, write_auth, edit_auth, delete_auth, cached_at
FROM permission_cache WHERE profile = $1 AND user_id = $2 AND menu_id = $3`
	upsertPermissionSQL = `INSERT INTO permission_cache
(profile, user_id, menu_id, read_auth, write_auth, edit_auth, delete_auth, cached_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (profile, user_id, menu_id) DO UPDATE SET
read_auth = EXCLUDED.read_auth, write_auth = EXCLUDED.write_auth,
edit_auth = EXCLUDED.edit_auth, delete_auth = EXCLUDED.delete_auth,
cached_at = EXCLUDED.cached_at`
	purgePermissionsSQL = `DELETE FROM permission_cache WHERE profile = $1`
)

// PermissionStore caches permission entries in permission_cache.
type PermissionStore struct {
	db      DB
	retrier *Retrier
	profile string
}

// NewPermissionStore creates a store for profile.
func NewPermissionStore(db DB, retrier *Retrier, profile string) *PermissionStore {
	if profile == "" {
		profile = "default"
	}
	return &PermissionStore{db: db, retrier: retrier, profile: profile}
}

// Get returns the entry for (userID, menuID) or nil.
func (s *PermissionStore) Get(ctx context.Context, userID, menuID int64) (*domain.PermissionEntry, error) {
	entry := domain.PermissionEntry{UserID: userID, MenuID: menuID}
	err := s.db.QueryRow(ctx, selectPermissionSQL, s.profile, userID, menuID).Scan(
		&entry.Auth.Read,
		&entry.Auth.Write,
		&entry.Auth.Edit,
		&entry.Auth.Delete,
		&entry.CachedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get permission: %w", err)
	}
	return &entry, nil
}

// Put stores entry, replacing any previous one.
func (s *PermissionStore) Put(ctx context.Context, entry domain.PermissionEntry) error {
	err := s.retrier.Retry(ctx, func() error {
		_, err := s.db.Exec(ctx, upsertPermissionSQL,
			s.profile, entry.UserID, entry.MenuID,
			entry.Auth.Read, entry.Auth.Write, entry.Auth.Edit, entry.Auth.Delete,
			entry.CachedAt,
		)
		return err
	})
	if err != nil {
		return fmt.Errorf("put permission: %w", err)
	}
	return nil
}

// Purge drops every entry of the profile.
func (s *PermissionStore) Purge(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, purgePermissionsSQL, s.profile); err != nil {
		return fmt.Errorf("purge permissions: %w", err)
	}
	return nil
}
