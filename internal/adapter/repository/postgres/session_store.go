package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/iho/logiadmin/internal/domain"
	"github.com/iho/logiadmin/internal/usecase"
)

var _ usecase.SessionStore = (*SessionStore)(nil)

const (
	selectSessionSQL = `SELECT key, value FROM session_kv WHERE profile = $1`
	deleteSessionSQL = `DELETE FROM session_kv WHERE profile = $1`
	upsertSessionSQL = `INSERT INTO session_kv (profile, key, value, updated_at)
VALUES ($1, $2, $3, now())
ON CONFLICT (profile, key) DO UPDATE SET value = EXCLUDED.value, updated_at = now()`
)

// SessionStore keeps the persisted record as rows of session_kv, one per
// key, scoped by profile.
type SessionStore struct {
	db      DB
	tx      *TxManager
	profile string
}

// NewSessionStore creates a store for profile.
func NewSessionStore(db DB, tx *TxManager, profile string) *SessionStore {
	if profile == "" {
		profile = "default"
	}
	return &SessionStore{db: db, tx: tx, profile: profile}
}

// Load reads every row of the profile and decodes them.
func (s *SessionStore) Load(ctx context.Context) (*domain.PersistedState, error) {
	rows, err := s.db.Query(ctx, selectSessionSQL, s.profile)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	defer rows.Close()

	entries := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan session row: %w", err)
		}
		entries[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	return domain.DecodePersistedState(entries)
}

// Save replaces the profile's rows with state in one transaction.
func (s *SessionStore) Save(ctx context.Context, state *domain.PersistedState) error {
	entries, err := state.Entries()
	if err != nil {
		return err
	}

	err = s.tx.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, deleteSessionSQL, s.profile); err != nil {
			return err
		}
		// Fixed key order keeps lock acquisition order stable across writers.
		for _, key := range domain.PersistedKeys {
			value, ok := entries[key]
			if !ok {
				continue
			}
			if _, err := tx.Exec(ctx, upsertSessionSQL, s.profile, key, value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear deletes the profile's rows.
func (s *SessionStore) Clear(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, deleteSessionSQL, s.profile); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
