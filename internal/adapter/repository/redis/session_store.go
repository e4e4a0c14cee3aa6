package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/iho/logiadmin/internal/domain"
	"github.com/iho/logiadmin/internal/usecase"
)

var _ usecase.SessionStore = (*SessionStore)(nil)

// SessionStore keeps one Redis string per persisted key under
// logiadmin:<profile>:. Saves run in a MULTI block so readers never see a
// half-written record.
type SessionStore struct {
	client *redis.Client
	prefix string
}

// NewSessionStore creates a store for profile.
func NewSessionStore(client *redis.Client, profile string) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: keyPrefix(profile),
	}
}

func (s *SessionStore) keys() []string {
	keys := make([]string, len(domain.PersistedKeys))
	for i, k := range domain.PersistedKeys {
		keys[i] = s.prefix + k
	}
	return keys
}

// Load reads every persisted key and decodes them.
func (s *SessionStore) Load(ctx context.Context) (*domain.PersistedState, error) {
	values, err := s.client.MGet(ctx, s.keys()...).Result()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}

	entries := make(map[string]string, len(values))
	for i, v := range values {
		if str, ok := v.(string); ok {
			entries[domain.PersistedKeys[i]] = str
		}
	}
	return domain.DecodePersistedState(entries)
}

// Save replaces the stored record with state.
func (s *SessionStore) Save(ctx context.Context, state *domain.PersistedState) error {
	entries, err := state.Entries()
	if err != nil {
		return err
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.keys()...)
		for k, v := range entries {
			pipe.Set(ctx, s.prefix+k, v, 0)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear deletes every persisted key.
func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.keys()...).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func keyPrefix(profile string) string {
	if profile == "" {
		profile = "default"
	}
	return "logiadmin:" + profile + ":"
}
