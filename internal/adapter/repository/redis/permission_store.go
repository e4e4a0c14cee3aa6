package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iho/logiadmin/internal/domain"
	"github.com/iho/logiadmin/internal/usecase"
)

var _ usecase.PermissionStore = (*PermissionStore)(nil)

// PermissionStore keeps permission entries in one Redis hash per profile,
// so Purge is a single DEL. Freshness is decided by the caller from
// CachedAt; the hash itself expires ttl after the last write, when every
// entry in it is stale anyway.
type PermissionStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewPermissionStore creates a store for profile. A zero ttl never expires
// the hash.
func NewPermissionStore(client *redis.Client, profile string, ttl time.Duration) *PermissionStore {
	return &PermissionStore{
		client: client,
		key:    keyPrefix(profile) + "permissions",
		ttl:    ttl,
	}
}

func field(userID, menuID int64) string {
	return strconv.FormatInt(userID, 10) + ":" + strconv.FormatInt(menuID, 10)
}

// Get returns the entry for (userID, menuID) or nil.
func (s *PermissionStore) Get(ctx context.Context, userID, menuID int64) (*domain.PermissionEntry, error) {
	raw, err := s.client.HGet(ctx, s.key, field(userID, menuID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get permission: %w", err)
	}

	var entry domain.PermissionEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, fmt.Errorf("decode permission: %w", err)
	}
	return &entry, nil
}

// Put stores entry, replacing any previous one.
func (s *PermissionStore) Put(ctx context.Context, entry domain.PermissionEntry) error {
	raw, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("encode permission: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.key, field(entry.UserID, entry.MenuID), raw)
		if s.ttl > 0 {
			pipe.Expire(ctx, s.key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("put permission: %w", err)
	}
	return nil
}

// Purge drops every entry.
func (s *PermissionStore) Purge(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("purge permissions: %w", err)
	}
	return nil
}
