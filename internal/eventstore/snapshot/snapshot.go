// Package snapshot caches replayed aggregate state in Redis so loads replay
// only the stream tail. Snapshots are an optimization: a miss or a stale
// entry only costs extra replay, never correctness.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"caseflow/internal/casefile"
	"caseflow/pkg/platform/sentinel"
)

// DefaultTTL bounds how long an idle snapshot lives.
const DefaultTTL = 24 * time.Hour

// Store reads and writes case snapshots.
type Store interface {
	Get(ctx context.Context, caseID string) (*casefile.Case, error)
	Put(ctx context.Context, c *casefile.Case) error
}

// RedisStore implements Store on Redis.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a snapshot store with the given TTL; zero means
// DefaultTTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func key(caseID string) string {
	return "casefile:snapshot:" + caseID
}

// Get returns the cached snapshot or sentinel.ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, caseID string) (*casefile.Case, error) {
	raw, err := s.client.Get(ctx, key(caseID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("snapshot get %s: %w", caseID, err)
	}
	var c casefile.Case
	if err := json.Unmarshal(raw, &c); err != nil {
		// Corrupt or from an older shape; treat as a miss.
		return nil, sentinel.ErrNotFound
	}
	return &c, nil
}

// Put stores the snapshot.
func (s *RedisStore) Put(ctx context.Context, c *casefile.Case) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("snapshot marshal %s: %w", c.ID, err)
	}
	if err := s.client.Set(ctx, key(c.ID), raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("snapshot put %s: %w", c.ID, err)
	}
	return nil
}
