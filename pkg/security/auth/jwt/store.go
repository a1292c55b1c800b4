package jwt

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/kart-io/campusgpt/pkg/cache"
)

// Store records revoked token ids.
type Store interface {
	// Revoke marks a token id as revoked until expiration elapses.
	Revoke(ctx context.Context, tokenID string, expiration time.Duration) error

	// IsRevoked checks if a token id has been revoked.
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// MemoryStore keeps revoked ids in process.
type MemoryStore struct {
	revoked *cache.MemoryCache[string, struct{}]
}

// NewMemoryStore creates a new in-memory token store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{revoked: cache.NewMemoryCache[string, struct{}]()}
}

// Revoke marks a token id as revoked.
func (s *MemoryStore) Revoke(_ context.Context, tokenID string, expiration time.Duration) error {
	s.revoked.SetWithTTL(tokenID, struct{}{}, expiration)
	return nil
}

// IsRevoked checks if a token id has been revoked.
func (s *MemoryStore) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	return s.revoked.Contains(tokenID), nil
}

// RedisStore keeps revoked ids in Redis so every replica sees them.
type RedisStore struct {
	client goredis.Cmdable
	prefix string
}

// NewRedisStore creates a new Redis-backed token store.
func NewRedisStore(client goredis.Cmdable, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "campusgpt:jwt:revoked:"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Revoke marks a token id as revoked in Redis.
func (s *RedisStore) Revoke(ctx context.Context, tokenID string, expiration time.Duration) error {
	return s.client.Set(ctx, s.prefix+tokenID, 1, expiration).Err()
}

// IsRevoked checks if a token id exists in the Redis blacklist.
func (s *RedisStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, s.prefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return n > 0, nil
}
