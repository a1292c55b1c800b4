package kv

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Redis is a Storage on top of a go-redis client. Keys are namespaced with
// an optional prefix. The client is owned by the caller and is not closed.
type Redis struct {
	client goredis.Cmdable
	prefix string
}

var _ Storage = (*Redis)(nil)

// NewRedis creates a Redis-backed storage.
func NewRedis(client goredis.Cmdable, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

// Get implements Storage.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// Set implements Storage.
func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return r.client.Set(ctx, r.prefix+key, value, ttl).Err()
}

// Delete implements Storage.
func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, r.prefix+key).Err()
}

// Incr implements Storage with INCR.
func (r *Redis) Incr(ctx context.Context, key string) (int64, error) {
	return r.client.Incr(ctx, r.prefix+key).Result()
}

// Close is a no-op, the client is shared.
func (r *Redis) Close() error {
	return nil
}
