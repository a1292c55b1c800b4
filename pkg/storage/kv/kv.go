// Package kv provides a minimal byte-oriented key/value storage abstraction
// with in-process and Redis backends.
package kv

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by operations on a closed storage.
var ErrClosed = errors.New("kv: storage is closed")

// Storage 键值存储接口。
type Storage interface {
	// Get returns the value stored under key. found is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)
	// Set stores value under key. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// Incr atomically adds one to the decimal counter under key and returns
	// the new value. An absent key counts from zero. The counter never expires.
	Incr(ctx context.Context, key string) (int64, error)
	// Close releases resources owned by the storage.
	Close() error
}
