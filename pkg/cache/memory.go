package cache

import (
	"sync"
	"time"
)

type entry[V any] struct {
	value    V
	expireAt time.Time
}

func (e entry[V]) expired(now time.Time) bool {
	return !e.expireAt.IsZero() && !now.Before(e.expireAt)
}

// MemoryCache implements a thread-safe in-memory cache.
type MemoryCache[K comparable, V any] struct {
	mu   sync.RWMutex
	data map[K]entry[V]
	now  func() time.Time
}

var _ Cache[string, []byte] = (*MemoryCache[string, []byte])(nil)

// Option configures a MemoryCache.
type Option[K comparable, V any] func(*MemoryCache[K, V])

// WithClock overrides the time source used for expiry.
func WithClock[K comparable, V any](now func() time.Time) Option[K, V] {
	return func(c *MemoryCache[K, V]) {
		c.now = now
	}
}

// NewMemoryCache creates a new instance of MemoryCache.
func NewMemoryCache[K comparable, V any](opts ...Option[K, V]) *MemoryCache[K, V] {
	c := &MemoryCache[K, V]{
		data: make(map[K]entry[V]),
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Set adds or updates an item that never expires.
func (c *MemoryCache[K, V]) Set(key K, value V) {
	c.SetWithTTL(key, value, 0)
}

// SetWithTTL adds or updates an item. A non-positive ttl means no expiry.
func (c *MemoryCache[K, V]) SetWithTTL(key K, value V, ttl time.Duration) {
	e := entry[V]{value: value}
	if ttl > 0 {
		e.expireAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.data[key] = e
	c.mu.Unlock()
}

// Get retrieves an item. Expired items are removed lazily.
func (c *MemoryCache[K, V]) Get(key K) (V, bool) {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()

	var zero V
	if !ok {
		return zero, false
	}
	if e.expired(c.now()) {
		c.mu.Lock()
		if cur, exists := c.data[key]; exists && cur.expired(c.now()) {
			delete(c.data, key)
		}
		c.mu.Unlock()
		return zero, false
	}
	return e.value, true
}

// Del removes an item from the cache.
func (c *MemoryCache[K, V]) Del(key K) {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
}

// Contains checks if a key exists and has not expired.
func (c *MemoryCache[K, V]) Contains(key K) bool {
	_, ok := c.Get(key)
	return ok
}

// Len returns the number of items in the cache.
func (c *MemoryCache[K, V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Keys returns all unexpired keys.
func (c *MemoryCache[K, V]) Keys() []K {
	now := c.now()

	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]K, 0, len(c.data))
	for k, e := range c.data {
		if !e.expired(now) {
			keys = append(keys, k)
		}
	}
	return keys
}

// Clear removes all items from the cache.
func (c *MemoryCache[K, V]) Clear() {
	c.mu.Lock()
	c.data = make(map[K]entry[V])
	c.mu.Unlock()
}

// Purge drops expired items and returns how many were removed.
func (c *MemoryCache[K, V]) Purge() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for k, e := range c.data {
		if e.expired(now) {
			delete(c.data, k)
			n++
		}
	}
	return n
}
