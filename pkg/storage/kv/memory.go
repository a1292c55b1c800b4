package kv

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/kart-io/campusgpt/pkg/cache"
)

// Memory is an in-process Storage backed by cache.MemoryCache.
type Memory struct {
	data   *cache.MemoryCache[string, []byte]
	closed atomic.Bool

	// mu 串行化写操作，保证 Incr 的读改写不被打断
	mu sync.Mutex
}

var _ Storage = (*Memory)(nil)

// NewMemory creates an empty in-process storage.
func NewMemory(opts ...cache.Option[string, []byte]) *Memory {
	return &Memory{data: cache.NewMemoryCache(opts...)}
}

// Get implements Storage. The returned slice is a copy.
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	if m.closed.Load() {
		return nil, false, ErrClosed
	}
	v, ok := m.data.Get(key)
	if !ok {
		return nil, false, nil
	}
	return append([]byte(nil), v...), true, nil
}

// Set implements Storage. value is copied.
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.closed.Load() {
		return ErrClosed
	}
	m.mu.Lock()
	m.data.SetWithTTL(key, append([]byte(nil), value...), ttl)
	m.mu.Unlock()
	return nil
}

// Delete implements Storage.
func (m *Memory) Delete(_ context.Context, key string) error {
	if m.closed.Load() {
		return ErrClosed
	}
	m.mu.Lock()
	m.data.Del(key)
	m.mu.Unlock()
	return nil
}

// Incr implements Storage.
func (m *Memory) Incr(_ context.Context, key string) (int64, error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var n int64
	if v, ok := m.data.Get(key); ok {
		cur, err := strconv.ParseInt(string(v), 10, 64)
		if err != nil {
			return 0, fmt.Errorf("kv: value of %q is not an integer", key)
		}
		n = cur
	}
	n++
	m.data.Set(key, []byte(strconv.FormatInt(n, 10)))
	return n, nil
}

// DeletePrefix removes every key starting with prefix and returns how many
// were removed.
func (m *Memory) DeletePrefix(_ context.Context, prefix string) (int, error) {
	if m.closed.Load() {
		return 0, ErrClosed
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for _, k := range m.data.Keys() {
		if strings.HasPrefix(k, prefix) {
			m.data.Del(k)
			n++
		}
	}
	m.data.Purge()
	return n, nil
}

// Close drops all data.
func (m *Memory) Close() error {
	if m.closed.CompareAndSwap(false, true) {
		m.data.Clear()
	}
	return nil
}
