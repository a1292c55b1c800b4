package kv

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/campusgpt/pkg/cache"
)

func exerciseStorage(t *testing.T, s Storage) {
	t.Helper()
	ctx := context.Background()

	_, found, err := s.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "posts", []byte(`[{"id":"p1"}]`), 0))
	v, found, err := s.Get(ctx, "posts")
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `[{"id":"p1"}]`, string(v))

	require.NoError(t, s.Set(ctx, "posts", []byte(`[]`), 0))
	v, _, err = s.Get(ctx, "posts")
	require.NoError(t, err)
	assert.Equal(t, "[]", string(v))

	require.NoError(t, s.Delete(ctx, "posts"))
	require.NoError(t, s.Delete(ctx, "posts"))
	_, found, err = s.Get(ctx, "posts")
	require.NoError(t, err)
	assert.False(t, found)

	for want := int64(1); want <= 3; want++ {
		n, err := s.Incr(ctx, "generation")
		require.NoError(t, err)
		assert.Equal(t, want, n)
	}
	v, _, err = s.Get(ctx, "generation")
	require.NoError(t, err)
	assert.Equal(t, "3", string(v))
	require.NoError(t, s.Delete(ctx, "generation"))
}

func TestMemory(t *testing.T) {
	m := NewMemory()
	exerciseStorage(t, m)

	require.NoError(t, m.Close())
	_, _, err := m.Get(context.Background(), "k")
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, m.Set(context.Background(), "k", nil, 0), ErrClosed)
	require.NoError(t, m.Close())
}

func TestMemoryCopiesValues(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	buf := []byte("abc")
	require.NoError(t, m.Set(ctx, "k", buf, 0))
	buf[0] = 'x'

	v, _, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(v))
	v[1] = 'y'

	v, _, _ = m.Get(ctx, "k")
	assert.Equal(t, "abc", string(v))
}

func TestMemoryIncrConcurrent(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Incr(ctx, "n")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	n, err := m.Incr(ctx, "n")
	require.NoError(t, err)
	assert.Equal(t, int64(51), n)

	require.NoError(t, m.Set(ctx, "text", []byte("abc"), 0))
	_, err = m.Incr(ctx, "text")
	assert.Error(t, err)
}

func TestMemoryDeletePrefix(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	require.NoError(t, m.Set(ctx, "reply:1:a", []byte("x"), 0))
	require.NoError(t, m.Set(ctx, "reply:1:b", []byte("x"), 0))
	require.NoError(t, m.Set(ctx, "reply:2:a", []byte("x"), 0))

	n, err := m.DeletePrefix(ctx, "reply:1:")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	_, found, _ := m.Get(ctx, "reply:2:a")
	assert.True(t, found)
}

func TestMemoryTTL(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	m := NewMemory(cache.WithClock[string, []byte](func() time.Time { return now }))

	require.NoError(t, m.Set(ctx, "k", []byte("v"), time.Minute))
	_, found, _ := m.Get(ctx, "k")
	assert.True(t, found)

	now = now.Add(2 * time.Minute)
	_, found, _ = m.Get(ctx, "k")
	assert.False(t, found)
}

func TestRedis(t *testing.T) {
	addr := os.Getenv("CAMPUSGPT_TEST_REDIS")
	if addr == "" {
		t.Skip("CAMPUSGPT_TEST_REDIS not set")
	}
	client := goredis.NewClient(&goredis.Options{Addr: addr})
	defer client.Close()
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("redis not reachable: %v", err)
	}

	s := NewRedis(client, "campusgpt:test:"+t.Name()+":")
	exerciseStorage(t, s)
	require.NoError(t, s.Close())
}
