package cache

import (
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMemoryCache_Basic(t *testing.T) {
	c := NewMemoryCache[string, int]()

	c.Set("a", 1)
	got, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, got)
	assert.True(t, c.Contains("a"))
	assert.Equal(t, 1, c.Len())

	c.Del("a")
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_TTL(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := NewMemoryCache(WithClock[string, string](func() time.Time { return now }))

	c.SetWithTTL("short", "x", time.Minute)
	c.Set("forever", "y")

	now = now.Add(59 * time.Second)
	assert.True(t, c.Contains("short"))

	now = now.Add(time.Second)
	assert.False(t, c.Contains("short"))
	assert.True(t, c.Contains("forever"))

	c.SetWithTTL("other", "z", time.Second)
	now = now.Add(2 * time.Second)
	assert.Equal(t, 1, c.Purge())

	keys := c.Keys()
	sort.Strings(keys)
	assert.Equal(t, []string{"forever"}, keys)
}

func TestMemoryCache_Clear(t *testing.T) {
	c := NewMemoryCache[int, string]()
	for i := 0; i < 10; i++ {
		c.Set(i, "v")
	}
	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_Concurrent(t *testing.T) {
	c := NewMemoryCache[int, int]()
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set(n*100+j, j)
				c.Get(n*100 + j)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1600, c.Len())
}
