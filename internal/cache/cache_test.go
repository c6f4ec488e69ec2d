package cache_test

import (
	"sync"
	"testing"
	"time"

	"github.com/SscSPs/ledger_engine/internal/cache"
	"github.com/stretchr/testify/assert"
)

func TestTTLCache_GetSet(t *testing.T) {
	c := cache.NewTTLCache[string, int](time.Minute)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Set("a", 1)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	c.Delete("a")
	_, ok = c.Get("a")
	assert.False(t, ok)
}

func TestTTLCache_Expiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := cache.NewTTLCache(time.Minute, cache.WithClock[string, int](func() time.Time { return now }))

	c.Set("a", 1)
	now = now.Add(59 * time.Second)
	_, ok := c.Get("a")
	assert.True(t, ok)

	now = now.Add(2 * time.Second)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entry is evicted on read")
}

func TestTTLCache_ZeroTTLNeverExpires(t *testing.T) {
	now := time.Now()
	c := cache.NewTTLCache(0, cache.WithClock[string, int](func() time.Time { return now }))
	c.Set("a", 1)
	now = now.Add(24 * time.Hour)
	_, ok := c.Get("a")
	assert.True(t, ok)
}

func TestTTLCache_Clear(t *testing.T) {
	c := cache.NewTTLCache[int64, string](time.Minute)
	c.Set(1, "one")
	c.Set(2, "two")
	c.Clear()
	assert.Equal(t, 0, c.Len())
}

func TestTTLCache_Concurrent(t *testing.T) {
	c := cache.NewTTLCache[int, int](time.Minute)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set(i, i)
			c.Get(i)
			if i%10 == 0 {
				c.Clear()
			}
		}(i)
	}
	wg.Wait()
}

func TestNoopCache(t *testing.T) {
	var c cache.Cache[string, int] = cache.NoopCache[string, int]{}
	c.Set("a", 1)
	_, ok := c.Get("a")
	assert.False(t, ok)
}
