package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(maxItems int, ttl time.Duration) *Cache {
	c := New(Config{
		DefaultTTL:      ttl,
		CleanupInterval: time.Hour, // keep the background loop out of the way
		MaxItems:        maxItems,
	})
	return c
}

func TestCacheSetGet(t *testing.T) {
	c := newTestCache(10, time.Minute)
	defer c.Close()

	c.Set("a", 1)
	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	c := newTestCache(10, 10*time.Millisecond)
	defer c.Close()

	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)

	_, ok := c.Get("a")
	assert.False(t, ok, "expired entries are not served")
	assert.Equal(t, 0, c.Size(), "expired entries are dropped on read")
}

func TestCacheLRUEviction(t *testing.T) {
	c := newTestCache(2, time.Minute)
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)

	// Touch "a" so "b" becomes the eviction candidate.
	_, ok := c.Get("a")
	require.True(t, ok)

	c.Set("c", 3)

	_, ok = c.Get("b")
	assert.False(t, ok, "least recently used entry is evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestCacheEvictionCallback(t *testing.T) {
	var evictedKeys []any
	c := New(Config{
		DefaultTTL:      time.Minute,
		CleanupInterval: time.Hour,
		MaxItems:        1,
		OnEviction: func(key, _ any) {
			evictedKeys = append(evictedKeys, key)
		},
	})
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)

	require.Len(t, evictedKeys, 1)
	assert.Equal(t, "a", evictedKeys[0])
}

func TestCacheRemoveAndClose(t *testing.T) {
	c := newTestCache(10, time.Minute)

	c.Set("a", 1)
	assert.True(t, c.Remove("a"))
	assert.False(t, c.Remove("a"))

	c.Close()
	// Close is idempotent.
	c.Close()
}
