package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheHitAndMiss(t *testing.T) {
	c := New[string, int](time.Minute)
	c.Set("a", 1)

	v, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("b")
	assert.False(t, ok)
}

func TestCacheExpiry(t *testing.T) {
	now := time.Unix(1000, 0)
	clock := func() time.Time { return now }
	c := New(time.Minute, WithClock[string, []float32](clock))

	c.Set("query", []float32{0.1, 0.2})

	now = now.Add(59 * time.Second)
	v, ok := c.Get("query")
	require.True(t, ok)
	assert.Equal(t, []float32{0.1, 0.2}, v)

	now = now.Add(2 * time.Second)
	_, ok = c.Get("query")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len(), "expired entries are evicted")
}

func TestCacheSetRefreshesTTL(t *testing.T) {
	now := time.Unix(1000, 0)
	c := New(time.Minute, WithClock[string, int](func() time.Time { return now }))

	c.Set("k", 1)
	now = now.Add(50 * time.Second)
	c.Set("k", 2)
	now = now.Add(50 * time.Second)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 2, v)
}

func TestCacheZeroTTLNeverExpires(t *testing.T) {
	now := time.Unix(1000, 0)
	c := New(0, WithClock[string, int](func() time.Time { return now }))

	c.Set("k", 42)
	now = now.Add(1000 * time.Hour)

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, 42, v)
	assert.Equal(t, 1, c.Len())
}
