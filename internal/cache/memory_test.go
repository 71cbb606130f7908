package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(time.Minute, 0)

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set(ctx, "ranking:general", 42)

	v, ok := c.Get(ctx, "ranking:general")
	assert.True(t, ok)
	assert.Equal(t, 42, v)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get(ctx, "ranking:general")
	assert.False(t, ok)

	c.deleteExpired()
	assert.Equal(t, 0, c.Len())
}

func TestInMemoryCacheDeletePrefix(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache(0, 0)

	c.Set(ctx, "ranking:general", 1)
	c.Set(ctx, "ranking:region:Norte", 2)
	c.Set(ctx, "summary:abc", 3)

	assert.Equal(t, 2, c.DeletePrefix(ctx, "ranking:"))

	_, ok := c.Get(ctx, "ranking:general")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "summary:abc")
	assert.True(t, ok)
}

func TestInMemoryCacheCleanupStops(t *testing.T) {
	c := NewInMemoryCache(time.Millisecond, time.Millisecond)
	c.StartCleanup(context.Background())

	c.Set(context.Background(), "k", "v")

	assert.Eventually(t, func() bool { return c.Len() == 0 }, time.Second, 5*time.Millisecond)

	c.StopCleanup()
	c.StopCleanup()
}
