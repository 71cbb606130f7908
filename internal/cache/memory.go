// Package cache provides a process-local key/value store with expiry.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type item struct {
	value     interface{}
	expiresAt time.Time
}

func (i item) expired(now time.Time) bool {
	return !i.expiresAt.IsZero() && now.After(i.expiresAt)
}

// InMemoryCache stores values for a fixed TTL. Expired items are never
// returned; a background routine removes them every cleanupFreq.
type InMemoryCache struct {
	mu          sync.RWMutex
	items       map[string]item
	ttl         time.Duration
	cleanupFreq time.Duration
	now         func() time.Time

	stop    chan struct{}
	stopped chan struct{}
	once    sync.Once
}

// NewInMemoryCache creates a cache. A zero ttl keeps items until deleted.
func NewInMemoryCache(ttl, cleanupFreq time.Duration) *InMemoryCache {
	return &InMemoryCache{
		items:       make(map[string]item),
		ttl:         ttl,
		cleanupFreq: cleanupFreq,
		now:         time.Now,
	}
}

func (c *InMemoryCache) Set(ctx context.Context, key string, value interface{}) {
	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = c.now().Add(c.ttl)
	}

	c.mu.Lock()
	c.items[key] = item{value: value, expiresAt: expiresAt}
	c.mu.Unlock()
}

func (c *InMemoryCache) Get(ctx context.Context, key string) (interface{}, bool) {
	c.mu.RLock()
	it, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || it.expired(c.now()) {
		return nil, false
	}
	return it.value, true
}

func (c *InMemoryCache) Delete(ctx context.Context, key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// DeletePrefix removes every key starting with prefix and returns how many
// were removed.
func (c *InMemoryCache) DeletePrefix(ctx context.Context, prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for key := range c.items {
		if strings.HasPrefix(key, prefix) {
			delete(c.items, key)
			n++
		}
	}
	return n
}

func (c *InMemoryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *InMemoryCache) deleteExpired() {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for key, it := range c.items {
		if it.expired(now) {
			delete(c.items, key)
		}
	}
}

// StartCleanup runs the expiry sweep until ctx is done or StopCleanup is
// called. It does nothing when cleanupFreq is not positive.
func (c *InMemoryCache) StartCleanup(ctx context.Context) {
	if c.cleanupFreq <= 0 || c.stop != nil {
		return
	}

	c.stop = make(chan struct{})
	c.stopped = make(chan struct{})

	go func() {
		ticker := time.NewTicker(c.cleanupFreq)
		defer ticker.Stop()
		defer close(c.stopped)

		for {
			select {
			case <-ticker.C:
				c.deleteExpired()
			case <-ctx.Done():
				return
			case <-c.stop:
				return
			}
		}
	}()
}

// StopCleanup stops the sweep started by StartCleanup and waits for it.
func (c *InMemoryCache) StopCleanup() {
	if c.stop == nil {
		return
	}
	c.once.Do(func() {
		close(c.stop)
		<-c.stopped
	})
}
