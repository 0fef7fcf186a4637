package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/nordvest/backend/internal/domain/shared"
)

const defaultCleanupInterval = 30 * time.Second

// InMemoryCache implements shared.Cache in process memory. It backs tests and
// single-instance deployments without Redis.
type InMemoryCache struct {
	entries sync.Map // map[string]memoryEntry
	stopCh  chan struct{}
	stopped int32
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// NewInMemoryCache creates a cache and starts its expiry sweeper.
// Call Close to stop the sweeper.
func NewInMemoryCache() *InMemoryCache {
	c := &InMemoryCache{stopCh: make(chan struct{})}
	go c.cleanupExpired(defaultCleanupInterval)
	return c
}

// Get returns a copy of the cached value
func (c *InMemoryCache) Get(_ context.Context, key string) ([]byte, bool) {
	v, ok := c.entries.Load(key)
	if !ok {
		return nil, false
	}
	e := v.(memoryEntry)
	if e.expired(time.Now()) {
		c.entries.Delete(key)
		return nil, false
	}
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, true
}

// Set stores a copy of value; a non-positive ttl never expires
func (c *InMemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) {
	e := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		e.expiresAt = time.Now().Add(ttl)
	}
	c.entries.Store(key, e)
}

// Delete removes the given keys
func (c *InMemoryCache) Delete(_ context.Context, keys ...string) {
	for _, k := range keys {
		c.entries.Delete(k)
	}
}

// DeleteByPrefix removes every key starting with prefix
func (c *InMemoryCache) DeleteByPrefix(_ context.Context, prefix string) {
	c.entries.Range(func(k, _ any) bool {
		if strings.HasPrefix(k.(string), prefix) {
			c.entries.Delete(k)
		}
		return true
	})
}

// Ping always succeeds
func (c *InMemoryCache) Ping(context.Context) error {
	return nil
}

// Len counts live entries
func (c *InMemoryCache) Len() int {
	n := 0
	now := time.Now()
	c.entries.Range(func(_, v any) bool {
		if !v.(memoryEntry).expired(now) {
			n++
		}
		return true
	})
	return n
}

// Close stops the background sweeper. It is safe to call more than once.
func (c *InMemoryCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

func (c *InMemoryCache) cleanupExpired(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-c.stopCh:
			return
		case now := <-ticker.C:
			c.entries.Range(func(k, v any) bool {
				if v.(memoryEntry).expired(now) {
					c.entries.Delete(k)
				}
				return true
			})
		}
	}
}

var _ shared.Cache = (*InMemoryCache)(nil)
