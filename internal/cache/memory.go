package cache

import (
	"context"
	"sync"
	"time"
)

type cacheEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e *cacheEntry) isExpired(now time.Time) bool {
	return now.After(e.expiresAt)
}

type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	now     func() time.Time
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[string]*cacheEntry),
		now:     time.Now,
	}
}

func (c *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[key]
	if !ok || entry.isExpired(c.now()) {
		return nil, ErrCacheMiss
	}

	result := make([]byte, len(entry.value))
	copy(result, entry.value)
	return result, nil
}

func (c *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	c.entries[key] = &cacheEntry{
		value:     valueCopy,
		expiresAt: c.now().Add(ttl),
	}
	return nil
}

func (c *MemoryCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}
