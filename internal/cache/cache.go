// Package cache holds the read-through cache used for admin configuration
// lookups. MemoryCache serves single-instance deployments and tests;
// RedisCache is shared across API and cron processes.
package cache

import (
	"context"
	"time"
)

type Cache interface {
	// Get returns ErrCacheMiss when key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type CacheError string

func (e CacheError) Error() string { return string(e) }

const ErrCacheMiss CacheError = "cache miss"
