// Package cache provides the byte-oriented key/value caches used by the catalog read
// path: Redis, in-process memory and a no-op stand-in, plus a metrics decorator.
package cache

import (
	"context"
	"time"
)

// Cache is a key/value store with per-entry TTL. A miss is (nil, false, nil) and
// deleting an absent key is not an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
}

// Backend names accepted by CACHE_BACKEND.
const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
	BackendNone   = "none"
)
