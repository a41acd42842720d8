package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// MemoryCache keeps entries in process memory with per-entry expiry. Hits do not
// extend an entry's lifetime.
type MemoryCache struct {
	items *ttlcache.Cache[string, []byte]
}

// NewMemoryCache creates a MemoryCache. Call Start to run expired-entry cleanup and
// Stop to end it.
func NewMemoryCache(capacity uint64) *MemoryCache {
	opts := []ttlcache.Option[string, []byte]{
		ttlcache.WithDisableTouchOnHit[string, []byte](),
	}
	if capacity > 0 {
		opts = append(opts, ttlcache.WithCapacity[string, []byte](capacity))
	}
	return &MemoryCache{items: ttlcache.New(opts...)}
}

// Start blocks running the cleanup loop until Stop is called.
func (m *MemoryCache) Start() {
	m.items.Start()
}

// Stop ends the cleanup loop.
func (m *MemoryCache) Stop() {
	m.items.Stop()
}

func (m *MemoryCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	item := m.items.Get(key)
	if item == nil {
		return nil, false, nil
	}
	value := item.Value()
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

func (m *MemoryCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)
	if ttl <= 0 {
		ttl = ttlcache.NoTTL
	}
	m.items.Set(key, stored, ttl)
	return nil
}

func (m *MemoryCache) Delete(ctx context.Context, key string) error {
	m.items.Delete(key)
	return nil
}

func (m *MemoryCache) Ping(ctx context.Context) error {
	return nil
}
