package cache

import (
	"context"
	"time"

	"github.com/allisson/catalog/internal/metrics"
)

const metricsDomain = "cache"

// InstrumentedCache records cache_get (hit, miss, error), cache_set and cache_delete
// operations for the wrapped cache.
type InstrumentedCache struct {
	next    Cache
	metrics metrics.BusinessMetrics
}

// NewInstrumentedCache wraps next with metrics recording.
func NewInstrumentedCache(next Cache, m metrics.BusinessMetrics) *InstrumentedCache {
	return &InstrumentedCache{next: next, metrics: m}
}

func (c *InstrumentedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	start := time.Now()
	value, found, err := c.next.Get(ctx, key)

	status := metrics.StatusMiss
	switch {
	case err != nil:
		status = metrics.StatusError
	case found:
		status = metrics.StatusHit
	}
	metrics.Observe(ctx, c.metrics, metricsDomain, "cache_get", start, status)

	return value, found, err
}

func (c *InstrumentedCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	start := time.Now()
	err := c.next.Set(ctx, key, value, ttl)

	metrics.Observe(ctx, c.metrics, metricsDomain, "cache_set", start, statusOf(err))
	return err
}

func (c *InstrumentedCache) Delete(ctx context.Context, key string) error {
	start := time.Now()
	err := c.next.Delete(ctx, key)

	metrics.Observe(ctx, c.metrics, metricsDomain, "cache_delete", start, statusOf(err))
	return err
}

func (c *InstrumentedCache) Ping(ctx context.Context) error {
	return c.next.Ping(ctx)
}

func statusOf(err error) string {
	if err != nil {
		return metrics.StatusError
	}
	return metrics.StatusSuccess
}
