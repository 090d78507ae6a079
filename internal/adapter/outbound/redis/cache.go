package redis

import (
	"context"
	"errors"
	"time"

	"github.com/homerent/server/internal/port/outbound"
	"github.com/redis/go-redis/v9"
)

// CacheRecorder receives hit/miss observations. *metrics.Metrics satisfies it.
type CacheRecorder interface {
	RecordCacheHit(cache string)
	RecordCacheMiss(cache string)
}

// cache implements outbound.CachePort on a Redis client.
type cache struct {
	client   redis.UniversalClient
	prefix   string
	name     string
	recorder CacheRecorder
}

// NewCache creates a cache adapter. Keys are namespaced by prefix; name labels
// the hit/miss metrics. recorder may be nil.
func NewCache(client redis.UniversalClient, prefix, name string, recorder CacheRecorder) outbound.CachePort {
	return &cache{
		client:   client,
		prefix:   prefix,
		name:     name,
		recorder: recorder,
	}
}

func (c *cache) key(k string) string {
	return c.prefix + k
}

func (c *cache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, c.key(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.miss()
			return nil, outbound.ErrCacheMiss
		}
		return nil, err
	}
	c.hit()
	return val, nil
}

func (c *cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.key(key), value, ttl).Err()
}

func (c *cache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.key(key)).Err()
}

func (c *cache) hit() {
	if c.recorder != nil {
		c.recorder.RecordCacheHit(c.name)
	}
}

func (c *cache) miss() {
	if c.recorder != nil {
		c.recorder.RecordCacheMiss(c.name)
	}
}

// Compile-time check
var _ outbound.CachePort = (*cache)(nil)
