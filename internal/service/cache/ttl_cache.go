package cache

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// TTLCache is the in-process BytesCache used when Redis is disabled.
type TTLCache struct {
	c *gocache.Cache
}

func NewTTLCache(defaultTTL time.Duration) *TTLCache {
	if defaultTTL <= 0 {
		defaultTTL = time.Minute
	}
	return &TTLCache{c: gocache.New(defaultTTL, 2*defaultTTL)}
}

func (c *TTLCache) GetBytes(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := c.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, ok := v.([]byte)
	return b, ok, nil
}

func (c *TTLCache) SetBytes(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = gocache.DefaultExpiration
	}
	c.c.Set(key, value, ttl)
	return nil
}

// Len reports stored entries, expired ones included until the janitor runs.
func (c *TTLCache) Len() int { return c.c.ItemCount() }

var _ BytesCache = (*TTLCache)(nil)
