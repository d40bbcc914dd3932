package cache

import (
	"context"
	"errors"
	"time"
)

// LayeredCache reads through a fast local layer before the shared one and
// writes to both. Either layer may be nil.
type LayeredCache struct {
	local  Service
	shared Service
}

// NewLayeredCache builds a two-level cache.
func NewLayeredCache(local, shared Service) *LayeredCache {
	return &LayeredCache{local: local, shared: shared}
}

func (c *LayeredCache) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if c.local != nil {
		if err := c.local.Set(ctx, key, value, expiration); err != nil {
			return err
		}
	}
	if c.shared != nil {
		return c.shared.Set(ctx, key, value, expiration)
	}
	return nil
}

func (c *LayeredCache) Get(ctx context.Context, key string, dest interface{}) error {
	if c.local != nil {
		err := c.local.Get(ctx, key, dest)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			return err
		}
	}
	if c.shared != nil {
		return c.shared.Get(ctx, key, dest)
	}
	return ErrCacheMiss
}

func (c *LayeredCache) Delete(ctx context.Context, keys ...string) error {
	if c.local != nil {
		if err := c.local.Delete(ctx, keys...); err != nil {
			return err
		}
	}
	if c.shared != nil {
		return c.shared.Delete(ctx, keys...)
	}
	return nil
}

func (c *LayeredCache) Exists(ctx context.Context, key string) (bool, error) {
	if c.local != nil {
		if ok, err := c.local.Exists(ctx, key); err == nil && ok {
			return true, nil
		}
	}
	if c.shared != nil {
		return c.shared.Exists(ctx, key)
	}
	return false, nil
}
