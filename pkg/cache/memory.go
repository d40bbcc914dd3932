package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

type memoryItem struct {
	data     []byte
	expireAt time.Time
}

func (m *memoryItem) expired() bool {
	return !m.expireAt.IsZero() && time.Now().After(m.expireAt)
}

// MemoryCache implements Service with in-memory storage. Values are stored
// JSON-encoded so Get semantics match the Redis backend.
type MemoryCache struct {
	mu      sync.RWMutex
	data    map[string]*memoryItem
	maxSize int
}

// MemoryOption configures MemoryCache.
type MemoryOption func(*MemoryCache)

// WithMaxSize caps the number of stored entries.
func WithMaxSize(n int) MemoryOption {
	return func(c *MemoryCache) {
		if n > 0 {
			c.maxSize = n
		}
	}
}

// NewMemoryCache creates an in-memory cache.
func NewMemoryCache(opts ...MemoryOption) *MemoryCache {
	c := &MemoryCache{
		data:    make(map[string]*memoryItem),
		maxSize: 1000,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *MemoryCache) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}

	var expireAt time.Time
	if expiration > 0 {
		expireAt = time.Now().Add(expiration)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.data) >= c.maxSize {
		c.evictOne()
	}
	c.data[key] = &memoryItem{data: b, expireAt: expireAt}
	return nil
}

func (c *MemoryCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.RLock()
	item, ok := c.data[key]
	c.mu.RUnlock()
	if !ok || item.expired() {
		if ok {
			c.mu.Lock()
			delete(c.data, key)
			c.mu.Unlock()
		}
		return ErrCacheMiss
	}
	return json.Unmarshal(item.data, dest)
}

func (c *MemoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
	}
	return nil
}

func (c *MemoryCache) Exists(_ context.Context, key string) (bool, error) {
	c.mu.RLock()
	item, ok := c.data[key]
	c.mu.RUnlock()
	return ok && !item.expired(), nil
}

// evictOne removes the entry closest to expiry; caller holds the lock.
func (c *MemoryCache) evictOne() {
	var victim string
	var soonest time.Time
	for k, item := range c.data {
		if item.expired() {
			victim = k
			break
		}
		if victim == "" || (!item.expireAt.IsZero() && item.expireAt.Before(soonest)) {
			victim = k
			soonest = item.expireAt
		}
	}
	if victim != "" {
		delete(c.data, victim)
	}
}
