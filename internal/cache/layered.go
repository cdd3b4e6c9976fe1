package cache

import (
	"errors"
	"time"
)

// LayeredCache serves reads from memory and falls back to a persistent layer
type LayeredCache struct {
	memory     Cache
	persistent Cache
}

// NewLayeredCache creates a new layered cache
func NewLayeredCache(memory, persistent Cache) *LayeredCache {
	return &LayeredCache{
		memory:     memory,
		persistent: persistent,
	}
}

// Get retrieves a value, checking memory first
func (c *LayeredCache) Get(key string) ([]byte, bool) {
	if val, found := c.memory.Get(key); found {
		return val, true
	}

	expiring, ok := c.persistent.(ExpiringGetter)
	if !ok {
		if val, found := c.persistent.Get(key); found {
			_ = c.memory.Set(key, val, 0)
			return val, true
		}
		return nil, false
	}

	val, expiresAt, found := expiring.GetWithExpiry(key)
	if !found {
		return nil, false
	}
	// Promoted entries never outlive the persistent copy
	if remaining := time.Until(expiresAt); remaining > 0 {
		_ = c.memory.Set(key, val, remaining)
	}
	return val, true
}

// Set stores a value in both layers
func (c *LayeredCache) Set(key string, value []byte, ttl time.Duration) error {
	if err := c.memory.Set(key, value, ttl); err != nil {
		return err
	}
	return c.persistent.Set(key, value, ttl)
}

// Delete removes a value from both layers
func (c *LayeredCache) Delete(key string) error {
	return errors.Join(c.memory.Delete(key), c.persistent.Delete(key))
}

// Clear removes all values from both layers
func (c *LayeredCache) Clear() error {
	return errors.Join(c.memory.Clear(), c.persistent.Clear())
}

// Len reports the persistent layer, which holds every entry
func (c *LayeredCache) Len() int {
	return c.persistent.Len()
}

// Close closes both layers
func (c *LayeredCache) Close() error {
	return errors.Join(c.memory.Close(), c.persistent.Close())
}

// Sweep sweeps the persistent layer when it supports sweeping
func (c *LayeredCache) Sweep() (int64, error) {
	if sweeper, ok := c.persistent.(Sweeper); ok {
		return sweeper.Sweep()
	}
	return 0, nil
}
