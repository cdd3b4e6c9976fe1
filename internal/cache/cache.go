package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ppiankov/factcheck/internal/model"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
	Len() int
	Close() error
}

// Key kinds
const (
	KindVerify = "verify"
	KindSearch = "search"
	KindProxy  = "proxy"
)

// CacheKey generates a cache key for an input of the given kind. The whole
// input is hashed so that passages sharing a prefix never collide.
func CacheKey(kind, input string) string {
	hash := sha256.Sum256([]byte(input))
	return "factcheck:v1:" + kind + ":" + hex.EncodeToString(hash[:])
}

// GetJSON loads and decodes a cached value. A value that no longer decodes
// counts as a miss.
func GetJSON[T any](c Cache, key string) (T, bool) {
	var v T
	data, found := c.Get(key)
	if !found {
		return v, false
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return v, false
	}
	return v, true
}

// SetJSON encodes and stores a value
func SetJSON(c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal cache value: %w", err)
	}
	return c.Set(key, data, ttl)
}

// New builds the cache described by cfg: memory only, or memory in front
// of a SQLite file when a path is configured
func New(cfg model.CacheConfig) (Cache, error) {
	memory := NewMemoryCache(cfg.TTL, cfg.SweepInterval)
	if cfg.Path == "" {
		return memory, nil
	}

	persistent, err := OpenSQLiteCache(cfg.Path, cfg.TTL)
	if err != nil {
		return nil, err
	}
	return NewLayeredCache(memory, persistent), nil
}

// ExpiringGetter is a cache that reports when an entry expires
type ExpiringGetter interface {
	GetWithExpiry(key string) ([]byte, time.Time, bool)
}

// Sweeper is a cache that removes expired entries on demand
type Sweeper interface {
	Sweep() (int64, error)
}

// RunJanitor sweeps c every interval until ctx is done. Caches that expire
// entries on their own are left alone. Sweep errors go to onError, which
// may be nil.
func RunJanitor(ctx context.Context, c Cache, interval time.Duration, onError func(error)) {
	sweeper, ok := c.(Sweeper)
	if !ok || interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := sweeper.Sweep(); err != nil && onError != nil {
				onError(err)
			}
		}
	}
}
