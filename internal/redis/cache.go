package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const cachePrefix = "sim:"

// ResultCache stores JSON-encoded simulation results. Runs are deterministic,
// so a result is keyed by a hash of its canonical request. A nil cache or a
// cache without a client is a no-op.
type ResultCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewResultCache(rdb *redis.Client, ttl time.Duration) *ResultCache {
	return &ResultCache{rdb: rdb, ttl: ttl}
}

// CacheKey hashes the JSON encoding of v.
func CacheKey(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("cache key: %w", err)
	}
	h := sha256.Sum256(b)
	return cachePrefix + hex.EncodeToString(h[:]), nil
}

// Get decodes the cached value for key into dst. It reports false on a miss.
func (c *ResultCache) Get(ctx context.Context, key string, dst interface{}) (bool, error) {
	if c == nil || c.rdb == nil {
		return false, nil
	}
	b, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		log.Printf("[CACHE] dropping undecodable entry %s: %v", key, err)
		c.rdb.Del(ctx, key)
		return false, nil
	}
	return true, nil
}

// Set stores v under key with the cache TTL.
func (c *ResultCache) Set(ctx context.Context, key string, v interface{}) error {
	if c == nil || c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, c.ttl).Err()
}
