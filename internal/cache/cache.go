// Package cache is a tag-aware get-or-compute layer over the key-value store.
// Caching is strictly best-effort: any store or serialization failure falls
// back to the producer so the cache can never fail a read path.
package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/hunet324/expertlink/internal/store"
)

// tagIndexTTL bounds leaked tag reverse-index sets.
const tagIndexTTL = time.Hour

type Cache struct {
	store   store.Store
	prefix  string
	enabled bool
	group   singleflight.Group
}

// New creates a cache namespaced under prefix. When enabled is false every
// operation is a no-op or a direct producer passthrough.
func New(st store.Store, prefix string, enabled bool) *Cache {
	return &Cache{store: st, prefix: prefix, enabled: enabled}
}

func (c *Cache) key(k string) string { return c.prefix + ":" + k }

func (c *Cache) tagKey(t string) string { return c.prefix + ":tag:" + t }

// Set serializes value and stores it under key with ttl (0 = no expiry),
// registering key in each tag's reverse index.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration, tags ...string) error {
	if !c.enabled {
		return nil
	}

	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	full := c.key(key)
	if err := c.store.Set(ctx, full, data, ttl); err != nil {
		return err
	}

	for _, tag := range tags {
		tk := c.tagKey(tag)
		if err := c.store.SAdd(ctx, tk, full); err != nil {
			slog.Warn("cache tag index update failed", "tag", tag, "error", err)
			continue
		}
		if err := c.store.Expire(ctx, tk, tagIndexTTL); err != nil {
			slog.Warn("cache tag index expire failed", "tag", tag, "error", err)
		}
	}
	return nil
}

// Get deserializes the cached value for key into dest and reports whether it
// was found. Misses and store errors are both reported as not found.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	if !c.enabled {
		return false
	}

	data, err := c.store.Get(ctx, c.key(key))
	if err != nil {
		if err != store.ErrNotFound {
			slog.Warn("cache read failed", "key", key, "error", err)
		}
		return false
	}

	if err := json.Unmarshal(data, dest); err != nil {
		slog.Warn("cache deserialization failed", "key", key, "error", err)
		return false
	}
	return true
}

// Del removes key from the cache.
func (c *Cache) Del(ctx context.Context, keys ...string) error {
	if !c.enabled {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	return c.store.Del(ctx, full...)
}

// InvalidateByTag deletes every key indexed under tag, then the tag index.
func (c *Cache) InvalidateByTag(ctx context.Context, tag string) error {
	if !c.enabled {
		return nil
	}

	tk := c.tagKey(tag)
	members, err := c.store.SMembers(ctx, tk)
	if err != nil {
		return err
	}
	if len(members) > 0 {
		if err := c.store.Del(ctx, members...); err != nil {
			return err
		}
	}
	return c.store.Del(ctx, tk)
}

// InvalidateByPattern deletes every key matching a glob pattern, going
// directly against the store and bypassing the tag indices.
func (c *Cache) InvalidateByPattern(ctx context.Context, pattern string) error {
	if !c.enabled {
		return nil
	}

	keys, err := c.store.Keys(ctx, c.key(pattern))
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.store.Del(ctx, keys...)
}

// Flush drops every entry under this cache's prefix, tag indices included.
func (c *Cache) Flush(ctx context.Context) error {
	if !c.enabled {
		return nil
	}
	keys, err := c.store.Keys(ctx, c.prefix+":*")
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.store.Del(ctx, keys...)
}

// GetOrSet returns the cached value for key, or invokes producer on a miss and
// stores its result. Concurrent misses for the same key are collapsed into one
// producer call. A failing store never fails the call: the producer result is
// returned uncached. A failing producer propagates its error to the caller.
func GetOrSet[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, tags []string, producer func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if !c.enabled {
		return producer(ctx)
	}

	var cached T
	if c.Get(ctx, key, &cached) {
		return cached, nil
	}

	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Another flight may have filled the key while we waited.
		var again T
		if c.Get(ctx, key, &again) {
			return again, nil
		}

		value, err := producer(ctx)
		if err != nil {
			return nil, err
		}

		if err := c.Set(ctx, key, value, ttl, tags...); err != nil {
			slog.Warn("cache write failed", "key", key, "error", err)
		}
		return value, nil
	})
	if err != nil {
		return zero, err
	}
	return result.(T), nil
}
