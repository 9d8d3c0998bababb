package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/altarsite/gallery/common/cache"
	"github.com/altarsite/gallery/common/logger"
)

// readCached decodes key from c into dst. A nil cache, a miss or any cache
// failure reports false so the caller falls through to the store.
func readCached(ctx context.Context, c cache.Cache, log *logger.Logger, key string, dst any) bool {
	if c == nil {
		return false
	}

	data, found, err := c.Get(ctx, key)
	if err != nil {
		log.WithContext(ctx).Warn("cache read failed", "key", key, "error", err)
		return false
	}
	if !found {
		return false
	}

	if err := json.Unmarshal(data, dst); err != nil {
		log.WithContext(ctx).Warn("discarding undecodable cache entry", "key", key, "error", err)
		return false
	}
	return true
}

// writeCached stores value under key. Failures are logged, never returned.
func writeCached(ctx context.Context, c cache.Cache, log *logger.Logger, key string, value any, ttl time.Duration) {
	if c == nil || ttl <= 0 {
		return
	}

	data, err := json.Marshal(value)
	if err != nil {
		log.WithContext(ctx).Warn("failed to encode cache entry", "key", key, "error", err)
		return
	}

	if err := c.Set(ctx, key, data, ttl); err != nil {
		log.WithContext(ctx).Warn("cache write failed", "key", key, "error", err)
	}
}
