package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/altarsite/gallery/common/cache"
	"github.com/altarsite/gallery/common/config"
	"github.com/altarsite/gallery/common/db"
	"github.com/altarsite/gallery/common/logger"
	"github.com/altarsite/gallery/common/ratelimit"
	rediscommon "github.com/altarsite/gallery/common/redis"
	"github.com/altarsite/gallery/common/repository"
	"github.com/altarsite/gallery/common/telemetry"
)

// Components holds all initialized service dependencies
type Components struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          *db.DB // nil unless the postgres driver is selected
	Store       repository.GalleryStore
	Redis       *rediscommon.Client
	Cache       cache.Cache
	RateLimiter *ratelimit.RateLimiter
	Telemetry   *telemetry.Telemetry

	cleanupFuncs []func() error
}

// Shutdown performs graceful shutdown of all components
// Should be called with defer after Setup()
func (c *Components) Shutdown(ctx context.Context) error {
	c.Logger.Info("shutting down components")

	var errs []error

	// LIFO
	for i := len(c.cleanupFuncs) - 1; i >= 0; i-- {
		if err := c.cleanupFuncs[i](); err != nil {
			errs = append(errs, err)
			c.Logger.Error("cleanup error", "error", err)
		}
	}
	c.cleanupFuncs = nil

	if len(errs) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(errs...))
	}

	c.Logger.Info("shutdown complete")
	return nil
}

// Health checks health of all components
func (c *Components) Health(ctx context.Context) error {
	if c.Store != nil {
		if err := c.Store.Ping(ctx); err != nil {
			return fmt.Errorf("store unhealthy: %w", err)
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Ping(ctx); err != nil {
			return fmt.Errorf("redis unhealthy: %w", err)
		}
	}

	return nil
}

// CacheStats returns cache statistics when the cache backend keeps them
func (c *Components) CacheStats() map[string]interface{} {
	if s, ok := c.Cache.(interface{ Stats() map[string]interface{} }); ok {
		return s.Stats()
	}
	return nil
}

// addCleanup registers a cleanup function
func (c *Components) addCleanup(fn func() error) {
	c.cleanupFuncs = append(c.cleanupFuncs, fn)
}
