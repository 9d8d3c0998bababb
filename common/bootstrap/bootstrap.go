package bootstrap

import (
	"context"
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

const cacheKeyPrefix = "gallery:"

// Setup initializes all service components
// This is the main entry point for all services
func Setup(ctx context.Context, serviceName string, opts ...Option) (*Components, error) {
	options := defaultOptions()
	for _, opt := range opts {
		opt(options)
	}

	components := &Components{
		cleanupFuncs: make([]func() error, 0),
	}

	// 1. Load configuration
	var err error
	if options.customConfig != nil {
		components.Config = options.customConfig
	} else {
		components.Config, err = config.Load(serviceName)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	cfg := components.Config

	// 2. Initialize logger
	if options.customLogger != nil {
		components.Logger = options.customLogger
	} else {
		components.Logger = logger.New(cfg.Service.LogLevel, cfg.Service.LogFormat)
	}

	components.Logger.Info("initializing service",
		"service", serviceName,
		"environment", cfg.Service.Environment,
	)

	// 3. Initialize the gallery store
	switch {
	case options.customStore != nil:
		components.Store = options.customStore
	case options.skipDB:
	default:
		if err := setupStore(ctx, components, options); err != nil {
			components.Shutdown(ctx)
			return nil, err
		}
	}

	// 4. Connect to Redis when a component needs it
	if cfg.NeedsRedis() {
		components.Logger.Info("connecting to redis", "addr", cfg.Redis.Addr)
		components.Redis, err = rediscommon.Dial(ctx, rediscommon.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, components.Logger)
		if err != nil {
			components.Shutdown(ctx)
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}

		components.addCleanup(func() error {
			components.Logger.Info("closing redis connection")
			return components.Redis.Close()
		})
	}

	// 5. Initialize cache (if not skipped)
	if !options.skipCache && cfg.Cache.Enabled {
		components.Logger.Info("initializing cache", "backend", cfg.Cache.Backend)

		switch cfg.Cache.Backend {
		case "redis":
			components.Cache = cache.NewRedisCache(components.Redis, cacheKeyPrefix)
		default:
			components.Cache = cache.NewMemoryCache(components.Logger)
		}

		components.addCleanup(func() error {
			components.Logger.Info("closing cache")
			return components.Cache.Close()
		})
	}

	// 6. Rate limiter
	if cfg.RateLimit.Enabled {
		components.RateLimiter = ratelimit.NewRateLimiter(components.Redis.GetUnderlying(), components.Logger)
	}

	// 7. Initialize telemetry (if not skipped)
	if !options.skipTelemetry {
		pprofPort := 0
		if cfg.Telemetry.EnablePprof {
			pprofPort = cfg.Telemetry.PprofPort
		}
		components.Logger.Info("initializing telemetry", "pprof_port", pprofPort)
		components.Telemetry = telemetry.New(pprofPort, components.Logger)

		if err := components.Telemetry.Start(ctx); err != nil {
			// Don't fail startup if telemetry fails
			components.Logger.Warn("failed to start telemetry", "error", err)
		}
		components.addCleanup(components.Telemetry.Close)
	}

	components.Logger.Info("service initialization complete",
		"service", serviceName,
		"store", components.Store != nil,
		"redis", components.Redis != nil,
		"cache", components.Cache != nil,
		"rate_limit", components.RateLimiter != nil,
		"telemetry", components.Telemetry != nil,
	)

	return components, nil
}

func setupStore(ctx context.Context, components *Components, options *options) error {
	cfg := components.Config

	switch cfg.Database.Driver {
	case "sqlite":
		components.Logger.Info("opening sqlite database", "path", cfg.Database.SQLitePath)
		sqlDB, err := db.OpenSQLite(cfg.Database.SQLitePath)
		if err != nil {
			return fmt.Errorf("failed to open sqlite database: %w", err)
		}
		components.addCleanup(func() error {
			components.Logger.Info("closing sqlite database")
			return sqlDB.Close()
		})
		components.Store = repository.NewSQLiteStore(sqlDB)

	default:
		components.Logger.Info("connecting to database")
		pg, err := db.New(ctx, cfg, components.Logger)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		components.DB = pg
		components.addCleanup(func() error {
			components.DB.Close()
			return nil
		})

		if options.dbInitHook != nil {
			components.Logger.Info("running database init hook")
			if err := options.dbInitHook(pg); err != nil {
				return fmt.Errorf("database init hook failed: %w", err)
			}
		}
		components.Store = repository.NewPostgresStore(pg)
	}

	return nil
}

// MustSetup is like Setup but panics on error
// Useful for services that can't recover from initialization failure
func MustSetup(ctx context.Context, serviceName string, opts ...Option) *Components {
	components, err := Setup(ctx, serviceName, opts...)
	if err != nil {
		panic(fmt.Sprintf("failed to setup service %s: %v", serviceName, err))
	}
	return components
}
