package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/altarsite/gallery/cmd/gallery-api/container"
	"github.com/altarsite/gallery/cmd/gallery-api/routes"
	"github.com/altarsite/gallery/common/bootstrap"
	"github.com/altarsite/gallery/common/config"
	"github.com/altarsite/gallery/common/db"
	commonmw "github.com/altarsite/gallery/common/middleware"
	"github.com/altarsite/gallery/common/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const serviceName = "gallery-api"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(serviceName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	opts := []bootstrap.Option{bootstrap.WithCustomConfig(cfg)}
	if cfg.Database.Migrate {
		opts = append(opts, bootstrap.WithDBInitHook(func(pg *db.DB) error {
			return pg.Migrate(ctx)
		}))
	}

	// Bootstrap common components (store, logger, redis, cache, telemetry)
	components, err := bootstrap.Setup(ctx, serviceName, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to bootstrap %s: %v\n", serviceName, err)
		os.Exit(1)
	}
	defer components.Shutdown(context.Background())

	// Initialize service container (singleton pattern - all services created once)
	serviceContainer, err := container.NewContainer(components)
	if err != nil {
		components.Logger.Error("Failed to initialize service container", "error", err)
		components.Shutdown(context.Background())
		os.Exit(1)
	}

	e := setupEcho()
	setupMiddleware(e, components)
	setupHealthCheck(e, components)
	registerRoutes(e, serviceContainer)

	srv := server.New(serviceName, cfg.Service.Port, e, components.Logger)
	if err := srv.Run(ctx); err != nil {
		components.Logger.Error("Server error", "error", err)
	}
}

// setupEcho initializes the Echo server with basic configuration
func setupEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	return e
}

// setupMiddleware configures all middleware for the Echo server
func setupMiddleware(e *echo.Echo, components *bootstrap.Components) {
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodOptions},
	}))
	e.Use(middleware.RequestID())
	e.Use(commonmw.RequestContext())
	e.Use(commonmw.RequestLogger(components.Logger))

	if components.RateLimiter != nil {
		rl := components.Config.RateLimit
		e.Use(commonmw.ClientRateLimitMiddleware(components.RateLimiter, int64(rl.Limit), rl.WindowSeconds))
	}
}

// setupHealthCheck registers the health check endpoint
func setupHealthCheck(e *echo.Echo, components *bootstrap.Components) {
	e.GET("/health", func(c echo.Context) error {
		if err := components.Health(c.Request().Context()); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status":  "unhealthy",
				"service": serviceName,
				"error":   err.Error(),
			})
		}
		body := map[string]interface{}{
			"status":  "ok",
			"service": serviceName,
		}
		if stats := components.CacheStats(); stats != nil {
			body["cache"] = stats
		}
		return c.JSON(http.StatusOK, body)
	})
}

// registerRoutes registers all application routes using the service container
func registerRoutes(e *echo.Echo, serviceContainer *container.Container) {
	routes.RegisterTagRoutes(e, serviceContainer)
	routes.RegisterImageRoutes(e, serviceContainer)
}
