package middleware

import (
	"context"
	"net/http"
	"strconv"

	"github.com/altarsite/gallery/common/ratelimit"
	"github.com/labstack/echo/v4"
)

// ClientLimiter checks a per-client request budget
type ClientLimiter interface {
	CheckClientLimit(ctx context.Context, clientIP string, limit int64, windowSec int) (*ratelimit.RateLimitResult, error)
}

// ClientRateLimitMiddleware limits requests per client IP. The API is
// public, so the client address is the only identity available.
func ClientRateLimitMiddleware(limiter ClientLimiter, limit int64, windowSec int) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			result, err := limiter.CheckClientLimit(c.Request().Context(), c.RealIP(), limit, windowSec)
			if err != nil {
				// Fail open: a Redis outage must not take the gallery down
				return next(c)
			}

			if !result.Allowed {
				c.Response().Header().Set("Retry-After", strconv.FormatInt(result.RetryAfterSeconds, 10))
				return c.JSON(http.StatusTooManyRequests, map[string]interface{}{
					"error": "rate_limit_exceeded",
					"details": map[string]interface{}{
						"limit":               result.Limit,
						"window_seconds":      windowSec,
						"retry_after_seconds": result.RetryAfterSeconds,
					},
				})
			}

			return next(c)
		}
	}
}
