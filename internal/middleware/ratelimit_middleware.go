package middleware

import (
	"fmt"
	"net/http"
	"steezestore/pkg/logger"
	"time"

	jsonres "steezestore/pkg/response"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// RateLimitMiddleware caps requests per client IP with a fixed window counted
// in Redis, so the limit holds across instances. Each scope gets its own key
// space; the login limiter must not share counters with the public one. When
// Redis is unreachable the request is let through; throttling is protection,
// not a dependency.
func RateLimitMiddleware(client *redis.Client, scope string, limit int, window time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			bucket := time.Now().Unix() / int64(window.Seconds())
			key := rateLimitKey(scope, c.RealIP(), bucket)

			ctx := c.Request().Context()

			count, err := client.Incr(ctx, key).Result()
			if err != nil {
				logger.Warn("Rate limit check failed", "error", err)
				return next(c)
			}
			if count == 1 {
				client.Expire(ctx, key, window)
			}

			if count > int64(limit) {
				return c.JSON(http.StatusTooManyRequests, jsonres.Error(
					"RATE_LIMITED", "Too many requests, slow down", nil,
				))
			}

			return next(c)
		}
	}
}

func rateLimitKey(scope, ip string, bucket int64) string {
	return fmt.Sprintf("rl:%s:%s:%d", scope, ip, bucket)
}
