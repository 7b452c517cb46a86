package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/expoflow/exhibition-backend/internal/config"
)

// NewRunCooldown limits real assignment runs to one per actor per
// window.  The window is tracked in a shared Redis key so the limit
// holds across instances.  The middleware sits above the engine:
// the engine itself knows nothing about rate limiting.  When Redis
// is unavailable the cooldown degrades to a no-op, matching the
// behavior of the other Redis-backed middleware.
func NewRunCooldown(cfg config.CooldownConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return func(c echo.Context) error { return next(c) } }
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor := currentUserID(c)
			key := fmt.Sprintf("%s:actor:%s", cfg.Prefix, actor)

			ctx := c.Request().Context()
			ok, err := rdb.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), cfg.Window).Result()
			if err != nil {
				// Redis trouble never blocks the run itself.
				c.Logger().Warnf("[cooldown] redis error for key=%s: %v", key, err)
				return next(c)
			}
			if !ok {
				ttl, err := rdb.TTL(ctx, key).Result()
				retry := int(cfg.Window / time.Second)
				if err == nil && ttl > 0 {
					retry = int(ttl / time.Second)
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(retry))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "run_cooldown_active",
					"message":     "an assignment run was recently triggered by this user",
					"retry_after": retry,
				})
			}
			return next(c)
		}
	}
}
