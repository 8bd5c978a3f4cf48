package middleware

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// ResendRateLimit bounds code resends per client across flows using Redis,
// on top of the per-flow cooldown. Keyed by client IP since the phone lives
// inside the flow. Fails open: without Redis, or on cache errors, the
// per-flow cooldown remains the only guard.
func ResendRateLimit(cache *redis.Client, maxPerHour int) fiber.Handler {
	if maxPerHour <= 0 {
		maxPerHour = 10
	}
	return func(c *fiber.Ctx) error {
		if cache == nil {
			return c.Next()
		}

		key := "rl:resend:" + c.IP()
		cnt, err := cache.Incr(c.UserContext(), key).Result()
		if err != nil {
			return c.Next()
		}
		if cnt == 1 {
			cache.Expire(c.UserContext(), key, time.Hour)
		}
		if cnt > int64(maxPerHour) {
			return fiber.NewError(http.StatusTooManyRequests, "too many resend attempts, try again later")
		}
		return c.Next()
	}
}
