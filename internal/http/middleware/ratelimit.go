package middleware

import (
	"net/http"
	"strconv"
	"time"

	echo "github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/jmehdipour/insights/internal/metrics"
)

// RateLimitConfig config for Redis-based RPS limiter.
type RateLimitConfig struct {
	Redis          *redis.Client
	RPS            int           // 0 disables limiting
	KeyPrefix      string        // e.g. "rl:ip:"
	Window         time.Duration // usually 1s
	RetryAfterHint bool          // set Retry-After header when limited
	Now            func() time.Time
}

// RateLimitMiddleware applies a fixed-window limit per client IP.
// Without Redis, or when Redis errors, requests pass through.
func RateLimitMiddleware(cfg RateLimitConfig) echo.MiddlewareFunc {
	if cfg.Window <= 0 {
		cfg.Window = time.Second
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "rl:ip:"
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.RPS <= 0 || cfg.Redis == nil {
				return next(c)
			}

			// fixed-window key: rl:ip:{ip}:{window index}
			now := cfg.Now()
			slot := now.UnixNano() / int64(cfg.Window)
			key := cfg.KeyPrefix + c.RealIP() + ":" + strconv.FormatInt(slot, 10)

			ctx := c.Request().Context()
			pipe := cfg.Redis.Pipeline()
			cnt := pipe.Incr(ctx, key)
			pipe.Expire(ctx, key, cfg.Window*2)
			if _, err := pipe.Exec(ctx); err != nil {
				return next(c)
			}

			if cnt.Val() > int64(cfg.RPS) {
				metrics.RateLimitedTotal.Inc()
				if cfg.RetryAfterHint {
					remain := cfg.Window - time.Duration(now.UnixNano()%int64(cfg.Window))
					secs := int(remain.Round(time.Second) / time.Second)
					if secs < 1 {
						secs = 1
					}
					c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				}
				return c.JSON(http.StatusTooManyRequests, map[string]string{"error": "rate limited"})
			}
			return next(c)
		}
	}
}
