package middleware

import (
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/tsering10/OP-Final-Project/internal/config"
)

// tokenBucketScript implements a refill-on-demand token bucket in Redis.
// Returns {allowed, remaining, retry_after_ms}. Running it as a single Lua
// script keeps check-and-decrement atomic across server instances.
var tokenBucketScript = redis.NewScript(`
    local key = KEYS[1]
    local now_ms = tonumber(ARGV[1])
    local capacity = tonumber(ARGV[2])
    local refill = tonumber(ARGV[3])
    local interval_ms = tonumber(ARGV[4])
    local ttl_s = tonumber(ARGV[5])

    local st = redis.call('HMGET', key, 'tokens', 'refilled_ms')
    local tokens = tonumber(st[1])
    local refilled = tonumber(st[2])
    if tokens == nil or refilled == nil then
        tokens = capacity
        refilled = now_ms
    end

    if interval_ms > 0 and refill > 0 then
        local steps = math.floor(math.max(0, now_ms - refilled) / interval_ms)
        if steps > 0 then
            tokens = math.min(capacity, tokens + steps * refill)
            refilled = refilled + steps * interval_ms
        end
    end

    local allowed = 0
    local retry_ms = 0
    if tokens > 0 then
        allowed = 1
        tokens = tokens - 1
    else
        retry_ms = math.max(0, interval_ms - (now_ms - refilled))
    end

    redis.call('HMSET', key, 'tokens', tokens, 'refilled_ms', refilled)
    redis.call('EXPIRE', key, ttl_s)
    return { allowed, tokens, retry_ms }
`)

// NewTokenBucket builds the rate-limit middleware. With a nil Redis client
// (or the feature disabled) it degrades to a pass-through so the API keeps
// serving when Redis is down.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passthrough
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			key := rateKey(cfg, c)
			res, err := tokenBucketScript.Run(c.Request().Context(), rdb, []string{key},
				time.Now().UnixMilli(),
				cfg.Capacity,
				cfg.RefillTokens,
				cfg.RefillInterval.Milliseconds(),
				int64(cfg.TTL/time.Second),
			).Int64Slice()
			if err != nil || len(res) != 3 {
				// Fail open on Redis trouble.
				if cfg.Debug {
					c.Logger().Warnf("[ratelimit] key=%s script error: %v", key, err)
				}
				return next(c)
			}

			allowed, remaining, retryMs := res[0] == 1, res[1], res[2]
			c.Response().Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
			c.Response().Header().Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

			if !allowed {
				secs := int(math.Ceil(float64(retryMs) / 1000.0))
				c.Response().Header().Set("Retry-After", strconv.Itoa(secs))
				return c.JSON(http.StatusTooManyRequests, echo.Map{
					"error":       "too_many_requests",
					"retry_after": secs,
				})
			}
			if cfg.Debug {
				c.Response().Header().Set("X-RateLimit-Key", key)
			}
			return next(c)
		}
	}
}

func passthrough(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error { return next(c) }
}

func rateKey(cfg config.RateLimitConfig, c echo.Context) string {
	ip := c.RealIP()
	if ip == "" {
		ip = "unknown"
	}
	route := c.Request().Method + " " + c.Path()
	uid := requestUserID(c)

	parts := []string{cfg.Prefix}
	switch strings.ToLower(cfg.KeyStrategy) {
	case "ip":
		parts = append(parts, "ip", ip)
	case "user":
		parts = append(parts, "user", uid)
	case "user_route":
		parts = append(parts, "user", uid, "route", route)
	case "ip_route":
		parts = append(parts, "ip", ip, "route", route)
	default:
		parts = append(parts, "ip", ip, "user", uid, "route", route)
	}
	return strings.Join(parts, ":")
}
