package middleware

import (
    "fmt"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/event-seating/internal/config"
)

// tokenBucketScript refills and takes a token in one atomic round trip.
// KEYS[1] is the bucket; ARGV: capacity, refill tokens, refill interval ms,
// now ms, ttl ms.  Returns {allowed, remaining, retry_after_ms}.
const tokenBucketScript = `
local key      = KEYS[1]
local capacity = tonumber(ARGV[1])
local refill   = tonumber(ARGV[2])
local interval = tonumber(ARGV[3])
local now      = tonumber(ARGV[4])
local ttl      = tonumber(ARGV[5])

local data = redis.call('HMGET', key, 'tokens', 'ts')
local tokens = tonumber(data[1])
local ts = tonumber(data[2])
if tokens == nil then
  tokens = capacity
  ts = now
end

if now > ts then
  local elapsed = now - ts
  local refills = math.floor(elapsed / interval)
  if refills > 0 then
    tokens = math.min(capacity, tokens + refills * refill)
    ts = ts + refills * interval
  end
end

local allowed = 0
local retry = 0
if tokens > 0 then
  tokens = tokens - 1
  allowed = 1
else
  retry = interval - (now - ts)
  if retry < 0 then retry = 0 end
end

redis.call('HMSET', key, 'tokens', tokens, 'ts', ts)
redis.call('PEXPIRE', key, ttl)
return {allowed, tokens, retry}
`

// clientIP prefers the proxy headers Echo already trusts and falls back to
// the socket address.
func clientIP(c echo.Context) string {
    if ip := c.RealIP(); ip != "" {
        return ip
    }
    return c.Request().RemoteAddr
}

// currentUserID reports the authenticated user as a string, or "" when the
// request carries no identity.
func currentUserID(c echo.Context) string {
    if v := c.Get("user_id"); v != nil {
        if id, ok := v.(uint64); ok {
            return strconv.FormatUint(id, 10)
        }
    }
    return ""
}

// buildRateKey derives the bucket identity from the configured strategy.
func buildRateKey(cfg config.RateLimitConfig, c echo.Context) string {
    parts := []string{cfg.Prefix}
    switch strings.ToLower(cfg.KeyStrategy) {
    case "ip":
        parts = append(parts, "ip", clientIP(c))
    case "user":
        uid := currentUserID(c)
        if uid == "" {
            parts = append(parts, "ip", clientIP(c))
        } else {
            parts = append(parts, "user", uid)
        }
    case "ip_route":
        parts = append(parts, "ip", clientIP(c), "route", c.Path())
    default: // "ip_user_route"
        parts = append(parts, "ip", clientIP(c))
        if uid := currentUserID(c); uid != "" {
            parts = append(parts, "user", uid)
        }
        parts = append(parts, "route", c.Path())
    }
    return strings.Join(parts, ":")
}

func asInt64(v interface{}) int64 {
    switch n := v.(type) {
    case int64:
        return n
    case int:
        return int64(n)
    case string:
        i, _ := strconv.ParseInt(n, 10, 64)
        return i
    default:
        return 0
    }
}

// NewTokenBucket returns a Redis-backed token-bucket limiter.  The limiter
// fails open: Redis errors let the request through rather than blocking
// traffic on a cache outage.
func NewTokenBucket(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc {
            return func(c echo.Context) error { return next(c) }
        }
    }
    script := redis.NewScript(tokenBucketScript)

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            ctx := c.Request().Context()
            key := buildRateKey(cfg, c)
            now := time.Now().UnixMilli()

            res, err := script.Run(ctx, rdb, []string{key},
                cfg.Capacity,
                cfg.RefillTokens,
                cfg.RefillInterval.Milliseconds(),
                now,
                cfg.TTL.Milliseconds(),
            ).Result()
            if err != nil {
                return next(c)
            }

            vals, ok := res.([]interface{})
            if !ok || len(vals) < 3 {
                return next(c)
            }
            allowed := asInt64(vals[0]) == 1
            remaining := asInt64(vals[1])
            retryMs := asInt64(vals[2])

            h := c.Response().Header()
            h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
            h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
            if cfg.Debug {
                h.Set("X-RateLimit-Key", key)
            }

            if !allowed {
                retry := time.Duration(retryMs) * time.Millisecond
                h.Set("Retry-After", strconv.Itoa(int(retry.Seconds()+1)))
                return c.JSON(http.StatusTooManyRequests, echo.Map{
                    "error": fmt.Sprintf("rate limit exceeded, retry in %s", retry.Round(time.Millisecond)),
                })
            }
            return next(c)
        }
    }
}
