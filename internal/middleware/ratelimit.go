package middleware

import (
    "context"
    "errors"
    "math"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/hotel-booking/internal/config"
)

// takeScript refills every bucket in KEYS and takes one token from each,
// but only when all of them still have one.  It returns
// {allowed, fewest tokens left, ms until the emptiest bucket refills}.
var takeScript = redis.NewScript(`
    local now_ms = tonumber(ARGV[1])
    local capacity = tonumber(ARGV[2])
    local refill = tonumber(ARGV[3])
    local interval_ms = tonumber(ARGV[4])
    local ttl = tonumber(ARGV[5])

    local tokens, last = {}, {}
    local allowed = 1
    local retry_ms = 0
    for i, key in ipairs(KEYS) do
        local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
        local t = tonumber(state[1])
        local l = tonumber(state[2])
        if t == nil or l == nil then
            t = capacity
            l = now_ms
        end
        if interval_ms > 0 and refill > 0 then
            local n = math.floor(math.max(0, now_ms - l) / interval_ms)
            if n > 0 then
                t = math.min(capacity, t + n * refill)
                l = l + n * interval_ms
            end
        end
        if t <= 0 then
            allowed = 0
            local wait = interval_ms - (now_ms - l)
            if wait > retry_ms then retry_ms = wait end
        end
        tokens[i] = t
        last[i] = l
    end

    local remaining = capacity
    for i, key in ipairs(KEYS) do
        if allowed == 1 then tokens[i] = tokens[i] - 1 end
        if tokens[i] < remaining then remaining = tokens[i] end
        redis.call('HMSET', key, 'tokens', tokens[i], 'last_refill_ms', last[i])
        redis.call('EXPIRE', key, ttl)
    end
    return { allowed, remaining, retry_ms }
`)

// scopeParts are the request attributes a bucket key can be built from.
var scopeParts = map[string]func(echo.Context) string{
    "ip": func(c echo.Context) string {
        if ip := c.RealIP(); ip != "" {
            return ip
        }
        return "unknown"
    },
    "user": identityKey,
    "session": func(c echo.Context) string {
        if sid := SessionID(c); sid != "" {
            return sid
        }
        return "none"
    },
    "route": func(c echo.Context) string { return c.Request().Method + " " + c.Path() },
}

var defaultScope = []string{"ip", "user", "route"}

// parseScopes turns a key strategy into one part list per bucket.  Buckets
// are separated by commas and parts by underscores, so "session_route,ip_route"
// charges a per-session bucket and a per-address bucket on every request.
// Unknown parts are ignored; an empty strategy means ip_user_route.
func parseScopes(strategy string) [][]string {
    var scopes [][]string
    for _, bucket := range strings.Split(strings.ToLower(strategy), ",") {
        var parts []string
        for _, p := range strings.Split(strings.TrimSpace(bucket), "_") {
            if _, ok := scopeParts[p]; ok {
                parts = append(parts, p)
            }
        }
        if len(parts) > 0 {
            scopes = append(scopes, parts)
        }
    }
    if len(scopes) == 0 {
        scopes = [][]string{defaultScope}
    }
    return scopes
}

// bucketKey renders one scope for the request, e.g. "rl:ip:10.0.0.1:route:GET /v1/holds".
func bucketKey(prefix string, scope []string, c echo.Context) string {
    parts := []string{prefix}
    for _, p := range scope {
        parts = append(parts, p, scopeParts[p](c))
    }
    return strings.Join(parts, ":")
}

// tokenBucket is a Redis token bucket shared by every server instance.
type tokenBucket struct {
    cfg    config.RateLimitConfig
    rdb    redis.Cmdable
    scopes [][]string
}

var errBadScriptResult = errors.New("ratelimit: unexpected script result")

type takeResult struct {
    allowed   bool
    remaining int64
    retry     time.Duration
}

func (tb *tokenBucket) take(ctx context.Context, keys []string, now time.Time) (takeResult, error) {
    vals, err := takeScript.Run(ctx, tb.rdb, keys,
        now.UnixMilli(),
        tb.cfg.Capacity,
        tb.cfg.RefillTokens,
        tb.cfg.RefillInterval.Milliseconds(),
        int64(tb.cfg.TTL/time.Second),
    ).Int64Slice()
    if err != nil {
        return takeResult{}, err
    }
    if len(vals) != 3 {
        return takeResult{}, errBadScriptResult
    }
    return takeResult{allowed: vals[0] == 1, remaining: vals[1], retry: time.Duration(vals[2]) * time.Millisecond}, nil
}

// NewTokenBucket limits requests with token buckets kept in Redis, so the
// limit holds across server instances.  cfg.KeyStrategy may name several
// buckets; a request passes only when each of them has a token left.
// Redis errors fail open.
func NewTokenBucket(cfg config.RateLimitConfig, rdb redis.Cmdable) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    tb := &tokenBucket{cfg: cfg, rdb: rdb, scopes: parseScopes(cfg.KeyStrategy)}

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            keys := make([]string, 0, len(tb.scopes))
            for _, s := range tb.scopes {
                keys = append(keys, bucketKey(cfg.Prefix, s, c))
            }
            res, err := tb.take(c.Request().Context(), keys, time.Now())
            if err != nil {
                if cfg.Debug {
                    c.Logger().Warnf("[ratelimit] redis error for keys=%v: %v", keys, err)
                }
                return next(c)
            }

            h := c.Response().Header()
            h.Set("X-RateLimit-Limit", strconv.Itoa(cfg.Capacity))
            h.Set("X-RateLimit-Remaining", strconv.FormatInt(res.remaining, 10))
            if cfg.Debug {
                h.Set("X-RateLimit-Key", strings.Join(keys, ","))
            }
            if res.allowed {
                return next(c)
            }

            secs := int(math.Ceil(res.retry.Seconds()))
            h.Set("Retry-After", strconv.Itoa(secs))
            if cfg.Debug {
                c.Logger().Infof("[ratelimit] block keys=%v retry=%s", keys, res.retry)
            }
            return c.JSON(http.StatusTooManyRequests, echo.Map{
                "error":       "too_many_requests",
                "message":     "rate limit exceeded",
                "retry_after": secs,
            })
        }
    }
}
