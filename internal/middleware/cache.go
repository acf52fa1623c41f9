package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "encoding/json"
    "fmt"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/iliyamo/hotel-booking/internal/config"
)

// captureWriter captures response body/status while forwarding to the client.
type captureWriter struct {
    http.ResponseWriter
    status int
    buf    bytes.Buffer
    size   int64
    limit  int64
}

func (cw *captureWriter) WriteHeader(code int) { cw.status = code; cw.ResponseWriter.WriteHeader(code) }

func (cw *captureWriter) Write(b []byte) (int, error) {
    if cw.limit <= 0 || cw.size+int64(len(b)) <= cw.limit {
        cw.buf.Write(b)
    }
    cw.size += int64(len(b))
    return cw.ResponseWriter.Write(b)
}

// truncated reports whether the body outgrew the capture limit.
func (cw *captureWriter) truncated() bool { return cw.limit > 0 && cw.size > cw.limit }

// cachedResponse is the value stored in Redis.
type cachedResponse struct {
    Status int         `json:"status"`
    Header http.Header `json:"header"`
    Body   []byte      `json:"body"`
}

// ResponseCache caches successful responses of public, session-independent
// endpoints in Redis.  Owners' writes call Purge so edits show up before
// the TTL runs out.
type ResponseCache struct {
    cfg config.CacheConfig
    rdb redis.Cmdable
}

// NewResponseCache returns a cache; with caching disabled or a nil client
// both Middleware and Purge are no-ops.
func NewResponseCache(cfg config.CacheConfig, rdb redis.Cmdable) *ResponseCache {
    if cfg.TTL <= 0 {
        cfg.TTL = 5 * time.Minute
    }
    return &ResponseCache{cfg: cfg, rdb: rdb}
}

func (rc *ResponseCache) enabled() bool { return rc != nil && rc.cfg.Enabled && rc.rdb != nil }

// Key builds a stable cache key from the method, the concrete request path
// and the query string, honouring the configured prefix and strategy.
func (rc *ResponseCache) Key(method, path, rawQuery string) string {
    parts := []string{}
    switch strings.ToLower(rc.cfg.KeyStrategy) {
    case "path":
        parts = append(parts, "path", path)
    case "method_path":
        parts = append(parts, "method", method, "path", path)
    case "method_path_query":
        parts = append(parts, "method", method, "path", path, "q", rawQuery)
    default: // "path_query"
        parts = append(parts, "path", path, "q", rawQuery)
    }
    sum := sha1.Sum([]byte(strings.Join(parts, ":")))
    return fmt.Sprintf("%s:%x", rc.cfg.Prefix, sum[:])
}

// indexKey names the set of cache keys stored for one request path, so a
// purge reaches every query-string variant of it.
func (rc *ResponseCache) indexKey(path string) string {
    sum := sha1.Sum([]byte(path))
    return fmt.Sprintf("%s:idx:%x", rc.cfg.Prefix, sum[:])
}

// Purge drops every cached response of the given paths, whatever query
// string they were requested with.
func (rc *ResponseCache) Purge(ctx context.Context, paths ...string) error {
    if !rc.enabled() || len(paths) == 0 {
        return nil
    }
    var keys []string
    for _, p := range paths {
        idx := rc.indexKey(p)
        members, err := rc.rdb.SMembers(ctx, idx).Result()
        if err != nil {
            return err
        }
        keys = append(keys, members...)
        keys = append(keys, idx, rc.Key(http.MethodGet, p, ""))
    }
    return rc.rdb.Del(ctx, keys...).Err()
}

// store saves a response and records its key under the path index.  The
// index lives as long as the newest entry it points at.
func (rc *ResponseCache) store(ctx context.Context, path, key string, payload []byte) error {
    idx := rc.indexKey(path)
    _, err := rc.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
        pipe.Set(ctx, key, payload, rc.cfg.TTL)
        pipe.SAdd(ctx, idx, key)
        pipe.Expire(ctx, idx, rc.cfg.TTL)
        return nil
    })
    return err
}

// Middleware serves hits straight from Redis and stores 200 responses on a
// miss.  Responses larger than MaxBodyBytes are passed through uncached.
func (rc *ResponseCache) Middleware() echo.MiddlewareFunc {
    if !rc.enabled() {
        return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
    }
    maxBody := int64(rc.cfg.MaxBodyBytes)

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            r := c.Request()
            if !rc.cfg.Methods[strings.ToUpper(r.Method)] {
                return next(c)
            }
            ctx := r.Context()
            key := rc.Key(r.Method, r.URL.Path, r.URL.RawQuery)

            if bs, err := rc.rdb.Get(ctx, key).Bytes(); err == nil {
                var cached cachedResponse
                if json.Unmarshal(bs, &cached) == nil && cached.Status != 0 {
                    CacheLookups.WithLabelValues("hit").Inc()
                    for k, vals := range cached.Header {
                        // Content-Length is recomputed; the session header belongs to this request.
                        if strings.EqualFold(k, "Content-Length") || strings.EqualFold(k, SessionHeader) || strings.EqualFold(k, "Set-Cookie") {
                            continue
                        }
                        for _, v := range vals {
                            c.Response().Header().Add(k, v)
                        }
                    }
                    c.Response().Header().Set("X-Cache", "HIT")
                    c.Response().WriteHeader(cached.Status)
                    _, _ = c.Response().Write(cached.Body)
                    return nil
                }
            }
            CacheLookups.WithLabelValues("miss").Inc()

            cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: maxBody}
            c.Response().Writer = cw
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }
            if cw.status != http.StatusOK || cw.truncated() {
                return nil
            }
            hdr := c.Response().Header().Clone()
            hdr.Del(SessionHeader)
            hdr.Del("Set-Cookie")
            hdr.Del("X-Cache")
            payload, err := json.Marshal(cachedResponse{Status: cw.status, Header: hdr, Body: cw.buf.Bytes()})
            if err == nil {
                if err := rc.store(context.WithoutCancel(ctx), r.URL.Path, key, payload); err != nil {
                    c.Logger().Warnf("cache: store %s: %v", r.URL.Path, err)
                }
            }
            return nil
        }
    }
}
