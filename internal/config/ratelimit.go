package config

import (
    "os"
    "strconv"
    "time"
)

// RateLimitConfig configures one Redis token bucket.  Capacity tokens are
// available up front and RefillTokens are added every RefillInterval.
// KeyStrategy picks which request attributes share a bucket; several
// comma-separated strategies charge several buckets at once (see
// middleware.NewTokenBucket).
type RateLimitConfig struct {
    Enabled        bool
    Capacity       int
    RefillTokens   int
    RefillInterval time.Duration
    TTL            time.Duration
    KeyStrategy    string
    Prefix         string
    Debug          bool
}

// LoadRateLimitConfig reads the API-wide limiter from RATE_LIMIT_* variables.
func LoadRateLimitConfig() RateLimitConfig {
    return loadRateLimit("RATE_LIMIT_", RateLimitConfig{
        Enabled:        true,
        Capacity:       60,
        RefillTokens:   1,
        RefillInterval: time.Second,
        TTL:            10 * time.Minute,
        KeyStrategy:    "ip_user_route",
        Prefix:         "rl",
    })
}

// LoadHoldRateLimitConfig reads the limiter guarding hold placement from
// HOLD_RATE_LIMIT_* variables.  Every hold is charged to the shopper
// session and to the client address; session ids are minted on demand, so
// the address bucket is what stops a client that drops its session header.
func LoadHoldRateLimitConfig() RateLimitConfig {
    return loadRateLimit("HOLD_RATE_LIMIT_", RateLimitConfig{
        Enabled:        true,
        Capacity:       10,
        RefillTokens:   1,
        RefillInterval: 6 * time.Second,
        TTL:            10 * time.Minute,
        KeyStrategy:    "session_route,ip_route",
        Prefix:         "rl:holds",
    })
}

func loadRateLimit(prefix string, def RateLimitConfig) RateLimitConfig {
    cfg := RateLimitConfig{
        Enabled:        envBool(prefix+"ENABLED", def.Enabled),
        Capacity:       envInt(prefix+"CAPACITY", def.Capacity),
        RefillTokens:   envInt(prefix+"REFILL_TOKENS", def.RefillTokens),
        RefillInterval: envDur(prefix+"REFILL_INTERVAL", def.RefillInterval),
        TTL:            envDur(prefix+"TTL", def.TTL),
        KeyStrategy:    envStr(prefix+"KEY_STRATEGY", def.KeyStrategy),
        Prefix:         envStr(prefix+"PREFIX", def.Prefix),
        Debug:          envBool(prefix+"DEBUG", false),
    }
    if b := envInt(prefix+"BURST", -1); b > 0 {
        cfg.Capacity = b
    }
    if every := envDur(prefix+"REFILL_EVERY", 0); every > 0 {
        cfg.RefillTokens = 1
        cfg.RefillInterval = every
    }
    if cfg.Capacity < 1 {
        cfg.Capacity = 1
    }
    if cfg.RefillTokens < 1 {
        cfg.RefillTokens = 1
    }
    if cfg.RefillInterval <= 0 {
        cfg.RefillInterval = time.Second
    }
    // keep idle buckets around long enough to refill completely
    if minTTL := 5 * cfg.RefillInterval; cfg.TTL < minTTL {
        cfg.TTL = minTTL
    }
    return cfg
}

func envStr(k, d string) string {
    if v := os.Getenv(k); v != "" {
        return v
    }
    return d
}

func envBool(k string, d bool) bool {
    switch os.Getenv(k) {
    case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
        return true
    case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
        return false
    }
    return d
}

func envInt(k string, d int) int {
    if n, err := strconv.Atoi(os.Getenv(k)); err == nil {
        return n
    }
    return d
}

func envDur(k string, d time.Duration) time.Duration {
    if dur, err := time.ParseDuration(os.Getenv(k)); err == nil {
        return dur
    }
    return d
}
