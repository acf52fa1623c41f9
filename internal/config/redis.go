package config

// Redis backs session holds, distributed rate limiting and the response
// cache.  When the server cannot be reached at startup NewRedisClient
// returns nil and callers degrade to in-memory holds with caching and rate
// limiting disabled.

import (
    "context"
    "crypto/tls"
    "log"
    "os"
    "time"

    "github.com/redis/go-redis/v9"
)

const pingTimeout = 2 * time.Second

// NewRedisClient instantiates a Redis client using environment variables:
//   REDIS_ADDR       host:port of the server (default localhost:6379)
//   REDIS_HOST/PORT  alternative to REDIS_ADDR; used when both are set
//   REDIS_PASSWORD   optional password
//   REDIS_DB         database number (default 0)
//   REDIS_TLS        enable TLS when "true" or "1"
//   REDIS_DISABLED   skip Redis entirely
// The returned client is nil if a connection cannot be established.
func NewRedisClient() *redis.Client {
    if envBool("REDIS_DISABLED", false) {
        return nil
    }
    addr := envStr("REDIS_ADDR", "localhost:6379")
    if host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT"); host != "" && port != "" {
        addr = host + ":" + port
    }
    var tlsConf *tls.Config
    if envBool("REDIS_TLS", false) {
        tlsConf = &tls.Config{MinVersion: tls.VersionTLS12}
    }
    client := redis.NewClient(&redis.Options{
        Addr:      addr,
        Password:  os.Getenv("REDIS_PASSWORD"),
        DB:        envInt("REDIS_DB", 0),
        TLSConfig: tlsConf,
    })
    ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
    defer cancel()
    if err := client.Ping(ctx).Err(); err != nil {
        log.Printf("redis: %s unreachable: %v", addr, err)
        _ = client.Close()
        return nil
    }
    return client
}
