package middleware

import (
    "strconv"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

var (
    RequestTotal = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Name: "http_requests_total",
            Help: "Total number of HTTP requests",
        },
        []string{"method", "path", "status"},
    )
    RequestDuration = promauto.NewHistogramVec(
        prometheus.HistogramOpts{
            Name:    "http_request_duration_seconds",
            Help:    "HTTP request duration in seconds",
            Buckets: prometheus.DefBuckets,
        },
        []string{"method", "path"},
    )
    CacheLookups = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Name: "http_response_cache_lookups_total",
            Help: "Response cache lookups by result",
        },
        []string{"result"},
    )
)

// Metrics records request counts and latency labelled by route template,
// so /v1/properties/1 and /v1/properties/2 share a series.
func Metrics() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if c.Request().URL.Path == "/metrics" {
                return next(c)
            }
            start := time.Now()
            err := next(c)
            if err != nil {
                c.Error(err)
            }
            path := c.Path()
            if path == "" {
                path = "unmatched"
            }
            status := strconv.Itoa(c.Response().Status)
            RequestTotal.WithLabelValues(c.Request().Method, path, status).Inc()
            RequestDuration.WithLabelValues(c.Request().Method, path).Observe(time.Since(start).Seconds())
            return nil
        }
    }
}
