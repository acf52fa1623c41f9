package handler // contains HTTP handlers

import (
    "context"
    "net/http" // status codes
    "time"

    "github.com/labstack/echo/v4"
)

// Health is a liveness endpoint used by load balancers.  It returns a plain
// text "ok" with 200 as long as the process serves requests.
func Health(c echo.Context) error {
    return c.String(http.StatusOK, "ok")
}

// Pinger is satisfied by *sql.DB.
type Pinger interface {
    PingContext(ctx context.Context) error
}

// Ready returns a readiness endpoint that pings every named dependency.
// Any failure yields 503 with the failing dependency names.
func Ready(deps map[string]Pinger) echo.HandlerFunc {
    return func(c echo.Context) error {
        ctx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
        defer cancel()
        status := make(map[string]string, len(deps))
        code := http.StatusOK
        for name, d := range deps {
            if err := d.PingContext(ctx); err != nil {
                c.Logger().Warnf("readiness: %s: %v", name, err)
                status[name] = "down"
                code = http.StatusServiceUnavailable
                continue
            }
            status[name] = "up"
        }
        return c.JSON(code, status)
    }
}
