package middleware

// identity.go holds the context keys written by JWTAuth and ShopperSession
// and typed accessors for handlers and other middleware.

import (
    "strconv"

    "github.com/labstack/echo/v4"
)

const (
    ctxUserID    = "user_id"
    ctxRole      = "role"
    ctxSessionID = "session_id"
)

// UserID returns the authenticated user's id.  ok is false for anonymous
// requests.
func UserID(c echo.Context) (uint64, bool) {
    switch v := c.Get(ctxUserID).(type) {
    case uint64:
        return v, v != 0
    case int:
        return uint64(v), v > 0
    case float64:
        return uint64(v), v > 0
    case string:
        n, err := strconv.ParseUint(v, 10, 64)
        return n, err == nil && n != 0
    }
    return 0, false
}

// Role returns the role claim of the authenticated user, or "".
func Role(c echo.Context) string {
    r, _ := c.Get(ctxRole).(string)
    return r
}

// SessionID returns the shopper session assigned by ShopperSession, or "".
func SessionID(c echo.Context) string {
    s, _ := c.Get(ctxSessionID).(string)
    return s
}

// identityKey identifies the caller for rate limiting: the user id when
// authenticated, otherwise "guest".
func identityKey(c echo.Context) string {
    if id, ok := UserID(c); ok {
        return strconv.FormatUint(id, 10)
    }
    return "guest"
}
