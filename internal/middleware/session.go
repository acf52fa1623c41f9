package middleware

import (
    "net/http"
    "time"

    "github.com/google/uuid"
    "github.com/labstack/echo/v4"
)

// SessionHeader carries the shopper session id in both directions.
const SessionHeader = "X-Session-ID"

const sessionCookie = "shopper_session"

// ShopperSession assigns every request a shopper session id used to scope
// room holds.  An id supplied by the client in the X-Session-ID header or
// the shopper_session cookie is reused when it is a valid UUID; otherwise
// a new random one is issued.  The id is echoed in the response header
// and cookie so the client can send it back.
func ShopperSession() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            sid := c.Request().Header.Get(SessionHeader)
            if sid == "" {
                if ck, err := c.Cookie(sessionCookie); err == nil {
                    sid = ck.Value
                }
            }
            if parsed, err := uuid.Parse(sid); err == nil {
                sid = parsed.String()
            } else {
                sid = uuid.NewString()
            }
            c.Set(ctxSessionID, sid)
            c.Response().Header().Set(SessionHeader, sid)
            c.SetCookie(&http.Cookie{
                Name:     sessionCookie,
                Value:    sid,
                Path:     "/",
                HttpOnly: true,
                SameSite: http.SameSiteLaxMode,
                Expires:  time.Now().Add(24 * time.Hour),
            })
            return next(c)
        }
    }
}
