package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/handler"
	"github.com/iliyamo/hotel-booking/internal/middleware"
)

// RegisterRoutes registers the unauthenticated operational endpoints.
// /healthz answers as long as the process serves requests; /readyz pings
// the dependencies passed in.
func RegisterRoutes(e *echo.Echo, deps map[string]handler.Pinger) {
	e.GET("/healthz", handler.Health)
	e.GET("/readyz", handler.Ready(deps))
}

// PublicOptions carries the optional middleware of the guest API.
type PublicOptions struct {
	Cache     *middleware.ResponseCache // caches static property detail
	HoldLimit echo.MiddlewareFunc       // throttles hold placement; nil disables
}

// RegisterPublic registers the guest browsing and hold endpoints.  They
// require no JWT; the shopper session assigned by ShopperSession scopes
// holds and keeps a shopper's own holds out of their availability.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, h *handler.HoldHandler, r *handler.RatingHandler, opts PublicOptions) {
	g := e.Group("/v1", middleware.ShopperSession())

	// search and per-property availability depend on live holds and are never cached
	g.GET("/properties", p.SearchProperties)
	g.GET("/properties/:id/rooms", p.PropertyRooms)
	g.GET("/properties/:id", p.GetProperty, opts.Cache.Middleware())
	g.GET("/properties/:id/ratings", r.PropertyRatings)

	holdMW := []echo.MiddlewareFunc{}
	if opts.HoldLimit != nil {
		holdMW = append(holdMW, opts.HoldLimit)
	}
	g.POST("/holds", h.PlaceHold, holdMW...)
	g.GET("/holds", h.ListHolds)
	g.DELETE("/holds", h.ReleaseHolds)
}
