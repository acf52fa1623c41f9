package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/handler"
	"github.com/iliyamo/hotel-booking/internal/middleware"
)

// RegisterCustomer registers customer-scoped endpoints under /v1.  All routes
// require a valid JWT and the CUSTOMER role.  The shopper session is read
// as well so a confirmation does not count the customer's own hold
// against availability.
func RegisterCustomer(e *echo.Echo, h *handler.BookingHandler, r *handler.RatingHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.ShopperSession(),
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleCustomer),
	)
	g.POST("/bookings", h.Create)
	g.GET("/my-bookings", h.ListMine)
	g.GET("/bookings/:id", h.Get)
	g.GET("/bookings/:id/cancellation-quote", h.Quote)
	g.DELETE("/bookings/:id", h.Cancel)
	g.POST("/bookings/:id/rating", r.Rate)
}
