package router // router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hotel-booking/internal/handler"    // owner handlers
	"github.com/iliyamo/hotel-booking/internal/middleware" // JWT + role middlewares
)

// RegisterOwner registers OWNER-scoped endpoints under /v1/owner.
// All routes require a valid JWT and OWNER role.
func RegisterOwner(e *echo.Echo, o *handler.OwnerHandler, jwtSecret string) {
	g := e.Group(
		"/v1/owner",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(middleware.RoleOwner),
	)

	// ---- Properties ----
	g.POST("/properties", o.CreateProperty)
	g.GET("/properties", o.ListProperties)
	g.PUT("/properties/:id", o.UpdateProperty)
	g.PATCH("/properties/:id", o.UpdateProperty) // same handler; omitted fields are kept
	g.DELETE("/properties/:id", o.DeleteProperty)
	g.GET("/properties/:id/bookings", o.ListPropertyBookings)

	// ---- Room types ----
	g.POST("/properties/:id/room-types", o.CreateRoomType)
	g.GET("/properties/:id/room-types", o.ListRoomTypes)
	g.PUT("/room-types/:id", o.UpdateRoomType)
	g.PATCH("/room-types/:id", o.UpdateRoomType)
	g.DELETE("/room-types/:id", o.DeleteRoomType)

	// ---- Inventory overrides ----
	g.GET("/room-types/:id/inventory", o.ListInventory)
	g.PUT("/room-types/:id/inventory", o.PutInventory)
	g.DELETE("/room-types/:id/inventory", o.DeleteInventory)

	// ---- Cancellation policies ----
	g.GET("/properties/:id/cancellation-policies", o.ListPolicies)
	g.PUT("/properties/:id/cancellation-policies", o.ReplacePolicies)
}
