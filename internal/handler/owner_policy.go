package handler

import (
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-booking/internal/model"
)

// ListPolicies handles GET /v1/owner/properties/:id/cancellation-policies.
func (h *OwnerHandler) ListPolicies(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return unauthorized(c, err)
    }
    id, ok := pathID(c, "id")
    if !ok {
        return badRequest(c, "invalid property id")
    }
    ctx := c.Request().Context()
    if _, err := h.Properties.GetOwned(ctx, id, ownerID); err != nil {
        return ownerError(c, err)
    }
    tiers, err := h.Policies.ListByProperty(ctx, id)
    if err != nil {
        return dbError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"property_id": id, "policies": tiers})
}

// ReplacePolicies handles PUT /v1/owner/properties/:id/cancellation-policies.
// The body's "policies" replace the whole tier set; an empty list removes
// every tier so cancellations are free.
func (h *OwnerHandler) ReplacePolicies(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return unauthorized(c, err)
    }
    id, ok := pathID(c, "id")
    if !ok {
        return badRequest(c, "invalid property id")
    }
    var body struct {
        Policies []model.CancellationPolicy `json:"policies"`
    }
    if err := c.Bind(&body); err != nil {
        return badRequest(c, "invalid request body")
    }
    seen := make(map[int]bool, len(body.Policies))
    for i := range body.Policies {
        t := &body.Policies[i]
        if t.CancellationDays < 0 {
            return badRequest(c, "cancellation_days must not be negative")
        }
        if t.CancellationPercent < 0 || t.CancellationPercent > 100 {
            return badRequest(c, "cancellation_percents must be between 0 and 100")
        }
        if seen[t.CancellationDays] {
            return badRequest(c, "duplicate cancellation_days")
        }
        seen[t.CancellationDays] = true
        t.PropertyID = id
    }
    ctx := c.Request().Context()
    if err := h.Policies.Replace(ctx, id, ownerID, body.Policies); err != nil {
        return ownerError(c, err)
    }
    tiers, err := h.Policies.ListByProperty(ctx, id)
    if err != nil {
        return dbError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"property_id": id, "policies": tiers})
}
