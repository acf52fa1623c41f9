package handler

import (
    "net/http"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"

    "github.com/iliyamo/hotel-booking/internal/availability"
    "github.com/iliyamo/hotel-booking/internal/repository"
)

// maxOverrideSpan bounds how many dates one inventory request may touch.
const maxOverrideSpan = 366

// dateRange reads start_date and end_date (inclusive) from the query string.
func dateRange(c echo.Context) (time.Time, time.Time, string) {
    start, err := availability.ParseDate(c.QueryParam("start_date"))
    if err != nil {
        return time.Time{}, time.Time{}, dateError("start_date", err).Error()
    }
    end, err := availability.ParseDate(c.QueryParam("end_date"))
    if err != nil {
        return time.Time{}, time.Time{}, dateError("end_date", err).Error()
    }
    return start, end, checkSpan(start, end)
}

func checkSpan(start, end time.Time) string {
    if end.Before(start) {
        return "end_date must not be before start_date"
    }
    if end.Sub(start) >= maxOverrideSpan*24*time.Hour {
        return "date range too long"
    }
    return ""
}

// ListInventory handles GET /v1/owner/room-types/:id/inventory.
func (h *OwnerHandler) ListInventory(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return unauthorized(c, err)
    }
    id, ok := pathID(c, "id")
    if !ok {
        return badRequest(c, "invalid room type id")
    }
    start, end, msg := dateRange(c)
    if msg != "" {
        return badRequest(c, msg)
    }
    ctx := c.Request().Context()
    if _, err := h.RoomTypes.GetOwned(ctx, id, ownerID); err != nil {
        return ownerError(c, err)
    }
    overrides, err := h.Inventory.List(ctx, id, start, end)
    if err != nil {
        return dbError(c, err)
    }
    out := make([]overrideView, 0, len(overrides))
    for _, o := range overrides {
        out = append(out, toOverrideView(o))
    }
    return c.JSON(http.StatusOK, echo.Map{"room_type_id": id, "overrides": out})
}

type inventoryBody struct {
    StartDate      string           `json:"start_date"`
    EndDate        string           `json:"end_date"`
    Price          *decimal.Decimal `json:"price"`
    MinPrice       *decimal.Decimal `json:"min_price"`
    MaxPrice       *decimal.Decimal `json:"max_price"`
    AvailableRooms *int             `json:"available_rooms"`
    IsActive       *bool            `json:"is_active"`
}

// PutInventory handles PUT /v1/owner/room-types/:id/inventory.  One
// override is written per date of the range and earlier overrides of those
// dates are superseded.  is_active=false blacks the dates out.
func (h *OwnerHandler) PutInventory(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return unauthorized(c, err)
    }
    id, ok := pathID(c, "id")
    if !ok {
        return badRequest(c, "invalid room type id")
    }
    var body inventoryBody
    if err := c.Bind(&body); err != nil {
        return badRequest(c, "invalid request body")
    }
    start, err := availability.ParseDate(body.StartDate)
    if err != nil {
        return badRequest(c, dateError("start_date", err).Error())
    }
    end, err := availability.ParseDate(body.EndDate)
    if err != nil {
        return badRequest(c, dateError("end_date", err).Error())
    }
    if msg := checkSpan(start, end); msg != "" {
        return badRequest(c, msg)
    }
    for _, p := range []*decimal.Decimal{body.Price, body.MinPrice, body.MaxPrice} {
        if p != nil && p.IsNegative() {
            return badRequest(c, "prices must not be negative")
        }
    }
    if body.AvailableRooms != nil && *body.AvailableRooms < 0 {
        return badRequest(c, "available_rooms must not be negative")
    }
    ctx := c.Request().Context()
    rt, err := h.RoomTypes.GetOwned(ctx, id, ownerID)
    if err != nil {
        return ownerError(c, err)
    }
    patch := repository.OverridePatch{
        Price:          body.Price,
        MinPrice:       body.MinPrice,
        MaxPrice:       body.MaxPrice,
        AvailableRooms: body.AvailableRooms,
        IsActive:       body.IsActive == nil || *body.IsActive,
    }
    if err := h.Inventory.Upsert(ctx, id, start, end, patch); err != nil {
        return dbError(c, err)
    }
    h.purgeProperty(c, rt.PropertyID)
    return c.JSON(http.StatusOK, echo.Map{
        "room_type_id": id,
        "start_date":   start.Format(availability.DateLayout),
        "end_date":     end.Format(availability.DateLayout),
        "days":         len(availability.Days(start, end)),
    })
}

// DeleteInventory handles DELETE /v1/owner/room-types/:id/inventory.
func (h *OwnerHandler) DeleteInventory(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return unauthorized(c, err)
    }
    id, ok := pathID(c, "id")
    if !ok {
        return badRequest(c, "invalid room type id")
    }
    start, end, msg := dateRange(c)
    if msg != "" {
        return badRequest(c, msg)
    }
    ctx := c.Request().Context()
    rt, err := h.RoomTypes.GetOwned(ctx, id, ownerID)
    if err != nil {
        return ownerError(c, err)
    }
    n, err := h.Inventory.Delete(ctx, id, start, end)
    if err != nil {
        return dbError(c, err)
    }
    h.purgeProperty(c, rt.PropertyID)
    return c.JSON(http.StatusOK, echo.Map{"room_type_id": id, "deleted": n})
}
