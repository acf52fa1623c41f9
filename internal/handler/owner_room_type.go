package handler

import (
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"

    "github.com/iliyamo/hotel-booking/internal/model"
)

type roomTypeBody struct {
    Name             string          `json:"name"`
    AdultCapacity    int             `json:"adult_capacity"`
    ChildrenCapacity int             `json:"children_capacity"`
    DefaultPrice     decimal.Decimal `json:"default_price"`
    MinPrice         decimal.Decimal `json:"min_price"`
    MaxPrice         decimal.Decimal `json:"max_price"`
    NumOfRooms       int             `json:"num_of_rooms"`
    IsAvailable      *bool           `json:"is_available"`
}

func (b *roomTypeBody) validate() string {
    b.Name = strings.TrimSpace(b.Name)
    switch {
    case b.Name == "":
        return "name is required"
    case b.AdultCapacity < 1:
        return "adult_capacity must be at least 1"
    case b.ChildrenCapacity < 0:
        return "children_capacity must not be negative"
    case b.NumOfRooms < 1:
        return "num_of_rooms must be at least 1"
    case !b.DefaultPrice.IsPositive():
        return "default_price must be positive"
    case b.MinPrice.IsNegative() || b.MaxPrice.IsNegative():
        return "prices must not be negative"
    case !b.MaxPrice.IsZero() && b.MinPrice.GreaterThan(b.MaxPrice):
        return "min_price must not exceed max_price"
    }
    return ""
}

func (b roomTypeBody) apply(rt *model.RoomType) {
    rt.Name = b.Name
    rt.AdultCapacity = b.AdultCapacity
    rt.ChildrenCapacity = b.ChildrenCapacity
    rt.DefaultPrice = b.DefaultPrice
    rt.MinPrice = b.MinPrice
    rt.MaxPrice = b.MaxPrice
    rt.NumOfRooms = b.NumOfRooms
    if b.IsAvailable != nil {
        rt.IsAvailable = *b.IsAvailable
    }
}

// CreateRoomType handles POST /v1/owner/properties/:id/room-types.
func (h *OwnerHandler) CreateRoomType(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return unauthorized(c, err)
    }
    propertyID, ok := pathID(c, "id")
    if !ok {
        return badRequest(c, "invalid property id")
    }
    var body roomTypeBody
    if err := c.Bind(&body); err != nil {
        return badRequest(c, "invalid request body")
    }
    if msg := body.validate(); msg != "" {
        return badRequest(c, msg)
    }
    rt := &model.RoomType{PropertyID: propertyID, IsAvailable: true} // available unless switched off
    body.apply(rt)
    if err := h.RoomTypes.Create(c.Request().Context(), ownerID, rt); err != nil {
        if isDuplicate(err) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "room type name already exists"})
        }
        return ownerError(c, err)
    }
    h.purgeProperty(c, propertyID)
    return c.JSON(http.StatusCreated, toRoomTypeView(*rt))
}

// ListRoomTypes handles GET /v1/owner/properties/:id/room-types.  Owners
// see unverified and switched-off room types too.
func (h *OwnerHandler) ListRoomTypes(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return unauthorized(c, err)
    }
    propertyID, ok := pathID(c, "id")
    if !ok {
        return badRequest(c, "invalid property id")
    }
    ctx := c.Request().Context()
    if _, err := h.Properties.GetOwned(ctx, propertyID, ownerID); err != nil {
        return ownerError(c, err)
    }
    rooms, err := h.RoomTypes.ListActiveByProperty(ctx, propertyID)
    if err != nil {
        return dbError(c, err)
    }
    out := make([]roomTypeView, 0, len(rooms))
    for _, rt := range rooms {
        out = append(out, toRoomTypeView(rt))
    }
    return c.JSON(http.StatusOK, echo.Map{"property_id": propertyID, "room_types": out})
}

// UpdateRoomType handles PUT/PATCH /v1/owner/room-types/:id.  Omitted
// fields keep their stored value.
func (h *OwnerHandler) UpdateRoomType(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return unauthorized(c, err)
    }
    id, ok := pathID(c, "id")
    if !ok {
        return badRequest(c, "invalid room type id")
    }
    ctx := c.Request().Context()
    rt, err := h.RoomTypes.GetOwned(ctx, id, ownerID)
    if err != nil {
        return ownerError(c, err)
    }
    available := rt.IsAvailable
    body := roomTypeBody{
        Name: rt.Name, AdultCapacity: rt.AdultCapacity, ChildrenCapacity: rt.ChildrenCapacity,
        DefaultPrice: rt.DefaultPrice, MinPrice: rt.MinPrice, MaxPrice: rt.MaxPrice,
        NumOfRooms: rt.NumOfRooms, IsAvailable: &available,
    }
    if err := c.Bind(&body); err != nil {
        return badRequest(c, "invalid request body")
    }
    if msg := body.validate(); msg != "" {
        return badRequest(c, msg)
    }
    body.apply(rt)
    if err := h.RoomTypes.Update(ctx, ownerID, rt); err != nil {
        if isDuplicate(err) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "room type name already exists"})
        }
        return ownerError(c, err)
    }
    h.purgeProperty(c, rt.PropertyID)
    return c.JSON(http.StatusOK, toRoomTypeView(*rt))
}

// DeleteRoomType handles DELETE /v1/owner/room-types/:id.
func (h *OwnerHandler) DeleteRoomType(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return unauthorized(c, err)
    }
    id, ok := pathID(c, "id")
    if !ok {
        return badRequest(c, "invalid room type id")
    }
    ctx := c.Request().Context()
    rt, err := h.RoomTypes.GetOwned(ctx, id, ownerID)
    if err != nil {
        return ownerError(c, err)
    }
    if err := h.RoomTypes.SoftDelete(ctx, id, ownerID, h.today()); err != nil {
        return ownerError(c, err)
    }
    h.purgeProperty(c, rt.PropertyID)
    return c.NoContent(http.StatusNoContent)
}
