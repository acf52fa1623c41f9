package handler

import (
    "errors"
    "net/http"
    "strings"

    "github.com/go-sql-driver/mysql"
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-booking/internal/availability"
    "github.com/iliyamo/hotel-booking/internal/model"
)

// mysqlDuplicateKey is the server error number for a unique key violation.
const mysqlDuplicateKey = 1062

func isDuplicate(err error) bool {
    var me *mysql.MySQLError
    return errors.As(err, &me) && me.Number == mysqlDuplicateKey
}

type propertyBody struct {
    Name        string  `json:"name"`
    City        string  `json:"city"`
    Address     *string `json:"address"`
    CheckInTime string  `json:"check_in_time"`
}

// validate trims the body in place and returns a message for the first
// invalid field.
func (b *propertyBody) validate() string {
    b.Name = strings.TrimSpace(b.Name)
    b.City = strings.TrimSpace(b.City)
    b.CheckInTime = strings.TrimSpace(b.CheckInTime)
    switch {
    case b.Name == "":
        return "name is required"
    case b.City == "":
        return "city is required"
    case b.CheckInTime == "":
        return "check_in_time is required"
    }
    if _, ok := availability.ParseCheckInTime(b.CheckInTime); !ok {
        return "invalid check_in_time, expected e.g. 12:00 PM or 14:00"
    }
    return ""
}

// CreateProperty handles POST /v1/owner/properties.  New properties start
// unverified and stay hidden from search until the platform verifies them.
func (h *OwnerHandler) CreateProperty(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return unauthorized(c, err)
    }
    var body propertyBody
    if err := c.Bind(&body); err != nil {
        return badRequest(c, "invalid request body")
    }
    if msg := body.validate(); msg != "" {
        return badRequest(c, msg)
    }
    p := &model.Property{OwnerID: ownerID, Name: body.Name, City: body.City, Address: body.Address, CheckInTime: body.CheckInTime}
    if err := h.Properties.Create(c.Request().Context(), p); err != nil {
        if isDuplicate(err) { // names are unique per owner among active properties
            return c.JSON(http.StatusConflict, echo.Map{"error": "property name already exists"})
        }
        return dbError(c, err)
    }
    return c.JSON(http.StatusCreated, toPropertyView(*p))
}

// ListProperties handles GET /v1/owner/properties.
func (h *OwnerHandler) ListProperties(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return unauthorized(c, err)
    }
    props, err := h.Properties.ListByOwner(c.Request().Context(), ownerID)
    if err != nil {
        return dbError(c, err)
    }
    out := make([]propertyView, 0, len(props))
    for _, p := range props {
        out = append(out, toPropertyView(p))
    }
    return c.JSON(http.StatusOK, echo.Map{"properties": out})
}

// UpdateProperty handles PUT/PATCH /v1/owner/properties/:id.  Omitted
// fields keep their stored value.
func (h *OwnerHandler) UpdateProperty(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return unauthorized(c, err)
    }
    id, ok := pathID(c, "id")
    if !ok {
        return badRequest(c, "invalid property id")
    }
    ctx := c.Request().Context()
    p, err := h.Properties.GetOwned(ctx, id, ownerID)
    if err != nil {
        return ownerError(c, err)
    }
    body := propertyBody{Name: p.Name, City: p.City, Address: p.Address, CheckInTime: p.CheckInTime}
    if err := c.Bind(&body); err != nil {
        return badRequest(c, "invalid request body")
    }
    if msg := body.validate(); msg != "" {
        return badRequest(c, msg)
    }
    p.Name, p.City, p.Address, p.CheckInTime = body.Name, body.City, body.Address, body.CheckInTime
    if err := h.Properties.Update(ctx, p); err != nil {
        if isDuplicate(err) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "property name already exists"})
        }
        return ownerError(c, err)
    }
    h.purgeProperty(c, id)
    return c.JSON(http.StatusOK, toPropertyView(*p))
}

// DeleteProperty handles DELETE /v1/owner/properties/:id.  The property and
// its room types are soft-deleted; the request is refused with 409 while
// confirmed bookings have not checked out yet.
func (h *OwnerHandler) DeleteProperty(c echo.Context) error {
    ownerID, err := getUserID(c)
    if err != nil {
        return unauthorized(c, err)
    }
    id, ok := pathID(c, "id")
    if !ok {
        return badRequest(c, "invalid property id")
    }
    if err := h.Properties.SoftDelete(c.Request().Context(), id, ownerID, h.today()); err != nil {
        return ownerError(c, err)
    }
    h.purgeProperty(c, id)
    return c.NoContent(http.StatusNoContent)
}

// ListPropertyBookings handles GET /v1/owner/properties/:id/bookings.
func (h *OwnerHandler) ListPropertyBookings(c echo.Context) error {
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
    bs, err := h.Bookings.ListByProperty(ctx, id)
    if err != nil {
        return dbError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"property_id": id, "bookings": toBookingViews(bs)})
}
