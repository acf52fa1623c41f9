package handler // handler defines http handlers

import (
    "errors"
    "fmt"
    "net/http"
    "strconv"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"

    "github.com/iliyamo/hotel-booking/internal/availability"
    "github.com/iliyamo/hotel-booking/internal/middleware"
)

var errUnauthenticated = errors.New("invalid user_id in context")

// getUserID extracts the authenticated user's id from the echo.Context.
func getUserID(c echo.Context) (uint64, error) {
    id, ok := middleware.UserID(c)
    if !ok {
        return 0, errUnauthenticated
    }
    return id, nil
}

// pathID parses a positive numeric path parameter.
func pathID(c echo.Context, name string) (uint64, bool) {
    id, err := strconv.ParseUint(c.Param(name), 10, 64)
    return id, err == nil && id > 0
}

func badRequest(c echo.Context, msg string) error {
    return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
}

func dbError(c echo.Context, err error) error {
    c.Logger().Errorf("database error: %v", err)
    return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
}

// parseDate parses an optional YYYY-MM-DD value.  present is false only
// when the parameter is absent; a given date is never the zero time.
func parseDate(s string) (t time.Time, present bool, err error) {
    if strings.TrimSpace(s) == "" {
        return time.Time{}, false, nil
    }
    t, err = availability.ParseDate(s)
    return t, err == nil, err
}

// dateError words a date parse failure for the client.
func dateError(name string, err error) error {
    if errors.Is(err, availability.ErrDateOutOfRange) {
        return fmt.Errorf("%s must not be before %s", name, availability.MinDate.Format(availability.DateLayout))
    }
    return fmt.Errorf("invalid %s, expected YYYY-MM-DD", name)
}

// parseFilters reads the availability query parameters shared by the
// search and room listing endpoints.
func parseFilters(c echo.Context) (availability.Filters, error) {
    var f availability.Filters
    var err error
    if v := c.QueryParam("room_type"); v != "" {
        if f.RoomTypeID, err = strconv.ParseUint(v, 10, 64); err != nil {
            return f, errors.New("invalid room_type")
        }
    }
    for name, dst := range map[string]**decimal.Decimal{"min_price": &f.MinPrice, "max_price": &f.MaxPrice} {
        if v := c.QueryParam(name); v != "" {
            d, err := decimal.NewFromString(v)
            if err != nil || d.IsNegative() {
                return f, errors.New("invalid " + name)
            }
            *dst = &d
        }
    }
    var hasIn, hasOut bool
    if f.CheckIn, hasIn, err = parseDate(c.QueryParam("check_in_date")); err != nil {
        return f, dateError("check_in_date", err)
    }
    if f.CheckOut, hasOut, err = parseDate(c.QueryParam("check_out_date")); err != nil {
        return f, dateError("check_out_date", err)
    }
    if hasIn && hasOut {
        if f.CheckOut.Before(f.CheckIn) {
            return f, errors.New("check_out_date must not be before check_in_date")
        }
        if availability.CheckStay(f.CheckIn, f.CheckOut) != nil {
            return f, fmt.Errorf("stay must not exceed %d nights", availability.MaxStayNights)
        }
    }
    for name, dst := range map[string]*int{"num_of_rooms": &f.NumOfRooms, "num_of_adults": &f.NumOfAdults, "num_of_children": &f.NumOfChildren} {
        if v := c.QueryParam(name); v != "" {
            n, err := strconv.Atoi(v)
            if err != nil || n < 0 {
                return f, errors.New("invalid " + name)
            }
            *dst = n
        }
    }
    if c.QueryParam("num_of_rooms") != "" && f.NumOfRooms < 1 {
        return f, errors.New("num_of_rooms must be at least 1")
    }
    return f, nil
}

func money(d *decimal.Decimal) *string {
    if d == nil {
        return nil
    }
    s := d.StringFixed(2)
    return &s
}
