package handler

import (
    "context"
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-booking/internal/availability"
    "github.com/iliyamo/hotel-booking/internal/middleware"
    "github.com/iliyamo/hotel-booking/internal/model"
    "github.com/iliyamo/hotel-booking/internal/repository"
    "github.com/iliyamo/hotel-booking/internal/service"
)

// BookingWorkflow confirms and cancels bookings; *service.BookingService
// satisfies it.
type BookingWorkflow interface {
    Confirm(ctx context.Context, req service.BookingRequest) (*model.Booking, error)
    Quote(ctx context.Context, userID, bookingID uint64) (service.Quote, error)
    Cancel(ctx context.Context, userID, bookingID uint64) (*model.Booking, service.Quote, error)
}

// CustomerBookings reads a customer's bookings.
type CustomerBookings interface {
    ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error)
    GetForUser(ctx context.Context, id, userID uint64) (*model.Booking, error)
}

// BookingHandler serves the customer booking endpoints.
type BookingHandler struct {
    Workflow BookingWorkflow
    Bookings CustomerBookings
    MaxUnits int
}

func NewBookingHandler(workflow BookingWorkflow, bookings CustomerBookings, maxUnits int) *BookingHandler {
    if workflow == nil || bookings == nil {
        panic("nil dependency passed to NewBookingHandler")
    }
    return &BookingHandler{Workflow: workflow, Bookings: bookings, MaxUnits: maxUnits}
}

type createBookingRequest struct {
    RoomTypeID    uint64 `json:"room_type_id"`
    CheckIn       string `json:"check_in_date"`
    CheckOut      string `json:"check_out_date"`
    NumOfRooms    int    `json:"num_of_rooms"`
    NumOfAdults   int    `json:"num_of_adults"`
    NumOfChildren int    `json:"num_of_children"`
}

// Create handles POST /v1/bookings.  Availability is resolved again at
// confirmation time; units held by other shoppers count against it while
// the caller's own hold does not.
func (h *BookingHandler) Create(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return unauthorized(c, err)
    }
    var req createBookingRequest
    if err := c.Bind(&req); err != nil {
        return badRequest(c, "invalid request body")
    }
    if req.RoomTypeID == 0 {
        return badRequest(c, "room_type_id is required")
    }
    checkIn, err := availability.ParseDate(req.CheckIn)
    if err != nil {
        return badRequest(c, dateError("check_in_date", err).Error())
    }
    checkOut, err := availability.ParseDate(req.CheckOut)
    if err != nil {
        return badRequest(c, dateError("check_out_date", err).Error())
    }
    if req.NumOfRooms == 0 {
        req.NumOfRooms = 1
    }
    if req.NumOfRooms < 0 || (h.MaxUnits > 0 && req.NumOfRooms > h.MaxUnits) {
        return badRequest(c, "invalid num_of_rooms")
    }
    if req.NumOfAdults < 0 || req.NumOfChildren < 0 {
        return badRequest(c, "guest counts must not be negative")
    }
    b, err := h.Workflow.Confirm(c.Request().Context(), service.BookingRequest{
        UserID:        userID,
        SessionID:     middleware.SessionID(c),
        RoomTypeID:    req.RoomTypeID,
        CheckIn:       checkIn,
        CheckOut:      checkOut,
        NumOfRooms:    req.NumOfRooms,
        NumOfAdults:   req.NumOfAdults,
        NumOfChildren: req.NumOfChildren,
    })
    if err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusCreated, toBookingView(*b))
}

// ListMine handles GET /v1/my-bookings.
func (h *BookingHandler) ListMine(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return unauthorized(c, err)
    }
    bs, err := h.Bookings.ListByUser(c.Request().Context(), userID)
    if err != nil {
        return dbError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"bookings": toBookingViews(bs)})
}

// Get handles GET /v1/bookings/:id.
func (h *BookingHandler) Get(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return unauthorized(c, err)
    }
    id, ok := pathID(c, "id")
    if !ok {
        return badRequest(c, "invalid booking id")
    }
    b, err := h.Bookings.GetForUser(c.Request().Context(), id, userID)
    if err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusOK, toBookingView(*b))
}

// Quote handles GET /v1/bookings/:id/cancellation-quote and previews the charge
// that cancelling now would apply.
func (h *BookingHandler) Quote(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return unauthorized(c, err)
    }
    id, ok := pathID(c, "id")
    if !ok {
        return badRequest(c, "invalid booking id")
    }
    q, err := h.Workflow.Quote(c.Request().Context(), userID, id)
    if err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusOK, quoteView(q))
}

// Cancel handles DELETE /v1/bookings/:id.
func (h *BookingHandler) Cancel(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return unauthorized(c, err)
    }
    id, ok := pathID(c, "id")
    if !ok {
        return badRequest(c, "invalid booking id")
    }
    b, q, err := h.Workflow.Cancel(c.Request().Context(), userID, id)
    if err != nil {
        return bookingError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"booking": toBookingView(*b), "cancellation": quoteView(q)})
}

func quoteView(q service.Quote) echo.Map {
    return echo.Map{
        "booking_id":           q.BookingID,
        "days_before_check_in": q.DaysBeforeCheckIn,
        "charge_percent":       q.ChargePercent,
        "refund_amount":        q.RefundAmount.StringFixed(2),
    }
}

// bookingError maps workflow and repository errors to responses.
func bookingError(c echo.Context, err error) error {
    switch {
    case errors.Is(err, availability.ErrInvalidRange):
        return badRequest(c, "invalid stay dates")
    case errors.Is(err, repository.ErrRoomTypeNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "room type not found"})
    case errors.Is(err, repository.ErrPropertyNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
    case errors.Is(err, repository.ErrBookingNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
    case errors.Is(err, repository.ErrForbidden):
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    case errors.Is(err, service.ErrNotAvailable),
        errors.Is(err, service.ErrAlreadyCancelled),
        errors.Is(err, service.ErrStayStarted),
        errors.Is(err, repository.ErrConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    }
    return dbError(c, err)
}
