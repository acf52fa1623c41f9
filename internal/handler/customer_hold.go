package handler

import (
    "context"
    "errors"
    "net/http"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-booking/internal/hold"
    "github.com/iliyamo/hotel-booking/internal/middleware"
    "github.com/iliyamo/hotel-booking/internal/model"
    "github.com/iliyamo/hotel-booking/internal/repository"
)

// HoldService places and releases session holds; *hold.Tracker satisfies it.
type HoldService interface {
    PlaceHold(ctx context.Context, sessionID string, roomTypeIDs []uint64, units int) ([]model.SessionHold, error)
    Holds(ctx context.Context, sessionID string) ([]model.SessionHold, error)
    Release(ctx context.Context, sessionID string, roomTypeIDs ...uint64) error
}

// RoomTypeGetter loads one active room type.
type RoomTypeGetter interface {
    GetByID(ctx context.Context, id uint64) (*model.RoomType, error)
}

// HoldHandler exposes session holds to shoppers in checkout.
type HoldHandler struct {
    Holds     HoldService
    RoomTypes RoomTypeGetter
    MaxUnits  int
}

func NewHoldHandler(holds HoldService, roomTypes RoomTypeGetter, maxUnits int) *HoldHandler {
    if holds == nil || roomTypes == nil {
        panic("nil dependency passed to NewHoldHandler")
    }
    return &HoldHandler{Holds: holds, RoomTypes: roomTypes, MaxUnits: maxUnits}
}

// PlaceHold handles POST /v1/holds.  The body carries "room_ids" and an
// optional "num_of_rooms" (default 1) held on each of them.  The request is
// all or nothing: when any room is already held by this session the
// response is 409 with the offending ids in "already_held" and nothing is
// held.
func (h *HoldHandler) PlaceHold(c echo.Context) error {
    var body struct {
        RoomIDs    []uint64 `json:"room_ids"`
        NumOfRooms int      `json:"num_of_rooms"`
    }
    if err := c.Bind(&body); err != nil {
        return badRequest(c, "invalid request body")
    }
    if len(body.RoomIDs) == 0 {
        return badRequest(c, "room_ids is required")
    }
    if body.NumOfRooms == 0 {
        body.NumOfRooms = 1
    }
    if body.NumOfRooms < 1 || (h.MaxUnits > 0 && body.NumOfRooms > h.MaxUnits) {
        return badRequest(c, "invalid num_of_rooms")
    }
    ctx := c.Request().Context()
    for _, id := range body.RoomIDs {
        rt, err := h.RoomTypes.GetByID(ctx, id)
        if errors.Is(err, repository.ErrRoomTypeNotFound) || (err == nil && !rt.Bookable()) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "room type not found", "room_id": id})
        }
        if err != nil {
            return dbError(c, err)
        }
    }
    holds, err := h.Holds.PlaceHold(ctx, middleware.SessionID(c), body.RoomIDs, body.NumOfRooms)
    var held *hold.AlreadyHeldError
    switch {
    case errors.As(err, &held):
        return c.JSON(http.StatusConflict, echo.Map{"error": "room already held in this session", "already_held": held.RoomTypeIDs})
    case errors.Is(err, hold.ErrNoSession), errors.Is(err, hold.ErrInvalidHold):
        return badRequest(c, err.Error())
    case err != nil:
        return dbError(c, err)
    }
    return c.JSON(http.StatusCreated, echo.Map{
        "session_id": middleware.SessionID(c),
        "holds":      holds,
        "expires_at": holds[0].ExpiresAt.Format(time.RFC3339),
    })
}

// ListHolds handles GET /v1/holds and returns the session's live holds.
func (h *HoldHandler) ListHolds(c echo.Context) error {
    holds, err := h.Holds.Holds(c.Request().Context(), middleware.SessionID(c))
    if err != nil {
        return dbError(c, err)
    }
    if holds == nil {
        holds = []model.SessionHold{}
    }
    return c.JSON(http.StatusOK, echo.Map{"holds": holds})
}

// ReleaseHolds handles DELETE /v1/holds and drops every hold of the session.
func (h *HoldHandler) ReleaseHolds(c echo.Context) error {
    ctx := c.Request().Context()
    sid := middleware.SessionID(c)
    holds, err := h.Holds.Holds(ctx, sid)
    if err != nil {
        return dbError(c, err)
    }
    if err := h.Holds.Release(ctx, sid); err != nil {
        return dbError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{"released": len(holds)})
}
