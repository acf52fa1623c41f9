package handler

import (
    "context"
    "errors"
    "net/http"
    "strconv"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-booking/internal/model"
    "github.com/iliyamo/hotel-booking/internal/repository"
)

// PropertyStore is the owner-facing property persistence.
type PropertyStore interface {
    Create(ctx context.Context, p *model.Property) error
    GetOwned(ctx context.Context, id, ownerID uint64) (*model.Property, error)
    ListByOwner(ctx context.Context, ownerID uint64) ([]model.Property, error)
    Update(ctx context.Context, p *model.Property) error
    SoftDelete(ctx context.Context, id, ownerID uint64, today string) error
}

// RoomTypeStore is the owner-facing room type persistence.
type RoomTypeStore interface {
    Create(ctx context.Context, ownerID uint64, rt *model.RoomType) error
    GetOwned(ctx context.Context, id, ownerID uint64) (*model.RoomType, error)
    ListActiveByProperty(ctx context.Context, propertyID uint64) ([]model.RoomType, error)
    Update(ctx context.Context, ownerID uint64, rt *model.RoomType) error
    SoftDelete(ctx context.Context, id, ownerID uint64, today string) error
}

// InventoryStore manages per-date overrides.
type InventoryStore interface {
    List(ctx context.Context, roomTypeID uint64, start, end time.Time) ([]model.InventoryOverride, error)
    Upsert(ctx context.Context, roomTypeID uint64, start, end time.Time, patch repository.OverridePatch) error
    Delete(ctx context.Context, roomTypeID uint64, start, end time.Time) (int64, error)
}

// PolicyStore manages cancellation tiers.
type PolicyStore interface {
    ListByProperty(ctx context.Context, propertyID uint64) ([]model.CancellationPolicy, error)
    Replace(ctx context.Context, propertyID, ownerID uint64, tiers []model.CancellationPolicy) error
}

// PropertyBookings lists the bookings of a property.
type PropertyBookings interface {
    ListByProperty(ctx context.Context, propertyID uint64) ([]model.Booking, error)
}

// CachePurger drops cached public responses; *middleware.ResponseCache
// satisfies it.
type CachePurger interface {
    Purge(ctx context.Context, paths ...string) error
}

// OwnerHandler bundles the stores owners use to manage their listings.
type OwnerHandler struct {
    Properties PropertyStore
    RoomTypes  RoomTypeStore
    Inventory  InventoryStore
    Policies   PolicyStore
    Bookings   PropertyBookings
    Cache      CachePurger // optional
    now        func() time.Time
}

// NewOwnerHandler constructs a new OwnerHandler and panics if any store is nil.
func NewOwnerHandler(properties PropertyStore, roomTypes RoomTypeStore, inventory InventoryStore, policies PolicyStore, bookings PropertyBookings) *OwnerHandler {
    if properties == nil || roomTypes == nil || inventory == nil || policies == nil || bookings == nil {
        panic("nil repository passed to NewOwnerHandler")
    }
    return &OwnerHandler{
        Properties: properties,
        RoomTypes:  roomTypes,
        Inventory:  inventory,
        Policies:   policies,
        Bookings:   bookings,
        now:        time.Now,
    }
}

// WithCache makes writes purge the cached public detail of the property.
func (h *OwnerHandler) WithCache(cache CachePurger) *OwnerHandler {
    h.Cache = cache
    return h
}

// WithClock replaces the clock used for "today" checks.
func (h *OwnerHandler) WithClock(now func() time.Time) *OwnerHandler {
    h.now = now
    return h
}

func (h *OwnerHandler) today() string {
    return h.now().UTC().Format("2006-01-02")
}

// purgeProperty drops the cached public views of a property.  Failures are
// logged; the cache entry expires on its own.
func (h *OwnerHandler) purgeProperty(c echo.Context, propertyID uint64) {
    if h.Cache == nil {
        return
    }
    base := "/v1/properties/" + strconv.FormatUint(propertyID, 10)
    if err := h.Cache.Purge(c.Request().Context(), base, base+"/rooms"); err != nil {
        c.Logger().Warnf("cache purge for property %d: %v", propertyID, err)
    }
}

func unauthorized(c echo.Context, err error) error {
    return c.JSON(http.StatusUnauthorized, echo.Map{"error": err.Error()})
}

// ownerError maps repository errors of owner operations to responses.
func ownerError(c echo.Context, err error) error {
    switch {
    case errors.Is(err, repository.ErrPropertyNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
    case errors.Is(err, repository.ErrRoomTypeNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "room type not found"})
    case errors.Is(err, repository.ErrForbidden):
        return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
    case errors.Is(err, repository.ErrConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": "confirmed bookings still reference this resource"})
    }
    return dbError(c, err)
}
