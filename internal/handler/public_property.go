package handler

import (
    "context"
    "errors"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"

    "github.com/iliyamo/hotel-booking/internal/availability"
    "github.com/iliyamo/hotel-booking/internal/middleware"
    "github.com/iliyamo/hotel-booking/internal/model"
    "github.com/iliyamo/hotel-booking/internal/repository"
)

var searchResults = promauto.NewHistogram(prometheus.HistogramOpts{
    Name:    "property_search_results",
    Help:    "Number of properties with availability returned per search",
    Buckets: prometheus.ExponentialBuckets(1, 2, 8),
})

// PropertyFinder reads the public property catalogue.
type PropertyFinder interface {
    SearchVerified(ctx context.Context, city string) ([]model.Property, error)
    GetPublic(ctx context.Context, id uint64) (*model.Property, error)
}

// RoomTypeLister lists the room types of a property.
type RoomTypeLister interface {
    ListActiveByProperty(ctx context.Context, propertyID uint64) ([]model.RoomType, error)
}

// RoomResolver resolves bookable room types; *availability.Resolver
// satisfies it.
type RoomResolver interface {
    FindAvailableRooms(ctx context.Context, propertyID uint64, sessionID string, f availability.Filters) ([]availability.RoomCandidate, error)
    CheapestPerProperty(ctx context.Context, propertyIDs []uint64, sessionID string, f availability.Filters) (map[uint64]availability.RoomCandidate, error)
}

// PublicHandler serves guest browsing and search.  No authentication is
// required; the shopper session scopes hold accounting.
type PublicHandler struct {
    Properties PropertyFinder
    RoomTypes  RoomTypeLister
    Resolver   RoomResolver
}

func NewPublicHandler(properties PropertyFinder, roomTypes RoomTypeLister, resolver RoomResolver) *PublicHandler {
    if properties == nil || roomTypes == nil || resolver == nil {
        panic("nil dependency passed to NewPublicHandler")
    }
    return &PublicHandler{Properties: properties, RoomTypes: roomTypes, Resolver: resolver}
}

type searchResult struct {
    propertyView
    RoomInventory candidateView `json:"room_inventory"`
}

// SearchProperties handles GET /v1/properties.  It returns every verified
// property (optionally in ?city=) that can satisfy the availability
// filters, each with its cheapest qualifying room as room_inventory.
// Properties without a candidate are omitted.
func (h *PublicHandler) SearchProperties(c echo.Context) error {
    f, err := parseFilters(c)
    if err != nil {
        return badRequest(c, err.Error())
    }
    ctx := c.Request().Context()
    props, err := h.Properties.SearchVerified(ctx, strings.TrimSpace(c.QueryParam("city")))
    if err != nil {
        return dbError(c, err)
    }
    ids := make([]uint64, 0, len(props))
    for _, p := range props {
        ids = append(ids, p.ID)
    }
    cheapest, err := h.Resolver.CheapestPerProperty(ctx, ids, middleware.SessionID(c), f)
    if errors.Is(err, availability.ErrInvalidRange) {
        return badRequest(c, "check_out_date must not be before check_in_date")
    }
    if err != nil {
        return dbError(c, err)
    }
    out := make([]searchResult, 0, len(cheapest))
    for _, p := range props {
        cand, ok := cheapest[p.ID]
        if !ok {
            continue
        }
        out = append(out, searchResult{propertyView: toPropertyView(p), RoomInventory: toCandidateView(cand)})
    }
    searchResults.Observe(float64(len(out)))
    return c.JSON(http.StatusOK, echo.Map{"data": out, "total": len(out)})
}

// GetProperty handles GET /v1/properties/:id.  It returns the static
// listing with its bookable room types; availability is not resolved so
// the response can be cached.
func (h *PublicHandler) GetProperty(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return badRequest(c, "invalid property id")
    }
    ctx := c.Request().Context()
    p, err := h.Properties.GetPublic(ctx, id)
    if errors.Is(err, repository.ErrPropertyNotFound) {
        return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
    }
    if err != nil {
        return dbError(c, err)
    }
    rooms, err := h.RoomTypes.ListActiveByProperty(ctx, id)
    if err != nil {
        return dbError(c, err)
    }
    views := make([]roomTypeView, 0, len(rooms))
    for _, rt := range rooms {
        if rt.Bookable() {
            views = append(views, toRoomTypeView(rt))
        }
    }
    return c.JSON(http.StatusOK, echo.Map{"property": toPropertyView(*p), "room_types": views})
}

// PropertyRooms handles GET /v1/properties/:id/rooms.  It returns every
// room type that can satisfy the filters, cheapest first.  An empty list
// means nothing is available for the request.
func (h *PublicHandler) PropertyRooms(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return badRequest(c, "invalid property id")
    }
    f, err := parseFilters(c)
    if err != nil {
        return badRequest(c, err.Error())
    }
    ctx := c.Request().Context()
    if _, err := h.Properties.GetPublic(ctx, id); err != nil {
        if errors.Is(err, repository.ErrPropertyNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
        }
        return dbError(c, err)
    }
    cands, err := h.Resolver.FindAvailableRooms(ctx, id, middleware.SessionID(c), f)
    if errors.Is(err, availability.ErrInvalidRange) {
        return badRequest(c, "check_out_date must not be before check_in_date")
    }
    if err != nil {
        return dbError(c, err)
    }
    out := make([]candidateView, 0, len(cands))
    for _, cand := range cands {
        out = append(out, toCandidateView(cand))
    }
    resp := echo.Map{"property_id": id, "rooms": out}
    if len(out) == 0 {
        resp["message"] = "no rooms available for the selected dates"
    }
    return c.JSON(http.StatusOK, resp)
}
