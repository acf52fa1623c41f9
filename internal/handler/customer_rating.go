package handler

import (
    "context"
    "errors"
    "net/http"
    "strings"
    "time"
    "unicode/utf8"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/hotel-booking/internal/availability"
    "github.com/iliyamo/hotel-booking/internal/model"
    "github.com/iliyamo/hotel-booking/internal/repository"
)

const maxRatingComment = 1000

// RatingStore persists guest ratings; *repository.RatingRepo satisfies it.
type RatingStore interface {
    Create(ctx context.Context, r *model.Rating) error
    ListByProperty(ctx context.Context, propertyID uint64) ([]model.Rating, error)
    Summary(ctx context.Context, propertyID uint64) (model.RatingSummary, error)
}

// PublicPropertyGetter loads a property visible to guests.
type PublicPropertyGetter interface {
    GetPublic(ctx context.Context, id uint64) (*model.Property, error)
}

// RatingHandler lets customers rate finished stays and guests read them.
type RatingHandler struct {
    Ratings    RatingStore
    Bookings   CustomerBookings
    Properties PublicPropertyGetter
    now        func() time.Time
}

func NewRatingHandler(ratings RatingStore, bookings CustomerBookings, properties PublicPropertyGetter) *RatingHandler {
    if ratings == nil || bookings == nil || properties == nil {
        panic("nil dependency passed to NewRatingHandler")
    }
    return &RatingHandler{Ratings: ratings, Bookings: bookings, Properties: properties, now: time.Now}
}

// WithClock replaces the clock deciding whether a stay has ended.
func (h *RatingHandler) WithClock(now func() time.Time) *RatingHandler {
    h.now = now
    return h
}

type ratingBody struct {
    Score   int     `json:"score"`
    Comment *string `json:"comment"`
}

// Rate handles POST /v1/bookings/:id/rating.  Only the guest of a
// confirmed, uncancelled booking may rate it, once, from the check-out
// date on.
func (h *RatingHandler) Rate(c echo.Context) error {
    userID, err := getUserID(c)
    if err != nil {
        return unauthorized(c, err)
    }
    id, ok := pathID(c, "id")
    if !ok {
        return badRequest(c, "invalid booking id")
    }
    var body ratingBody
    if err := c.Bind(&body); err != nil {
        return badRequest(c, "invalid request body")
    }
    if body.Score < model.MinRatingScore || body.Score > model.MaxRatingScore {
        return badRequest(c, "score must be between 1 and 5")
    }
    if body.Comment != nil {
        s := strings.TrimSpace(*body.Comment)
        if utf8.RuneCountInString(s) > maxRatingComment {
            return badRequest(c, "comment is too long")
        }
        body.Comment = &s
        if s == "" {
            body.Comment = nil
        }
    }

    ctx := c.Request().Context()
    b, err := h.Bookings.GetForUser(ctx, id, userID)
    if err != nil {
        return bookingError(c, err)
    }
    if !b.ConsumesInventory() {
        return c.JSON(http.StatusConflict, echo.Map{"error": "only confirmed stays can be rated"})
    }
    if availability.DateOf(h.now().UTC()).Before(b.CheckOut) {
        return c.JSON(http.StatusConflict, echo.Map{"error": "stay has not ended yet"})
    }
    r := &model.Rating{BookingID: b.ID, UserID: userID, PropertyID: b.PropertyID, Score: body.Score, Comment: body.Comment}
    if err := h.Ratings.Create(ctx, r); err != nil {
        if isDuplicate(err) || errors.Is(err, repository.ErrConflict) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "booking already rated"})
        }
        return dbError(c, err)
    }
    return c.JSON(http.StatusCreated, r)
}

// PropertyRatings handles GET /v1/properties/:id/ratings.
func (h *RatingHandler) PropertyRatings(c echo.Context) error {
    id, ok := pathID(c, "id")
    if !ok {
        return badRequest(c, "invalid property id")
    }
    ctx := c.Request().Context()
    if _, err := h.Properties.GetPublic(ctx, id); err != nil {
        if errors.Is(err, repository.ErrPropertyNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
        }
        return dbError(c, err)
    }
    sum, err := h.Ratings.Summary(ctx, id)
    if err != nil {
        return dbError(c, err)
    }
    list, err := h.Ratings.ListByProperty(ctx, id)
    if err != nil {
        return dbError(c, err)
    }
    return c.JSON(http.StatusOK, echo.Map{
        "property_id": id,
        "count":       sum.Count,
        "average":     sum.Average.StringFixed(2),
        "ratings":     list,
    })
}
