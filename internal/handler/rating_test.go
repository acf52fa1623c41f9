package handler

import (
    "context"
    "net/http"
    "testing"

    "github.com/go-sql-driver/mysql"
    "github.com/shopspring/decimal"

    "github.com/iliyamo/hotel-booking/internal/model"
)

// ratingStore keeps ratings in memory and rejects a second rating of the
// same booking the way the unique key on ratings.booking_id does.
type ratingStore struct {
    list []model.Rating
}

func (s *ratingStore) Create(_ context.Context, r *model.Rating) error {
    for _, existing := range s.list {
        if existing.BookingID == r.BookingID {
            return &mysql.MySQLError{Number: mysqlDuplicateKey, Message: "Duplicate entry"}
        }
    }
    r.ID = uint64(len(s.list) + 1)
    r.CreatedAt = testNow
    s.list = append(s.list, *r)
    return nil
}

func (s *ratingStore) ListByProperty(_ context.Context, propertyID uint64) ([]model.Rating, error) {
    out := []model.Rating{}
    for i := len(s.list) - 1; i >= 0; i-- {
        if s.list[i].PropertyID == propertyID {
            out = append(out, s.list[i])
        }
    }
    return out, nil
}

func (s *ratingStore) Summary(_ context.Context, propertyID uint64) (model.RatingSummary, error) {
    var sum model.RatingSummary
    total := 0
    for _, r := range s.list {
        if r.PropertyID == propertyID {
            sum.Count++
            total += r.Score
        }
    }
    if sum.Count > 0 {
        sum.Average = decimal.NewFromInt(int64(total)).Div(decimal.NewFromInt(int64(sum.Count))).Round(2)
    }
    return sum, nil
}

func ratingServer(w *world, store *ratingStore) *echoServer {
    h := NewRatingHandler(store, bookings{w}, publicProperties{w}).WithClock(clock())
    e := newEcho()
    e.GET("/v1/properties/:id/ratings", h.PropertyRatings)
    g := e.Group("/v1", asUser(7))
    g.POST("/bookings/:id/rating", h.Rate)
    return &echoServer{e}
}

// stays returns a world with one property and bookings of user 7:
// 1 finished, 2 still upcoming, 3 finished but cancelled.
func stays() *world {
    w := newWorld()
    w.addProperty(1, 100, "Lisbon")
    w.addRoom(1, 1, 4, "100")
    add := func(id uint64, in, out string, cancelled bool) {
        b := booking(1, in, out, 1)
        b.ID, b.UserID, b.PropertyID, b.IsCancel = id, 7, 1, cancelled
        w.bookings = append(w.bookings, b)
    }
    add(1, "2025-02-20", "2025-02-22", false)
    add(2, "2025-03-10", "2025-03-12", false)
    add(3, "2025-02-10", "2025-02-12", true)
    return w
}

func TestRate_FinishedStayOnce(t *testing.T) {
    store := &ratingStore{}
    srv := ratingServer(stays(), store)

    rec := srv.do(http.MethodPost, "/v1/bookings/1/rating", "", `{"score":4,"comment":"  quiet room  "}`)
    if rec.Code != http.StatusCreated {
        t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
    }
    var got model.Rating
    decode(t, rec.Body.Bytes(), &got)
    if got.BookingID != 1 || got.UserID != 7 || got.PropertyID != 1 || got.Score != 4 {
        t.Fatalf("rating = %+v", got)
    }
    if got.Comment == nil || *got.Comment != "quiet room" {
        t.Fatalf("comment = %v, want trimmed text", got.Comment)
    }

    if rec := srv.do(http.MethodPost, "/v1/bookings/1/rating", "", `{"score":5}`); rec.Code != http.StatusConflict {
        t.Fatalf("second rating: status = %d, want 409", rec.Code)
    }
    if len(store.list) != 1 {
        t.Fatalf("stored %d ratings, want 1", len(store.list))
    }
}

func TestRate_Rejections(t *testing.T) {
    cases := []struct {
        name   string
        target string
        body   string
        want   int
    }{
        {"score too low", "/v1/bookings/1/rating", `{"score":0}`, http.StatusBadRequest},
        {"score too high", "/v1/bookings/1/rating", `{"score":6}`, http.StatusBadRequest},
        {"bad id", "/v1/bookings/x/rating", `{"score":3}`, http.StatusBadRequest},
        {"someone else's booking", "/v1/bookings/9/rating", `{"score":3}`, http.StatusNotFound},
        {"stay not over", "/v1/bookings/2/rating", `{"score":3}`, http.StatusConflict},
        {"cancelled", "/v1/bookings/3/rating", `{"score":3}`, http.StatusConflict},
    }
    for _, tc := range cases {
        store := &ratingStore{}
        srv := ratingServer(stays(), store)
        if rec := srv.do(http.MethodPost, tc.target, "", tc.body); rec.Code != tc.want {
            t.Errorf("%s: status = %d, want %d (body %s)", tc.name, rec.Code, tc.want, rec.Body)
        }
        if len(store.list) != 0 {
            t.Errorf("%s: nothing should be stored", tc.name)
        }
    }
}

func TestPropertyRatings_SummaryAndList(t *testing.T) {
    w := stays()
    w.addProperty(2, 100, "Porto")
    store := &ratingStore{list: []model.Rating{
        {ID: 1, BookingID: 10, PropertyID: 1, Score: 5},
        {ID: 2, BookingID: 11, PropertyID: 1, Score: 4},
        {ID: 3, BookingID: 12, PropertyID: 1, Score: 4},
        {ID: 4, BookingID: 13, PropertyID: 2, Score: 1},
    }}
    srv := ratingServer(w, store)

    rec := srv.do(http.MethodGet, "/v1/properties/1/ratings", "", "")
    if rec.Code != http.StatusOK {
        t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
    }
    var resp struct {
        Count   int            `json:"count"`
        Average string         `json:"average"`
        Ratings []model.Rating `json:"ratings"`
    }
    decode(t, rec.Body.Bytes(), &resp)
    if resp.Count != 3 || resp.Average != "4.33" || len(resp.Ratings) != 3 {
        t.Fatalf("resp = %+v", resp)
    }
    if resp.Ratings[0].ID != 3 {
        t.Fatalf("expected newest first, got id %d", resp.Ratings[0].ID)
    }

    w.addProperty(3, 100, "Faro")
    rec = srv.do(http.MethodGet, "/v1/properties/3/ratings", "", "")
    decode(t, rec.Body.Bytes(), &resp)
    if rec.Code != http.StatusOK || resp.Count != 0 || resp.Average != "0.00" || len(resp.Ratings) != 0 {
        t.Fatalf("unrated property: status %d, resp %+v", rec.Code, resp)
    }

    if rec := srv.do(http.MethodGet, "/v1/properties/42/ratings", "", ""); rec.Code != http.StatusNotFound {
        t.Fatalf("unknown property: status = %d, want 404", rec.Code)
    }
}
