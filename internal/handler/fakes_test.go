package handler

import (
    "context"
    "net/http"
    "net/http/httptest"
    "strings"
    "time"

    "github.com/labstack/echo/v4"
    "github.com/shopspring/decimal"

    "github.com/iliyamo/hotel-booking/internal/availability"
    "github.com/iliyamo/hotel-booking/internal/middleware"
    "github.com/iliyamo/hotel-booking/internal/model"
    "github.com/iliyamo/hotel-booking/internal/repository"
)

const (
    sessionA = "6f1c2a9e-3b7d-4c5e-9a01-2b3c4d5e6f70"
    sessionB = "0a9b8c7d-6e5f-4a3b-8c2d-1e0f9a8b7c6d"
)

var testNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

// world is an in-memory hotel catalogue shared by the fakes below.
type world struct {
    properties map[uint64]model.Property
    rooms      map[uint64]model.RoomType
    bookings   []model.Booking
    overrides  []model.InventoryOverride
    policies   map[uint64][]model.CancellationPolicy
    deleteErr  error
    purged     []string
}

func newWorld() *world {
    return &world{
        properties: map[uint64]model.Property{},
        rooms:      map[uint64]model.RoomType{},
        policies:   map[uint64][]model.CancellationPolicy{},
    }
}

func (w *world) addProperty(id, owner uint64, city string) {
    w.properties[id] = model.Property{ID: id, OwnerID: owner, Name: "Hotel " + city, City: city, CheckInTime: "12:00 PM", IsVerified: true, Status: model.StatusActive}
}

func (w *world) addRoom(id, propertyID uint64, units int, price string) {
    w.rooms[id] = model.RoomType{
        ID: id, PropertyID: propertyID, Name: "room", AdultCapacity: 2, ChildrenCapacity: 1,
        DefaultPrice: decimal.RequireFromString(price), NumOfRooms: units,
        IsVerified: true, IsAvailable: true, Status: model.StatusActive,
    }
}

// availability.Catalog and availability.Store

func (w *world) RoomTypesByProperty(_ context.Context, propertyID uint64) ([]model.RoomType, error) {
    var out []model.RoomType
    for id := uint64(1); id <= uint64(len(w.rooms))+10; id++ {
        if rt, ok := w.rooms[id]; ok && rt.PropertyID == propertyID {
            out = append(out, rt)
        }
    }
    return out, nil
}

func (w *world) BookedUnits(_ context.Context, roomTypeID uint64, start, end time.Time) (int, error) {
    return availability.TotalBooked(w.bookings, roomTypeID, start, end), nil
}

func (w *world) Overrides(_ context.Context, roomTypeID uint64, start, end time.Time) ([]model.InventoryOverride, error) {
    var out []model.InventoryOverride
    for _, o := range w.overrides {
        if o.RoomTypeID == roomTypeID && !o.Date.Before(start) && !o.Date.After(end) {
            out = append(out, o)
        }
    }
    return out, nil
}

// public lookups

type publicProperties struct{ *world }

func (p publicProperties) SearchVerified(_ context.Context, city string) ([]model.Property, error) {
    var out []model.Property
    for id := uint64(1); id <= 10; id++ {
        if prop, ok := p.properties[id]; ok && prop.IsVerified && (city == "" || strings.EqualFold(city, prop.City)) {
            out = append(out, prop)
        }
    }
    return out, nil
}

func (p publicProperties) GetPublic(_ context.Context, id uint64) (*model.Property, error) {
    prop, ok := p.properties[id]
    if !ok || !prop.IsVerified {
        return nil, repository.ErrPropertyNotFound
    }
    return &prop, nil
}

type roomTypes struct{ *world }

func (r roomTypes) ListActiveByProperty(ctx context.Context, propertyID uint64) ([]model.RoomType, error) {
    return r.RoomTypesByProperty(ctx, propertyID)
}

func (r roomTypes) GetByID(_ context.Context, id uint64) (*model.RoomType, error) {
    rt, ok := r.rooms[id]
    if !ok {
        return nil, repository.ErrRoomTypeNotFound
    }
    return &rt, nil
}

// owner stores

type ownerProperties struct{ *world }

func (o ownerProperties) Create(_ context.Context, p *model.Property) error {
    p.ID = uint64(len(o.properties) + 1)
    p.Status = model.StatusActive
    o.properties[p.ID] = *p
    return nil
}

func (o ownerProperties) GetOwned(_ context.Context, id, ownerID uint64) (*model.Property, error) {
    p, ok := o.properties[id]
    if !ok {
        return nil, repository.ErrPropertyNotFound
    }
    if p.OwnerID != ownerID {
        return nil, repository.ErrForbidden
    }
    return &p, nil
}

func (o ownerProperties) ListByOwner(_ context.Context, ownerID uint64) ([]model.Property, error) {
    var out []model.Property
    for _, p := range o.properties {
        if p.OwnerID == ownerID {
            out = append(out, p)
        }
    }
    return out, nil
}

func (o ownerProperties) Update(_ context.Context, p *model.Property) error {
    o.properties[p.ID] = *p
    return nil
}

func (o ownerProperties) SoftDelete(ctx context.Context, id, ownerID uint64, _ string) error {
    if _, err := o.GetOwned(ctx, id, ownerID); err != nil {
        return err
    }
    if o.deleteErr != nil {
        return o.deleteErr
    }
    delete(o.properties, id)
    return nil
}

type ownerRooms struct{ *world }

func (o ownerRooms) Create(_ context.Context, ownerID uint64, rt *model.RoomType) error {
    p, ok := o.properties[rt.PropertyID]
    if !ok {
        return repository.ErrPropertyNotFound
    }
    if p.OwnerID != ownerID {
        return repository.ErrForbidden
    }
    rt.ID = uint64(len(o.rooms) + 1)
    rt.Status = model.StatusActive
    o.rooms[rt.ID] = *rt
    return nil
}

func (o ownerRooms) GetOwned(_ context.Context, id, ownerID uint64) (*model.RoomType, error) {
    rt, ok := o.rooms[id]
    if !ok {
        return nil, repository.ErrRoomTypeNotFound
    }
    if o.properties[rt.PropertyID].OwnerID != ownerID {
        return nil, repository.ErrForbidden
    }
    return &rt, nil
}

func (o ownerRooms) ListActiveByProperty(ctx context.Context, propertyID uint64) ([]model.RoomType, error) {
    return o.RoomTypesByProperty(ctx, propertyID)
}

func (o ownerRooms) Update(_ context.Context, _ uint64, rt *model.RoomType) error {
    o.rooms[rt.ID] = *rt
    return nil
}

func (o ownerRooms) SoftDelete(_ context.Context, id, _ uint64, _ string) error {
    delete(o.rooms, id)
    return nil
}

type inventory struct {
    *world
    lastPatch repository.OverridePatch
}

func (i *inventory) List(ctx context.Context, roomTypeID uint64, start, end time.Time) ([]model.InventoryOverride, error) {
    return i.Overrides(ctx, roomTypeID, start, end)
}

func (i *inventory) Upsert(_ context.Context, roomTypeID uint64, start, end time.Time, patch repository.OverridePatch) error {
    i.lastPatch = patch
    for _, d := range availability.Days(start, end) {
        i.overrides = append(i.overrides, model.InventoryOverride{
            RoomTypeID: roomTypeID, Date: d, Price: patch.Price, AvailableRooms: patch.AvailableRooms,
            IsActive: patch.IsActive, Status: model.StatusActive,
        })
    }
    return nil
}

func (i *inventory) Delete(_ context.Context, roomTypeID uint64, start, end time.Time) (int64, error) {
    var kept []model.InventoryOverride
    var n int64
    for _, o := range i.overrides {
        if o.RoomTypeID == roomTypeID && !o.Date.Before(start) && !o.Date.After(end) {
            n++
            continue
        }
        kept = append(kept, o)
    }
    i.overrides = kept
    return n, nil
}

type policies struct{ *world }

func (p policies) ListByProperty(_ context.Context, propertyID uint64) ([]model.CancellationPolicy, error) {
    out := p.policies[propertyID]
    if out == nil {
        out = []model.CancellationPolicy{}
    }
    return out, nil
}

func (p policies) Replace(_ context.Context, propertyID, ownerID uint64, tiers []model.CancellationPolicy) error {
    prop, ok := p.properties[propertyID]
    if !ok {
        return repository.ErrPropertyNotFound
    }
    if prop.OwnerID != ownerID {
        return repository.ErrForbidden
    }
    p.policies[propertyID] = tiers
    return nil
}

type bookings struct{ *world }

func (b bookings) ListByUser(_ context.Context, userID uint64) ([]model.Booking, error) {
    var out []model.Booking
    for _, bk := range b.world.bookings {
        if bk.UserID == userID {
            out = append(out, bk)
        }
    }
    return out, nil
}

func (b bookings) GetForUser(_ context.Context, id, userID uint64) (*model.Booking, error) {
    for _, bk := range b.world.bookings {
        if bk.ID == id && bk.UserID == userID {
            return &bk, nil
        }
    }
    return nil, repository.ErrBookingNotFound
}

func (b bookings) ListByProperty(_ context.Context, propertyID uint64) ([]model.Booking, error) {
    var out []model.Booking
    for _, bk := range b.world.bookings {
        if bk.PropertyID == propertyID {
            out = append(out, bk)
        }
    }
    return out, nil
}

func (w *world) Purge(_ context.Context, paths ...string) error {
    w.purged = append(w.purged, paths...)
    return nil
}

// asUser stands in for JWTAuth by storing the user id the way it does.
func asUser(id uint64) echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            c.Set("user_id", id)
            return next(c)
        }
    }
}

func newEcho() *echo.Echo {
    e := echo.New()
    e.Use(middleware.ShopperSession())
    return e
}

type echoServer struct{ *echo.Echo }

func (s *echoServer) do(method, target, session, body string) *httptest.ResponseRecorder {
    var req *http.Request
    if body != "" {
        req = httptest.NewRequest(method, target, strings.NewReader(body))
        req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
    } else {
        req = httptest.NewRequest(method, target, nil)
    }
    if session != "" {
        req.Header.Set(middleware.SessionHeader, session)
    }
    rec := httptest.NewRecorder()
    s.ServeHTTP(rec, req)
    return rec
}

func booking(roomTypeID uint64, in, out string, units int) model.Booking {
    checkIn, _ := availability.ParseDate(in)
    checkOut, _ := availability.ParseDate(out)
    return model.Booking{
        RoomTypeID: roomTypeID, PropertyID: 1, CheckIn: checkIn, CheckOut: checkOut,
        NumOfRooms: units, BookStatus: true, Amount: decimal.NewFromInt(100),
    }
}
