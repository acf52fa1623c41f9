package availability

import (
    "context"
    "time"

    "github.com/shopspring/decimal"

    "github.com/iliyamo/hotel-booking/internal/model"
)

type memStore struct {
    bookings  []model.Booking
    overrides []model.InventoryOverride
}

func (m *memStore) BookedUnits(_ context.Context, roomTypeID uint64, start, end time.Time) (int, error) {
    return TotalBooked(m.bookings, roomTypeID, start, end), nil
}

func (m *memStore) Overrides(_ context.Context, roomTypeID uint64, start, end time.Time) ([]model.InventoryOverride, error) {
    var out []model.InventoryOverride
    for _, o := range inRange(m.overrides, roomTypeID, start, end) {
        if o.Status.IsActive() {
            out = append(out, o)
        }
    }
    return out, nil
}

type memCatalog map[uint64][]model.RoomType

func (m memCatalog) RoomTypesByProperty(_ context.Context, propertyID uint64) ([]model.RoomType, error) {
    return m[propertyID], nil
}

type heldUnits map[uint64]int

func (h heldUnits) UnitsHeldByOthers(_ context.Context, _ string, roomTypeID uint64) (int, error) {
    return h[roomTypeID], nil
}

func day(s string) time.Time {
    d, err := ParseDate(s)
    if err != nil {
        panic(err)
    }
    return d
}

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func moneyPtr(s string) *decimal.Decimal {
    d := money(s)
    return &d
}

func intPtr(n int) *int { return &n }

func room(id uint64, rooms int, price string) model.RoomType {
    return model.RoomType{
        ID:               id,
        PropertyID:       1,
        Name:             "room",
        AdultCapacity:    2,
        ChildrenCapacity: 1,
        DefaultPrice:     money(price),
        NumOfRooms:       rooms,
        IsVerified:       true,
        IsAvailable:      true,
        Status:           model.StatusActive,
    }
}

func booking(roomTypeID uint64, in, out string, units int) model.Booking {
    return model.Booking{
        RoomTypeID: roomTypeID,
        CheckIn:    day(in),
        CheckOut:   day(out),
        NumOfRooms: units,
        BookStatus: true,
    }
}

func override(roomTypeID uint64, date string) model.InventoryOverride {
    return model.InventoryOverride{
        RoomTypeID: roomTypeID,
        Date:       day(date),
        IsActive:   true,
        Status:     model.StatusActive,
    }
}
