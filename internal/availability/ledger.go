package availability

import (
    "context"
    "time"

    "github.com/shopspring/decimal"

    "github.com/iliyamo/hotel-booking/internal/model"
)

// Store is the read side of the bookings and inventory_overrides tables.
// The MySQL repository implements it for both *sql.DB and *sql.Tx so the
// same ledger can run inside the booking-confirmation transaction.
type Store interface {
    // BookedUnits sums units of confirmed, non-cancelled bookings of the
    // room type whose stay overlaps [start, end] inclusively.
    BookedUnits(ctx context.Context, roomTypeID uint64, start, end time.Time) (int, error)
    // Overrides returns every non-deleted override of the room type dated
    // within [start, end].  Inactive rows are included; they mark blackouts.
    Overrides(ctx context.Context, roomTypeID uint64, start, end time.Time) ([]model.InventoryOverride, error)
}

// Ledger answers occupancy questions for a room type over a date range.
type Ledger struct {
    store Store
}

// NewLedger returns a Ledger reading from store.
func NewLedger(store Store) *Ledger { return &Ledger{store: store} }

// Snapshot is everything the ledger knows about one room type for one
// date range, loaded with two queries.
type Snapshot struct {
    RoomTypeID uint64
    Start      time.Time
    End        time.Time
    Booked     int
    Overrides  []model.InventoryOverride
}

// Snapshot loads booked units and overrides for the range.
func (l *Ledger) Snapshot(ctx context.Context, roomTypeID uint64, start, end time.Time) (Snapshot, error) {
    if err := validRange(start, end); err != nil {
        return Snapshot{}, err
    }
    start, end = DateOf(start), DateOf(end)
    booked, err := l.store.BookedUnits(ctx, roomTypeID, start, end)
    if err != nil {
        return Snapshot{}, err
    }
    ovs, err := l.store.Overrides(ctx, roomTypeID, start, end)
    if err != nil {
        return Snapshot{}, err
    }
    return Snapshot{RoomTypeID: roomTypeID, Start: start, End: end, Booked: booked, Overrides: ovs}, nil
}

// TotalBooked returns the units consumed by confirmed bookings in range.
func (l *Ledger) TotalBooked(ctx context.Context, roomTypeID uint64, start, end time.Time) (int, error) {
    if err := validRange(start, end); err != nil {
        return 0, err
    }
    return l.store.BookedUnits(ctx, roomTypeID, DateOf(start), DateOf(end))
}

// MinAvailableOverPeriod returns the smallest overridden unit count in the
// range, or nil when no day carries an availability override.
func (l *Ledger) MinAvailableOverPeriod(ctx context.Context, roomTypeID uint64, start, end time.Time) (*int, error) {
    s, err := l.Snapshot(ctx, roomTypeID, start, end)
    if err != nil {
        return nil, err
    }
    return MinAvailableOverPeriod(s.Overrides, roomTypeID, s.Start, s.End), nil
}

// HasBlackout reports whether any day in range is explicitly closed.
func (l *Ledger) HasBlackout(ctx context.Context, roomTypeID uint64, start, end time.Time) (bool, error) {
    s, err := l.Snapshot(ctx, roomTypeID, start, end)
    if err != nil {
        return false, err
    }
    return HasBlackout(s.Overrides, roomTypeID, s.Start, s.End), nil
}

// EffectivePrice resolves the average nightly price of room over the range.
func (l *Ledger) EffectivePrice(ctx context.Context, room model.RoomType, start, end time.Time) (decimal.Decimal, error) {
    s, err := l.Snapshot(ctx, room.ID, start, end)
    if err != nil {
        return decimal.Zero, err
    }
    return EffectivePrice(room, s.Overrides, s.Start, s.End)
}

// TotalBooked sums NumOfRooms over bookings of roomTypeID that consume
// inventory and overlap [start, end]: CheckOut >= start and CheckIn <= end.
// A booking checking out on start therefore still counts.
func TotalBooked(bookings []model.Booking, roomTypeID uint64, start, end time.Time) int {
    start, end = DateOf(start), DateOf(end)
    total := 0
    for _, b := range bookings {
        if b.RoomTypeID != roomTypeID || !b.ConsumesInventory() {
            continue
        }
        if DateOf(b.CheckOut).Before(start) || DateOf(b.CheckIn).After(end) {
            continue
        }
        total += b.NumOfRooms
    }
    return total
}

// MinAvailableOverPeriod returns the minimum AvailableRooms across live
// overrides of roomTypeID dated within [start, end].  Overrides without an
// availability value are ignored.  A nil result means "use base capacity".
func MinAvailableOverPeriod(overrides []model.InventoryOverride, roomTypeID uint64, start, end time.Time) *int {
    var min *int
    for _, o := range inRange(overrides, roomTypeID, start, end) {
        if !o.Live() || o.AvailableRooms == nil {
            continue
        }
        if min == nil || *o.AvailableRooms < *min {
            v := *o.AvailableRooms
            min = &v
        }
    }
    return min
}

// HasBlackout reports whether a non-deleted, inactive override exists for
// roomTypeID on any date within [start, end].
func HasBlackout(overrides []model.InventoryOverride, roomTypeID uint64, start, end time.Time) bool {
    for _, o := range inRange(overrides, roomTypeID, start, end) {
        if o.Blackout() {
            return true
        }
    }
    return false
}

func inRange(overrides []model.InventoryOverride, roomTypeID uint64, start, end time.Time) []model.InventoryOverride {
    start, end = DateOf(start), DateOf(end)
    out := make([]model.InventoryOverride, 0, len(overrides))
    for _, o := range overrides {
        if o.RoomTypeID != roomTypeID {
            continue
        }
        d := DateOf(o.Date)
        if d.Before(start) || d.After(end) {
            continue
        }
        out = append(out, o)
    }
    return out
}
