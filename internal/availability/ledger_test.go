package availability

import (
    "context"
    "errors"
    "testing"

    "github.com/iliyamo/hotel-booking/internal/model"
)

func TestTotalBooked(t *testing.T) {
    cancelled := booking(1, "2025-03-01", "2025-03-20", 7)
    cancelled.IsCancel = true
    unconfirmed := booking(1, "2025-03-01", "2025-03-20", 9)
    unconfirmed.BookStatus = false
    bookings := []model.Booking{
        booking(1, "2025-03-09", "2025-03-11", 2), // overlaps start
        booking(1, "2025-03-12", "2025-03-14", 3), // inside
        booking(1, "2025-03-14", "2025-03-18", 1), // overlaps end
        booking(1, "2025-03-01", "2025-03-05", 4), // before
        booking(1, "2025-03-16", "2025-03-19", 5), // after
        booking(2, "2025-03-10", "2025-03-15", 6), // other room type
        cancelled,
        unconfirmed,
    }
    got := TotalBooked(bookings, 1, day("2025-03-10"), day("2025-03-15"))
    if got != 6 {
        t.Fatalf("expected 6 booked units, got %d", got)
    }
}

func TestTotalBooked_BoundaryTouching(t *testing.T) {
    bookings := []model.Booking{
        booking(1, "2025-03-05", "2025-03-10", 2), // check-out == start
        booking(1, "2025-03-15", "2025-03-17", 3), // check-in == end
        booking(1, "2025-03-01", "2025-03-09", 4), // ends the day before
    }
    if got := TotalBooked(bookings, 1, day("2025-03-10"), day("2025-03-15")); got != 5 {
        t.Fatalf("expected boundary-touching stays to count (5), got %d", got)
    }
}

func TestMinAvailableOverPeriod(t *testing.T) {
    a := override(1, "2025-03-10")
    a.AvailableRooms = intPtr(4)
    b := override(1, "2025-03-11")
    b.AvailableRooms = intPtr(2)
    priceOnly := override(1, "2025-03-12")
    priceOnly.Price = moneyPtr("80")
    inactive := override(1, "2025-03-12")
    inactive.IsActive = false
    inactive.AvailableRooms = intPtr(0)
    outside := override(1, "2025-03-20")
    outside.AvailableRooms = intPtr(1)

    got := MinAvailableOverPeriod([]model.InventoryOverride{a, b, priceOnly, inactive, outside}, 1, day("2025-03-10"), day("2025-03-12"))
    if got == nil || *got != 2 {
        t.Fatalf("expected min 2, got %v", got)
    }
    if got := MinAvailableOverPeriod([]model.InventoryOverride{priceOnly}, 1, day("2025-03-10"), day("2025-03-12")); got != nil {
        t.Fatalf("expected nil without availability overrides, got %d", *got)
    }
}

func TestHasBlackout(t *testing.T) {
    closed := override(1, "2025-03-11")
    closed.IsActive = false
    deleted := override(1, "2025-03-12")
    deleted.IsActive = false
    deleted.Status = model.StatusDeleted

    if !HasBlackout([]model.InventoryOverride{closed}, 1, day("2025-03-10"), day("2025-03-12")) {
        t.Fatalf("expected blackout")
    }
    if HasBlackout([]model.InventoryOverride{deleted}, 1, day("2025-03-10"), day("2025-03-12")) {
        t.Fatalf("deleted override must not black out")
    }
    if HasBlackout([]model.InventoryOverride{closed}, 1, day("2025-03-12"), day("2025-03-14")) {
        t.Fatalf("blackout outside range must be ignored")
    }
}

func TestLedger_RejectsInvertedRange(t *testing.T) {
    l := NewLedger(&memStore{})
    if _, err := l.TotalBooked(context.Background(), 1, day("2025-03-10"), day("2025-03-09")); !errors.Is(err, ErrInvalidRange) {
        t.Fatalf("expected ErrInvalidRange, got %v", err)
    }
}
