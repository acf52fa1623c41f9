package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// Booking records a confirmed stay.  It consumes NumOfRooms units of the
// room type for every date from CheckIn through CheckOut while BookStatus
// is true and IsCancel is false.  Apart from the cancellation transition
// a booking is immutable.
//
// Fields:
//  ID                  – primary key identifier.
//  UserID              – customer who booked.
//  PropertyID          – property of the room type (denormalised for listing).
//  RoomTypeID          – booked room type.
//  CheckIn / CheckOut  – stay dates (UTC midnight).
//  NumOfRooms          – units consumed.
//  NumOfAdults         – adults in the party.
//  NumOfChildren       – children in the party.
//  Amount              – total charged.
//  BookStatus          – confirmation flag.
//  IsCancel            – cancellation flag.
//  CancellationCharge  – charge percentage applied on cancellation (nullable).
//  RefundAmount        – amount refunded on cancellation (nullable).
//  CancelledAt         – when the booking was cancelled (nullable).
type Booking struct {
    ID                 uint64           // bookings.id
    UserID             uint64           // bookings.user_id
    PropertyID         uint64           // bookings.property_id
    RoomTypeID         uint64           // bookings.room_type_id
    CheckIn            time.Time        // bookings.check_in
    CheckOut           time.Time        // bookings.check_out
    NumOfRooms         int              // bookings.num_of_rooms
    NumOfAdults        int              // bookings.num_of_adults
    NumOfChildren      int              // bookings.num_of_children
    Amount             decimal.Decimal  // bookings.amount
    BookStatus         bool             // bookings.book_status
    IsCancel           bool             // bookings.is_cancel
    CancellationCharge *int             // bookings.cancellation_charge (nullable)
    RefundAmount       *decimal.Decimal // bookings.refund_amount (nullable)
    CancelledAt        *time.Time       // bookings.cancelled_at (nullable)
    CreatedAt          time.Time        // bookings.created_at
}

// ConsumesInventory reports whether the booking counts against availability.
func (b Booking) ConsumesInventory() bool { return b.BookStatus && !b.IsCancel }
