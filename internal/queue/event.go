// Package queue defines message payloads exchanged over the message broker
// and the background consumer that records them.
package queue

// Queue names.  Each event type has its own durable queue on the default
// exchange.
const (
    BookingConfirmedQueue = "booking.confirmed"
    BookingCancelledQueue = "booking.cancelled"
)

// BookingEvent is published after a booking is confirmed or cancelled.  It
// carries enough detail for downstream consumers to log, notify, or
// trigger analytics without querying the primary database.  Money is sent
// as a fixed two-decimal string.
type BookingEvent struct {
    Type          string  `json:"type"`
    BookingID     uint64  `json:"booking_id"`
    UserID        uint64  `json:"user_id"`
    PropertyID    uint64  `json:"property_id"`
    PropertyName  string  `json:"property_name"`
    RoomTypeID    uint64  `json:"room_type_id"`
    RoomTypeName  string  `json:"room_type_name"`
    CheckIn       string  `json:"check_in"`
    CheckOut      string  `json:"check_out"`
    NumOfRooms    int     `json:"num_of_rooms"`
    Amount        string  `json:"amount"`
    ChargePercent *int    `json:"charge_percent,omitempty"`
    RefundAmount  *string `json:"refund_amount,omitempty"`
    OccurredAt    string  `json:"occurred_at"`
}
