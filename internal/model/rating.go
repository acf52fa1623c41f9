package model

import (
    "time"

    "github.com/shopspring/decimal"
)

// Rating is a guest's score for a completed stay.  A booking can be rated
// once; the property is copied from the booking so listings need no join.
type Rating struct {
    ID         uint64    `json:"id"`
    BookingID  uint64    `json:"booking_id"`
    UserID     uint64    `json:"user_id"`
    PropertyID uint64    `json:"property_id"`
    Score      int       `json:"score"`
    Comment    *string   `json:"comment,omitempty"`
    CreatedAt  time.Time `json:"created_at"`
}

// Rating bounds.
const (
    MinRatingScore = 1
    MaxRatingScore = 5
)

// RatingSummary aggregates the ratings of one property.
type RatingSummary struct {
    Count   int
    Average decimal.Decimal
}
