package model

// CancellationPolicy is one tier of a property's cancellation schedule.
// CancellationPercent is the non-refundable share charged when the booking
// is cancelled CancellationDays or fewer days before check-in.
type CancellationPolicy struct {
    ID                  uint64 `json:"id"`
    PropertyID          uint64 `json:"property_id"`
    CancellationDays    int    `json:"cancellation_days"`
    CancellationPercent int    `json:"cancellation_percents"`
}
