package availability

import (
    "sort"
    "strings"
    "time"

    "github.com/shopspring/decimal"

    "github.com/iliyamo/hotel-booking/internal/model"
)

var checkInLayouts = []string{"3:04 PM", "3:04PM", "03:04 PM", "15:04", "15:04:05"}

// ParseCheckInTime parses a posted check-in time such as "12:00 PM" or
// "14:00" and returns minutes after midnight.
func ParseCheckInTime(s string) (int, bool) {
    s = strings.ToUpper(strings.TrimSpace(s))
    for _, layout := range checkInLayouts {
        if t, err := time.Parse(layout, s); err == nil {
            return t.Hour()*60 + t.Minute(), true
        }
    }
    return 0, false
}

// DaysBeforeCheckIn counts whole calendar days from now's date to checkIn.
// It is negative once the check-in date has passed.
func DaysBeforeCheckIn(checkIn, now time.Time) int {
    return int(DateOf(checkIn).Sub(DateOf(now)).Hours() / 24)
}

// ChargePercentage returns the non-refundable percentage of a booking
// cancelled daysBeforeCheckIn days ahead.  When now's wall-clock time is
// past the property's check-in time, the day counts as used and
// daysBeforeCheckIn is reduced by one.  The first tier (by ascending
// CancellationDays) covering the adjusted value applies; if none does, the
// tier with the largest CancellationDays applies.  No tiers means no charge.
func ChargePercentage(policies []model.CancellationPolicy, daysBeforeCheckIn int, checkInTime string, now time.Time) int {
    if len(policies) == 0 {
        return 0
    }
    days := daysBeforeCheckIn
    if cutoff, ok := ParseCheckInTime(checkInTime); ok && now.Hour()*60+now.Minute() > cutoff {
        days--
    }
    sorted := make([]model.CancellationPolicy, len(policies))
    copy(sorted, policies)
    sort.SliceStable(sorted, func(i, j int) bool {
        return sorted[i].CancellationDays < sorted[j].CancellationDays
    })
    for _, p := range sorted {
        if p.CancellationDays >= days {
            return clampPercent(p.CancellationPercent)
        }
    }
    return clampPercent(sorted[len(sorted)-1].CancellationPercent)
}

// RefundAmount is the refundable part of amount given a charge percentage.
func RefundAmount(amount decimal.Decimal, chargePercent int) decimal.Decimal {
    keep := decimal.NewFromInt(int64(100 - clampPercent(chargePercent)))
    return amount.Mul(keep).Div(decimal.NewFromInt(100)).Round(2)
}

func clampPercent(p int) int {
    switch {
    case p < 0:
        return 0
    case p > 100:
        return 100
    }
    return p
}
