package availability

import (
    "strings"
    "time"
)

// DateLayout is the wire format of check_in_date / check_out_date.
const DateLayout = "2006-01-02"

// MaxStayNights bounds the stay a search or booking may ask for.  Prices
// and availability are resolved day by day, so the span must stay small.
const MaxStayNights = 90

// MinDate is the earliest date accepted from clients.  The zero time means
// "not given" throughout the package, so parsed dates never reach it.
var MinDate = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// DateOf truncates t to midnight UTC of its calendar date.
func DateOf(t time.Time) time.Time {
    y, m, d := t.Date()
    return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a UTC date.  Dates before
// MinDate are rejected with ErrDateOutOfRange.
func ParseDate(s string) (time.Time, error) {
    t, err := time.Parse(DateLayout, strings.TrimSpace(s))
    if err != nil {
        return time.Time{}, err
    }
    if t.Before(MinDate) {
        return time.Time{}, ErrDateOutOfRange
    }
    return DateOf(t), nil
}

// CheckStay validates a requested stay: both dates on or after MinDate,
// check-out not before check-in and at most MaxStayNights nights.
func CheckStay(checkIn, checkOut time.Time) error {
    checkIn, checkOut = DateOf(checkIn), DateOf(checkOut)
    if checkIn.Before(MinDate) || checkOut.Before(checkIn) {
        return ErrInvalidRange
    }
    if checkOut.Sub(checkIn) > MaxStayNights*24*time.Hour {
        return ErrInvalidRange
    }
    return nil
}

// Days returns every calendar date in [start, end], both ends included.
// It returns nil when start is after end.
func Days(start, end time.Time) []time.Time {
    start, end = DateOf(start), DateOf(end)
    if start.After(end) {
        return nil
    }
    var out []time.Time
    for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
        out = append(out, d)
    }
    return out
}

// Nights counts billable nights between check-in and check-out.  A same-day
// stay is billed as one night.
func Nights(checkIn, checkOut time.Time) int {
    n := int(DateOf(checkOut).Sub(DateOf(checkIn)).Hours() / 24)
    if n < 1 {
        return 1
    }
    return n
}

func validRange(start, end time.Time) error {
    if DateOf(start).After(DateOf(end)) {
        return ErrInvalidRange
    }
    return nil
}
