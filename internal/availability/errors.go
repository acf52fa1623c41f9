// Package availability resolves which room types can satisfy a stay
// request and at what price.  It combines confirmed bookings, owner
// inventory overrides and other shoppers' session holds, and evaluates
// tiered cancellation policies.  The package only reads; writes to
// bookings and overrides happen in the repository layer.
package availability

import "errors"

// ErrInvalidRange is returned when check-out precedes check-in, the stay is
// longer than MaxStayNights or the requested unit count is not positive.
// Handlers translate it into 400.
var ErrInvalidRange = errors.New("invalid date range or room count")

// ErrDateOutOfRange is returned by ParseDate for dates before MinDate.
var ErrDateOutOfRange = errors.New("date out of range")

// ErrUnresolvablePrice marks a room type whose nightly price cannot be
// computed for some date in the stay.  The resolver drops such room types
// instead of failing the request.
var ErrUnresolvablePrice = errors.New("unresolvable price")
