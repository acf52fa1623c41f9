// Package hold tracks short-lived, per-session reservations of room units
// placed while a shopper is in checkout.  Holds expire by timestamp and are
// purged lazily whenever they are read.
package hold

import (
    "errors"
    "fmt"
    "strconv"
    "strings"
)

var (
    // ErrAlreadyHeld is wrapped by *AlreadyHeldError.
    ErrAlreadyHeld = errors.New("room already held in this session")
    // ErrNoSession is returned when a hold is requested without a session id.
    ErrNoSession = errors.New("missing shopper session")
    // ErrInvalidHold is returned for an empty room list or a non-positive unit count.
    ErrInvalidHold = errors.New("invalid hold request")
)

// AlreadyHeldError lists the room types that already carry a live hold in
// the caller's session.  Nothing is placed when it is returned.
type AlreadyHeldError struct {
    RoomTypeIDs []uint64
}

func (e *AlreadyHeldError) Error() string {
    ids := make([]string, len(e.RoomTypeIDs))
    for i, id := range e.RoomTypeIDs {
        ids[i] = strconv.FormatUint(id, 10)
    }
    return fmt.Sprintf("%s: %s", ErrAlreadyHeld, strings.Join(ids, ","))
}

func (e *AlreadyHeldError) Unwrap() error { return ErrAlreadyHeld }
