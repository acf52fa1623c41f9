package hold

import (
    "context"
    "time"

    "github.com/iliyamo/hotel-booking/internal/model"
)

// Store persists session holds.  Implementations must treat a hold whose
// ExpiresAt is not after now as absent, and may purge it when they see it.
type Store interface {
    // Place stores a hold of units for every room type, all or nothing.  If
    // any room type already has a live hold in the session it returns an
    // *AlreadyHeldError and stores nothing.
    Place(ctx context.Context, sessionID string, roomTypeIDs []uint64, units int, expiresAt, now time.Time) error
    // Active returns the live holds of a session.
    Active(ctx context.Context, sessionID string, now time.Time) ([]model.SessionHold, error)
    // UnitsHeldByOthers sums live units held on roomTypeID by every session
    // except sessionID.
    UnitsHeldByOthers(ctx context.Context, sessionID string, roomTypeID uint64, now time.Time) (int, error)
    // Release drops the session's holds on the given room types, or all of
    // them when none are given.
    Release(ctx context.Context, sessionID string, roomTypeIDs ...uint64) error
}
