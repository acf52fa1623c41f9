package hold

import (
    "context"
    "errors"
    "sort"
    "time"

    "github.com/iliyamo/hotel-booking/internal/model"
)

// DefaultTTL is how long a hold lives when no TTL is configured.
const DefaultTTL = 60 * time.Second

// Tracker places and reads session holds with a fixed TTL.  It satisfies
// availability.HoldCounter.
type Tracker struct {
    store Store
    ttl   time.Duration
    now   func() time.Time
}

func NewTracker(store Store, ttl time.Duration) *Tracker {
    if ttl <= 0 {
        ttl = DefaultTTL
    }
    return &Tracker{store: store, ttl: ttl, now: time.Now}
}

// WithClock replaces the clock used for expiry; tests use it to step time.
func (t *Tracker) WithClock(now func() time.Time) *Tracker {
    t.now = now
    return t
}

// TTL is the lifetime given to new holds.
func (t *Tracker) TTL() time.Duration { return t.ttl }

// PlaceHold holds units of every room type for the session.  The request is
// all or nothing: if any room type is already held by the session an
// *AlreadyHeldError is returned and no hold is created.  Duplicate ids are
// collapsed.
func (t *Tracker) PlaceHold(ctx context.Context, sessionID string, roomTypeIDs []uint64, units int) ([]model.SessionHold, error) {
    if sessionID == "" {
        return nil, ErrNoSession
    }
    ids := dedupe(roomTypeIDs)
    if len(ids) == 0 || units < 1 {
        return nil, ErrInvalidHold
    }
    now := t.now().UTC()
    expiresAt := now.Add(t.ttl)
    if err := t.store.Place(ctx, sessionID, ids, units, expiresAt, now); err != nil {
        var held *AlreadyHeldError
        if errors.As(err, &held) {
            HoldsRejected.Inc()
        }
        return nil, err
    }
    HoldsPlaced.Add(float64(len(ids)))
    out := make([]model.SessionHold, len(ids))
    for i, id := range ids {
        out[i] = model.SessionHold{SessionID: sessionID, RoomTypeID: id, Units: units, ExpiresAt: expiresAt}
    }
    return out, nil
}

// Holds returns the live holds of a session.
func (t *Tracker) Holds(ctx context.Context, sessionID string) ([]model.SessionHold, error) {
    if sessionID == "" {
        return nil, nil
    }
    return t.store.Active(ctx, sessionID, t.now().UTC())
}

// UnitsHeldByOthers sums live units of roomTypeID held by sessions other
// than sessionID.
func (t *Tracker) UnitsHeldByOthers(ctx context.Context, sessionID string, roomTypeID uint64) (int, error) {
    return t.store.UnitsHeldByOthers(ctx, sessionID, roomTypeID, t.now().UTC())
}

// Release drops the session's holds on roomTypeIDs, or all of its holds.
func (t *Tracker) Release(ctx context.Context, sessionID string, roomTypeIDs ...uint64) error {
    if sessionID == "" {
        return nil
    }
    return t.store.Release(ctx, sessionID, roomTypeIDs...)
}

func dedupe(ids []uint64) []uint64 {
    seen := make(map[uint64]struct{}, len(ids))
    out := make([]uint64, 0, len(ids))
    for _, id := range ids {
        if id == 0 {
            continue
        }
        if _, ok := seen[id]; ok {
            continue
        }
        seen[id] = struct{}{}
        out = append(out, id)
    }
    sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
    return out
}
