package availability

import (
    "context"
    "errors"
    "sort"
    "sync"
    "time"

    "github.com/shopspring/decimal"
    "golang.org/x/sync/errgroup"

    "github.com/iliyamo/hotel-booking/internal/model"
)

// Catalog lists the room types of a property, including unverified and
// deleted ones; the resolver applies the gates itself.
type Catalog interface {
    RoomTypesByProperty(ctx context.Context, propertyID uint64) ([]model.RoomType, error)
}

// HoldCounter reports units of a room type held by sessions other than
// sessionID.  Expired holds must not be counted.
type HoldCounter interface {
    UnitsHeldByOthers(ctx context.Context, sessionID string, roomTypeID uint64) (int, error)
}

// Filters narrows a search.  Zero CheckIn or CheckOut means "today" for
// both; zero NumOfRooms means one unit.
type Filters struct {
    RoomTypeID    uint64
    MinPrice      *decimal.Decimal
    MaxPrice      *decimal.Decimal
    CheckIn       time.Time
    CheckOut      time.Time
    NumOfRooms    int
    NumOfAdults   int
    NumOfChildren int
}

// Normalize applies defaults relative to now and validates the request.
func (f *Filters) Normalize(now time.Time) error {
    if f.CheckIn.IsZero() || f.CheckOut.IsZero() {
        today := DateOf(now)
        f.CheckIn, f.CheckOut = today, today
    }
    f.CheckIn, f.CheckOut = DateOf(f.CheckIn), DateOf(f.CheckOut)
    if err := CheckStay(f.CheckIn, f.CheckOut); err != nil {
        return err
    }
    if f.NumOfRooms == 0 {
        f.NumOfRooms = 1
    }
    if f.NumOfRooms < 0 || f.NumOfAdults < 0 || f.NumOfChildren < 0 {
        return ErrInvalidRange
    }
    return nil
}

// RoomCandidate is a room type that can satisfy the request, with the
// availability and price resolved for the requested stay.
type RoomCandidate struct {
    RoomType         model.RoomType
    AvailableRooms   int
    AdjustedMinRooms int
    EffectivePrice   decimal.Decimal
}

// BookableUnits is the unit count the request is checked against.
func (c RoomCandidate) BookableUnits() int {
    if c.AdjustedMinRooms < c.AvailableRooms {
        return c.AdjustedMinRooms
    }
    return c.AvailableRooms
}

// Resolver combines the catalog, the ledger and session holds into a
// ranked list of bookable room types.
type Resolver struct {
    catalog Catalog
    ledger  *Ledger
    holds   HoldCounter
    now     func() time.Time
}

// NewResolver wires a Resolver.  holds may be nil, in which case session
// holds are not considered.
func NewResolver(catalog Catalog, ledger *Ledger, holds HoldCounter) *Resolver {
    return &Resolver{catalog: catalog, ledger: ledger, holds: holds, now: time.Now}
}

// WithClock replaces the clock used to default missing dates.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
    r.now = now
    return r
}

// FindAvailableRooms returns every room type of the property that can
// satisfy f, cheapest first.  sessionID identifies the caller so that its
// own holds are not subtracted from availability.
func (r *Resolver) FindAvailableRooms(ctx context.Context, propertyID uint64, sessionID string, f Filters) ([]RoomCandidate, error) {
    if err := f.Normalize(r.now()); err != nil {
        return nil, err
    }
    rooms, err := r.catalog.RoomTypesByProperty(ctx, propertyID)
    if err != nil {
        return nil, err
    }
    candidates := make([]RoomCandidate, 0, len(rooms))
    for _, room := range rooms {
        if !selectable(room, f) {
            continue
        }
        c, ok, err := r.resolve(ctx, room, f)
        if err != nil {
            return nil, err
        }
        if ok {
            candidates = append(candidates, c)
        }
    }
    sort.SliceStable(candidates, func(i, j int) bool {
        if cmp := candidates[i].EffectivePrice.Cmp(candidates[j].EffectivePrice); cmp != 0 {
            return cmp < 0
        }
        return candidates[i].RoomType.ID < candidates[j].RoomType.ID
    })
    out := candidates[:0]
    for _, c := range candidates {
        if r.holds != nil {
            held, err := r.holds.UnitsHeldByOthers(ctx, sessionID, c.RoomType.ID)
            if err != nil {
                return nil, err
            }
            c.AvailableRooms = floor0(c.AvailableRooms - held)
        }
        if !satisfies(c, f) {
            continue
        }
        out = append(out, c)
    }
    return out, nil
}

// searchConcurrency bounds how many properties are resolved at once.
const searchConcurrency = 8

// CheapestPerProperty resolves each property and keeps its first (cheapest)
// candidate.  Properties with no candidate are absent from the result.
// Properties are resolved concurrently, so the catalog, the ledger store and
// the hold counter must be safe for concurrent use.
func (r *Resolver) CheapestPerProperty(ctx context.Context, propertyIDs []uint64, sessionID string, f Filters) (map[uint64]RoomCandidate, error) {
    if err := f.Normalize(r.now()); err != nil {
        return nil, err
    }
    var (
        mu  sync.Mutex
        out = make(map[uint64]RoomCandidate, len(propertyIDs))
    )
    g, gctx := errgroup.WithContext(ctx)
    g.SetLimit(searchConcurrency)
    for _, id := range propertyIDs {
        g.Go(func() error {
            cs, err := r.FindAvailableRooms(gctx, id, sessionID, f)
            if err != nil {
                return err
            }
            if len(cs) > 0 {
                mu.Lock()
                out[id] = cs[0]
                mu.Unlock()
            }
            return nil
        })
    }
    if err := g.Wait(); err != nil {
        return nil, err
    }
    return out, nil
}

func (r *Resolver) resolve(ctx context.Context, room model.RoomType, f Filters) (RoomCandidate, bool, error) {
    snap, err := r.ledger.Snapshot(ctx, room.ID, f.CheckIn, f.CheckOut)
    if err != nil {
        return RoomCandidate{}, false, err
    }
    if HasBlackout(snap.Overrides, room.ID, snap.Start, snap.End) {
        return RoomCandidate{}, false, nil
    }
    price, err := EffectivePrice(room, snap.Overrides, snap.Start, snap.End)
    if errors.Is(err, ErrUnresolvablePrice) {
        return RoomCandidate{}, false, nil
    }
    if err != nil {
        return RoomCandidate{}, false, err
    }
    adjusted := room.NumOfRooms
    if min := MinAvailableOverPeriod(snap.Overrides, room.ID, snap.Start, snap.End); min != nil {
        adjusted = *min
    }
    return RoomCandidate{
        RoomType:         room,
        AvailableRooms:   floor0(room.NumOfRooms - snap.Booked),
        AdjustedMinRooms: floor0(adjusted),
        EffectivePrice:   price,
    }, true, nil
}

func selectable(room model.RoomType, f Filters) bool {
    if !room.Bookable() {
        return false
    }
    if f.RoomTypeID != 0 && room.ID != f.RoomTypeID {
        return false
    }
    if f.MinPrice != nil && room.DefaultPrice.LessThan(*f.MinPrice) {
        return false
    }
    if f.MaxPrice != nil && room.DefaultPrice.GreaterThan(*f.MaxPrice) {
        return false
    }
    return true
}

func satisfies(c RoomCandidate, f Filters) bool {
    if c.BookableUnits() < f.NumOfRooms {
        return false
    }
    if c.RoomType.AdultCapacity*f.NumOfRooms < f.NumOfAdults {
        return false
    }
    if c.RoomType.ChildrenCapacity*f.NumOfRooms < f.NumOfChildren {
        return false
    }
    return true
}

func floor0(n int) int {
    if n < 0 {
        return 0
    }
    return n
}
