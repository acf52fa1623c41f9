package availability

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/iliyamo/hotel-booking/internal/model"
)

func newTestResolver(catalog memCatalog, store *memStore, holds HoldCounter) *Resolver {
    now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
    return NewResolver(catalog, NewLedger(store), holds).WithClock(func() time.Time { return now })
}

func TestFindAvailableRooms_HoldsAndBookings(t *testing.T) {
    catalog := memCatalog{1: {room(7, 10, "100")}}
    store := &memStore{bookings: []model.Booking{booking(7, "2025-03-09", "2025-03-11", 3)}}
    r := newTestResolver(catalog, store, heldUnits{7: 2})

    f := Filters{CheckIn: day("2025-03-10"), CheckOut: day("2025-03-12"), NumOfRooms: 6}
    got, err := r.FindAvailableRooms(context.Background(), 1, "me", f)
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if len(got) != 0 {
        t.Fatalf("6 units must not fit into 10-3-2, got %+v", got)
    }

    f.NumOfRooms = 5
    got, err = r.FindAvailableRooms(context.Background(), 1, "me", f)
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if len(got) != 1 || got[0].AvailableRooms != 5 {
        t.Fatalf("expected one candidate with 5 units, got %+v", got)
    }
}

func TestFindAvailableRooms_NeverNegative(t *testing.T) {
    catalog := memCatalog{1: {room(7, 4, "100")}}
    store := &memStore{bookings: []model.Booking{booking(7, "2025-03-10", "2025-03-12", 3)}}
    r := newTestResolver(catalog, store, heldUnits{7: 5})

    c, ok, err := r.resolve(context.Background(), catalog[1][0], Filters{CheckIn: day("2025-03-10"), CheckOut: day("2025-03-11"), NumOfRooms: 1})
    if err != nil || !ok {
        t.Fatalf("unexpected resolve result ok=%v err=%v", ok, err)
    }
    if c.AvailableRooms != 1 {
        t.Fatalf("expected 1 unit before holds, got %d", c.AvailableRooms)
    }
    got, err := r.FindAvailableRooms(context.Background(), 1, "me", Filters{CheckIn: day("2025-03-10"), CheckOut: day("2025-03-11"), NumOfRooms: 1})
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if len(got) != 0 {
        t.Fatalf("expected no candidates, got %+v", got)
    }

    over := &memStore{bookings: []model.Booking{booking(7, "2025-03-10", "2025-03-12", 9)}}
    c, _, _ = newTestResolver(catalog, over, nil).resolve(context.Background(), catalog[1][0], Filters{CheckIn: day("2025-03-10"), CheckOut: day("2025-03-11"), NumOfRooms: 1})
    if c.AvailableRooms != 0 {
        t.Fatalf("expected availability floored at 0, got %d", c.AvailableRooms)
    }
}

func TestFindAvailableRooms_RanksByEffectivePrice(t *testing.T) {
    cheapByDefault := room(1, 5, "80")
    pricey := room(2, 5, "120")
    mid := room(3, 5, "100")
    surge := override(1, "2025-03-10")
    surge.Price = moneyPtr("200")
    catalog := memCatalog{1: {cheapByDefault, pricey, mid}}
    store := &memStore{overrides: []model.InventoryOverride{surge}}
    r := newTestResolver(catalog, store, nil)

    got, err := r.FindAvailableRooms(context.Background(), 1, "", Filters{CheckIn: day("2025-03-10"), CheckOut: day("2025-03-11")})
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if len(got) != 3 {
        t.Fatalf("expected 3 candidates, got %d", len(got))
    }
    wantOrder := []uint64{3, 2, 1} // 100, 120, (200+80)/2=140
    for i, id := range wantOrder {
        if got[i].RoomType.ID != id {
            t.Fatalf("position %d: expected room %d, got %d", i, id, got[i].RoomType.ID)
        }
    }
    if !got[2].EffectivePrice.Equal(money("140")) {
        t.Fatalf("expected 140, got %s", got[2].EffectivePrice)
    }
}

func TestFindAvailableRooms_ExclusionRules(t *testing.T) {
    blackedOut := room(1, 5, "100")
    unpriced := room(2, 5, "0")
    unverified := room(3, 5, "100")
    unverified.IsVerified = false
    deleted := room(4, 5, "100")
    deleted.Status = model.StatusDeleted
    small := room(5, 5, "100")
    small.AdultCapacity = 1
    limited := room(6, 5, "100")
    ok := room(7, 5, "100")

    closed := override(1, "2025-03-11")
    closed.IsActive = false
    cap1 := override(6, "2025-03-10")
    cap1.AvailableRooms = intPtr(1)

    catalog := memCatalog{1: {blackedOut, unpriced, unverified, deleted, small, limited, ok}}
    store := &memStore{overrides: []model.InventoryOverride{closed, cap1}}
    r := newTestResolver(catalog, store, nil)

    got, err := r.FindAvailableRooms(context.Background(), 1, "", Filters{
        CheckIn: day("2025-03-10"), CheckOut: day("2025-03-11"), NumOfRooms: 2, NumOfAdults: 3, NumOfChildren: 2,
    })
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if len(got) != 1 || got[0].RoomType.ID != 7 {
        t.Fatalf("expected only room 7, got %+v", got)
    }
}

func TestFindAvailableRooms_Filters(t *testing.T) {
    catalog := memCatalog{1: {room(1, 5, "50"), room(2, 5, "100"), room(3, 5, "150")}}
    r := newTestResolver(catalog, &memStore{}, nil)

    got, err := r.FindAvailableRooms(context.Background(), 1, "", Filters{MinPrice: moneyPtr("60"), MaxPrice: moneyPtr("140")})
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if len(got) != 1 || got[0].RoomType.ID != 2 {
        t.Fatalf("expected room 2 only, got %+v", got)
    }
    got, _ = r.FindAvailableRooms(context.Background(), 1, "", Filters{RoomTypeID: 3})
    if len(got) != 1 || got[0].RoomType.ID != 3 {
        t.Fatalf("expected room 3 only, got %+v", got)
    }
}

func TestFindAvailableRooms_InvalidRequests(t *testing.T) {
    r := newTestResolver(memCatalog{}, &memStore{}, nil)
    cases := []Filters{
        {CheckIn: day("2025-03-12"), CheckOut: day("2025-03-10")},
        {NumOfRooms: -1},
        {NumOfAdults: -2},
    }
    for i, f := range cases {
        if _, err := r.FindAvailableRooms(context.Background(), 1, "", f); !errors.Is(err, ErrInvalidRange) {
            t.Fatalf("case %d: expected ErrInvalidRange, got %v", i, err)
        }
    }
}

func TestFilters_NormalizeDefaultsToToday(t *testing.T) {
    now := time.Date(2025, 3, 1, 22, 30, 0, 0, time.UTC)
    f := Filters{CheckIn: day("2025-03-05")}
    if err := f.Normalize(now); err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if !f.CheckIn.Equal(day("2025-03-01")) || !f.CheckOut.Equal(day("2025-03-01")) {
        t.Fatalf("expected both dates to default to today, got %s..%s", f.CheckIn, f.CheckOut)
    }
    if f.NumOfRooms != 1 {
        t.Fatalf("expected one room by default, got %d", f.NumOfRooms)
    }
}

func TestFindAvailableRooms_StayLengthIsBounded(t *testing.T) {
    catalog := memCatalog{1: {room(1, 5, "100"), room(2, 5, "120"), room(3, 5, "140")}}
    r := newTestResolver(catalog, &memStore{}, nil)
    ancient := time.Date(1000, 1, 1, 0, 0, 0, 0, time.UTC)
    far := time.Date(9999, 12, 31, 0, 0, 0, 0, time.UTC)
    cases := map[string]Filters{
        "millennia":      {CheckIn: ancient, CheckOut: far},
        "one night over": {CheckIn: day("2025-03-10"), CheckOut: day("2025-03-10").AddDate(0, 0, MaxStayNights+1)},
        "before min":     {CheckIn: MinDate.AddDate(0, 0, -1), CheckOut: MinDate},
    }
    for name, f := range cases {
        if _, err := r.FindAvailableRooms(context.Background(), 1, "", f); !errors.Is(err, ErrInvalidRange) {
            t.Fatalf("%s: expected ErrInvalidRange, got %v", name, err)
        }
    }
    got, err := r.FindAvailableRooms(context.Background(), 1, "", Filters{CheckIn: day("2025-03-10"), CheckOut: day("2025-03-10").AddDate(0, 0, MaxStayNights)})
    if err != nil || len(got) != 3 {
        t.Fatalf("longest allowed stay: got %d candidates, err %v", len(got), err)
    }
}

func TestParseDate_RejectsDatesBeforeMin(t *testing.T) {
    for _, s := range []string{"0001-01-01", "1000-01-01", "1999-12-31"} {
        if _, err := ParseDate(s); !errors.Is(err, ErrDateOutOfRange) {
            t.Fatalf("%s: expected ErrDateOutOfRange, got %v", s, err)
        }
    }
    if d, err := ParseDate("2000-01-01"); err != nil || !d.Equal(MinDate) {
        t.Fatalf("2000-01-01: got %s, %v", d, err)
    }
}

func TestCheapestPerProperty(t *testing.T) {
    catalog := memCatalog{
        1: {room(1, 5, "120"), room(2, 5, "90")},
        2: {room(3, 0, "50")},
    }
    r := newTestResolver(catalog, &memStore{}, nil)
    got, err := r.CheapestPerProperty(context.Background(), []uint64{1, 2}, "", Filters{})
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if len(got) != 1 {
        t.Fatalf("expected one property with availability, got %d", len(got))
    }
    if got[1].RoomType.ID != 2 {
        t.Fatalf("expected cheapest room 2, got %d", got[1].RoomType.ID)
    }
}

func TestCheapestPerProperty_ManyPropertiesAndBadRange(t *testing.T) {
    catalog := memCatalog{}
    var ids []uint64
    for id := uint64(1); id <= 20; id++ {
        rt := room(id, 2, "100")
        rt.PropertyID = id
        catalog[id] = []model.RoomType{rt}
        ids = append(ids, id)
    }
    r := newTestResolver(catalog, &memStore{}, nil)
    got, err := r.CheapestPerProperty(context.Background(), ids, "", Filters{})
    if err != nil {
        t.Fatalf("unexpected error: %v", err)
    }
    if len(got) != len(ids) {
        t.Fatalf("expected %d properties, got %d", len(ids), len(got))
    }
    for id, c := range got {
        if c.RoomType.PropertyID != id {
            t.Fatalf("property %d mapped to room of property %d", id, c.RoomType.PropertyID)
        }
    }

    _, err = r.CheapestPerProperty(context.Background(), nil, "", Filters{CheckIn: day("2025-03-05"), CheckOut: day("2025-03-01")})
    if !errors.Is(err, ErrInvalidRange) {
        t.Fatalf("expected ErrInvalidRange, got %v", err)
    }
}
