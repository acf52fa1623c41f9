package service

import (
    "context"
    "errors"
    "testing"
    "time"

    "github.com/shopspring/decimal"

    "github.com/iliyamo/hotel-booking/internal/availability"
    "github.com/iliyamo/hotel-booking/internal/model"
    "github.com/iliyamo/hotel-booking/internal/queue"
    "github.com/iliyamo/hotel-booking/internal/repository"
)

type fakeTx struct {
    rooms     map[uint64]model.RoomType
    property  model.Property
    policies  []model.CancellationPolicy
    bookings  []model.Booking
    overrides []model.InventoryOverride
    locked    []uint64
}

func (f *fakeTx) BookedUnits(_ context.Context, roomTypeID uint64, start, end time.Time) (int, error) {
    return availability.TotalBooked(f.bookings, roomTypeID, start, end), nil
}

func (f *fakeTx) Overrides(_ context.Context, roomTypeID uint64, start, end time.Time) ([]model.InventoryOverride, error) {
    var out []model.InventoryOverride
    for _, o := range f.overrides {
        if o.RoomTypeID == roomTypeID && !o.Date.Before(start) && !o.Date.After(end) {
            out = append(out, o)
        }
    }
    return out, nil
}

func (f *fakeTx) LockRoomType(_ context.Context, id uint64) (*model.RoomType, error) {
    rt, ok := f.rooms[id]
    if !ok {
        return nil, repository.ErrRoomTypeNotFound
    }
    f.locked = append(f.locked, id)
    return &rt, nil
}

func (f *fakeTx) Property(_ context.Context, id uint64) (*model.Property, error) {
    if id != f.property.ID {
        return nil, repository.ErrPropertyNotFound
    }
    p := f.property
    return &p, nil
}

func (f *fakeTx) InsertBooking(_ context.Context, b *model.Booking) error {
    b.ID = uint64(len(f.bookings) + 1)
    f.bookings = append(f.bookings, *b)
    return nil
}

func (f *fakeTx) BookingForUser(_ context.Context, id, userID uint64, _ bool) (*model.Booking, error) {
    for _, b := range f.bookings {
        if b.ID == id && b.UserID == userID {
            return &b, nil
        }
    }
    return nil, repository.ErrBookingNotFound
}

func (f *fakeTx) Policies(context.Context, uint64) ([]model.CancellationPolicy, error) {
    return f.policies, nil
}

func (f *fakeTx) MarkCancelled(_ context.Context, id uint64, pct int, refund decimal.Decimal, at time.Time) error {
    for i := range f.bookings {
        if f.bookings[i].ID == id {
            f.bookings[i].IsCancel = true
            f.bookings[i].CancellationCharge = &pct
            f.bookings[i].RefundAmount = &refund
            f.bookings[i].CancelledAt = &at
            return nil
        }
    }
    return repository.ErrBookingNotFound
}

type fakeRunner struct{ tx *fakeTx }

func (r fakeRunner) WithinTx(ctx context.Context, fn func(context.Context, repository.BookingTx) error) error {
    return fn(ctx, r.tx)
}

type fakeHolds struct {
    others   map[uint64]int
    released []uint64
}

func (h *fakeHolds) UnitsHeldByOthers(_ context.Context, _ string, roomTypeID uint64) (int, error) {
    return h.others[roomTypeID], nil
}

func (h *fakeHolds) Release(_ context.Context, _ string, ids ...uint64) error {
    h.released = append(h.released, ids...)
    return nil
}

type recordingPublisher struct {
    queues []string
    events []queue.BookingEvent
}

func (p *recordingPublisher) Publish(_ context.Context, name string, ev queue.BookingEvent) error {
    p.queues = append(p.queues, name)
    p.events = append(p.events, ev)
    return nil
}

var testNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func date(s string) time.Time {
    d, err := availability.ParseDate(s)
    if err != nil {
        panic(err)
    }
    return d
}

func newFixture() (*BookingService, *fakeTx, *fakeHolds, *recordingPublisher) {
    tx := &fakeTx{
        rooms: map[uint64]model.RoomType{
            7: {ID: 7, PropertyID: 1, Name: "Double", AdultCapacity: 2, ChildrenCapacity: 1,
                DefaultPrice: decimal.NewFromInt(100), NumOfRooms: 10, IsVerified: true, IsAvailable: true, Status: model.StatusActive},
        },
        property: model.Property{ID: 1, Name: "Lake House", CheckInTime: "12:00 PM", IsVerified: true, Status: model.StatusActive},
        policies: []model.CancellationPolicy{
            {CancellationDays: 0, CancellationPercent: 100},
            {CancellationDays: 2, CancellationPercent: 50},
            {CancellationDays: 7, CancellationPercent: 10},
        },
    }
    holds := &fakeHolds{others: map[uint64]int{}}
    pub := &recordingPublisher{}
    svc := NewBookingService(fakeRunner{tx: tx}, holds, pub).WithClock(func() time.Time { return testNow })
    return svc, tx, holds, pub
}

func TestConfirm_BooksAndReleasesHold(t *testing.T) {
    svc, tx, holds, pub := newFixture()
    b, err := svc.Confirm(context.Background(), BookingRequest{
        UserID: 3, SessionID: "sess", RoomTypeID: 7,
        CheckIn: date("2025-03-10"), CheckOut: date("2025-03-12"), NumOfRooms: 2, NumOfAdults: 3,
    })
    if err != nil {
        t.Fatalf("confirm: %v", err)
    }
    if !b.Amount.Equal(decimal.NewFromInt(400)) {
        t.Fatalf("expected 100 x 2 nights x 2 rooms = 400, got %s", b.Amount)
    }
    if len(tx.locked) != 1 || tx.locked[0] != 7 {
        t.Fatalf("expected room type 7 to be locked, got %v", tx.locked)
    }
    if len(holds.released) != 1 || holds.released[0] != 7 {
        t.Fatalf("expected hold on 7 released, got %v", holds.released)
    }
    if len(pub.queues) != 1 || pub.queues[0] != queue.BookingConfirmedQueue {
        t.Fatalf("expected one confirmed event, got %v", pub.queues)
    }
    if pub.events[0].Amount != "400.00" || pub.events[0].PropertyName != "Lake House" {
        t.Fatalf("unexpected event %+v", pub.events[0])
    }
}

func TestConfirm_CountsOtherSessionsHolds(t *testing.T) {
    svc, tx, holds, pub := newFixture()
    tx.bookings = []model.Booking{{ID: 1, RoomTypeID: 7, CheckIn: date("2025-03-09"), CheckOut: date("2025-03-11"), NumOfRooms: 3, BookStatus: true}}
    holds.others[7] = 2

    req := BookingRequest{UserID: 3, SessionID: "sess", RoomTypeID: 7, CheckIn: date("2025-03-10"), CheckOut: date("2025-03-12"), NumOfRooms: 6}
    if _, err := svc.Confirm(context.Background(), req); !errors.Is(err, ErrNotAvailable) {
        t.Fatalf("expected ErrNotAvailable, got %v", err)
    }
    if len(tx.bookings) != 1 || len(pub.events) != 0 {
        t.Fatalf("nothing should be written on failure")
    }
    req.NumOfRooms = 5
    if _, err := svc.Confirm(context.Background(), req); err != nil {
        t.Fatalf("5 units should fit: %v", err)
    }
}

func TestConfirm_RejectsBadRequests(t *testing.T) {
    svc, _, _, _ := newFixture()
    cases := map[string]BookingRequest{
        "missing dates":  {RoomTypeID: 7},
        "past check-in":  {RoomTypeID: 7, CheckIn: date("2025-02-20"), CheckOut: date("2025-02-22")},
        "inverted range": {RoomTypeID: 7, CheckIn: date("2025-03-12"), CheckOut: date("2025-03-10")},
        "stay too long":  {RoomTypeID: 7, CheckIn: date("2025-03-10"), CheckOut: date("2025-03-10").AddDate(0, 0, availability.MaxStayNights+1)},
    }
    for name, req := range cases {
        if _, err := svc.Confirm(context.Background(), req); !errors.Is(err, availability.ErrInvalidRange) {
            t.Fatalf("%s: expected ErrInvalidRange, got %v", name, err)
        }
    }
    _, err := svc.Confirm(context.Background(), BookingRequest{RoomTypeID: 99, CheckIn: date("2025-03-10"), CheckOut: date("2025-03-11")})
    if !errors.Is(err, repository.ErrRoomTypeNotFound) {
        t.Fatalf("expected ErrRoomTypeNotFound, got %v", err)
    }
}

func TestCancel_AppliesPolicy(t *testing.T) {
    svc, tx, _, pub := newFixture()
    tx.bookings = []model.Booking{{ID: 1, UserID: 3, PropertyID: 1, RoomTypeID: 7,
        CheckIn: date("2025-03-04"), CheckOut: date("2025-03-06"), NumOfRooms: 1,
        Amount: decimal.NewFromInt(400), BookStatus: true}}

    q, err := svc.Quote(context.Background(), 3, 1)
    if err != nil {
        t.Fatalf("quote: %v", err)
    }
    if q.DaysBeforeCheckIn != 3 || q.ChargePercent != 10 || !q.RefundAmount.Equal(decimal.NewFromInt(360)) {
        t.Fatalf("unexpected quote %+v", q)
    }

    b, q2, err := svc.Cancel(context.Background(), 3, 1)
    if err != nil {
        t.Fatalf("cancel: %v", err)
    }
    if !b.IsCancel || *b.CancellationCharge != 10 || !q2.RefundAmount.Equal(q.RefundAmount) {
        t.Fatalf("unexpected booking after cancel %+v", b)
    }
    if !tx.bookings[0].IsCancel {
        t.Fatalf("cancellation was not stored")
    }
    if len(pub.queues) != 1 || pub.queues[0] != queue.BookingCancelledQueue || *pub.events[0].RefundAmount != "360.00" {
        t.Fatalf("expected a cancelled event, got %+v", pub.events)
    }

    if _, _, err := svc.Cancel(context.Background(), 3, 1); !errors.Is(err, ErrAlreadyCancelled) {
        t.Fatalf("expected ErrAlreadyCancelled, got %v", err)
    }
    if _, _, err := svc.Cancel(context.Background(), 4, 1); !errors.Is(err, repository.ErrBookingNotFound) {
        t.Fatalf("another user's booking must not be found, got %v", err)
    }
}

func TestCancel_AfterCheckInDate(t *testing.T) {
    svc, tx, _, _ := newFixture()
    tx.bookings = []model.Booking{{ID: 1, UserID: 3, PropertyID: 1, RoomTypeID: 7,
        CheckIn: date("2025-02-27"), CheckOut: date("2025-03-03"), NumOfRooms: 1,
        Amount: decimal.NewFromInt(400), BookStatus: true}}
    if _, _, err := svc.Cancel(context.Background(), 3, 1); !errors.Is(err, ErrStayStarted) {
        t.Fatalf("expected ErrStayStarted, got %v", err)
    }
}
