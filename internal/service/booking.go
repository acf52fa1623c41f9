package service

import (
    "context"
    "errors"
    "log"
    "time"

    "github.com/shopspring/decimal"
    "go.opentelemetry.io/otel"
    "go.opentelemetry.io/otel/attribute"
    "go.opentelemetry.io/otel/codes"
    "go.opentelemetry.io/otel/trace"

    "github.com/iliyamo/hotel-booking/internal/availability"
    "github.com/iliyamo/hotel-booking/internal/model"
    "github.com/iliyamo/hotel-booking/internal/queue"
    "github.com/iliyamo/hotel-booking/internal/repository"
)

var (
    // ErrNotAvailable means the room type cannot take the request for the
    // chosen dates once bookings, overrides and other sessions' holds are
    // applied.
    ErrNotAvailable = errors.New("room not available for the selected dates")
    // ErrAlreadyCancelled is returned when cancelling a cancelled booking.
    ErrAlreadyCancelled = errors.New("booking already cancelled")
    // ErrStayStarted is returned when cancelling after the check-in date.
    ErrStayStarted = errors.New("stay has already started")
)

var tracer = otel.Tracer("hotel-booking/service")

// TxRunner runs fn inside one database transaction.
type TxRunner interface {
    WithinTx(ctx context.Context, fn func(ctx context.Context, tx repository.BookingTx) error) error
}

// HoldReleaser is the part of the hold tracker the booking flow needs.
type HoldReleaser interface {
    availability.HoldCounter
    Release(ctx context.Context, sessionID string, roomTypeIDs ...uint64) error
}

// BookingRequest is a customer's confirmation request.
type BookingRequest struct {
    UserID        uint64
    SessionID     string
    RoomTypeID    uint64
    CheckIn       time.Time
    CheckOut      time.Time
    NumOfRooms    int
    NumOfAdults   int
    NumOfChildren int
}

// Quote is the outcome of cancelling a booking now.
type Quote struct {
    BookingID         uint64          `json:"booking_id"`
    DaysBeforeCheckIn int             `json:"days_before_check_in"`
    ChargePercent     int             `json:"charge_percent"`
    RefundAmount      decimal.Decimal `json:"refund_amount"`
}

// BookingService confirms and cancels bookings.
type BookingService struct {
    tx        TxRunner
    holds     HoldReleaser
    publisher EventPublisher
    now       func() time.Time
}

func NewBookingService(tx TxRunner, holds HoldReleaser, publisher EventPublisher) *BookingService {
    if publisher == nil {
        publisher = NopPublisher{}
    }
    return &BookingService{tx: tx, holds: holds, publisher: publisher, now: time.Now}
}

// WithClock replaces the service clock.
func (s *BookingService) WithClock(now func() time.Time) *BookingService {
    s.now = now
    return s
}

// singleRoom is a Catalog over one locked room type.
type singleRoom struct{ rt model.RoomType }

func (c singleRoom) RoomTypesByProperty(context.Context, uint64) ([]model.RoomType, error) {
    return []model.RoomType{c.rt}, nil
}

// Confirm books the request.  The room type row is locked for the length
// of the transaction and availability is resolved again from inside it, so
// two confirmations for the last unit cannot both succeed.  The caller's
// own hold on the room type is released afterwards.
func (s *BookingService) Confirm(ctx context.Context, req BookingRequest) (_ *model.Booking, err error) {
    ctx, span := tracer.Start(ctx, "BookingService.Confirm", trace.WithAttributes(
        attribute.Int64("room_type.id", int64(req.RoomTypeID)),
        attribute.Int("booking.units", req.NumOfRooms),
    ))
    defer func() { endSpan(span, err) }()
    if req.CheckIn.IsZero() || req.CheckOut.IsZero() || req.RoomTypeID == 0 {
        return nil, availability.ErrInvalidRange
    }
    if err := availability.CheckStay(req.CheckIn, req.CheckOut); err != nil {
        return nil, err
    }
    now := s.now().UTC()
    if availability.DateOf(req.CheckIn).Before(availability.DateOf(now)) {
        return nil, availability.ErrInvalidRange
    }
    var (
        booking  *model.Booking
        property *model.Property
        room     *model.RoomType
    )
    err = s.tx.WithinTx(ctx, func(ctx context.Context, tx repository.BookingTx) error {
        rt, err := tx.LockRoomType(ctx, req.RoomTypeID)
        if err != nil {
            return err
        }
        p, err := tx.Property(ctx, rt.PropertyID)
        if err != nil {
            return err
        }
        if !p.IsVerified {
            return repository.ErrPropertyNotFound
        }
        var holds availability.HoldCounter
        if s.holds != nil {
            holds = s.holds
        }
        resolver := availability.NewResolver(singleRoom{rt: *rt}, availability.NewLedger(tx), holds).WithClock(func() time.Time { return now })
        found, err := resolver.FindAvailableRooms(ctx, rt.PropertyID, req.SessionID, availability.Filters{
            RoomTypeID:    rt.ID,
            CheckIn:       req.CheckIn,
            CheckOut:      req.CheckOut,
            NumOfRooms:    req.NumOfRooms,
            NumOfAdults:   req.NumOfAdults,
            NumOfChildren: req.NumOfChildren,
        })
        if err != nil {
            return err
        }
        if len(found) == 0 {
            return ErrNotAvailable
        }
        units := req.NumOfRooms
        if units == 0 {
            units = 1
        }
        nights := availability.Nights(req.CheckIn, req.CheckOut)
        b := &model.Booking{
            UserID:        req.UserID,
            PropertyID:    rt.PropertyID,
            RoomTypeID:    rt.ID,
            CheckIn:       availability.DateOf(req.CheckIn),
            CheckOut:      availability.DateOf(req.CheckOut),
            NumOfRooms:    units,
            NumOfAdults:   req.NumOfAdults,
            NumOfChildren: req.NumOfChildren,
            Amount:        found[0].EffectivePrice.Mul(decimal.NewFromInt(int64(nights * units))).Round(2),
            BookStatus:    true,
        }
        if err := tx.InsertBooking(ctx, b); err != nil {
            return err
        }
        booking, property, room = b, p, rt
        return nil
    })
    if err != nil {
        return nil, err
    }
    if s.holds != nil && req.SessionID != "" {
        if err := s.holds.Release(ctx, req.SessionID, booking.RoomTypeID); err != nil {
            log.Printf("booking: release hold for session %s: %v", req.SessionID, err)
        }
    }
    s.publish(ctx, queue.BookingConfirmedQueue, eventFor(queue.BookingConfirmedQueue, booking, property, room, now))
    return booking, nil
}

// Quote computes the charge and refund that cancelling now would apply.
func (s *BookingService) Quote(ctx context.Context, userID, bookingID uint64) (Quote, error) {
    var q Quote
    err := s.tx.WithinTx(ctx, func(ctx context.Context, tx repository.BookingTx) error {
        b, err := tx.BookingForUser(ctx, bookingID, userID, false)
        if err != nil {
            return err
        }
        q, _, err = s.quote(ctx, tx, b)
        return err
    })
    return q, err
}

// Cancel cancels a booking of userID, storing the applied charge
// percentage and refund amount.
func (s *BookingService) Cancel(ctx context.Context, userID, bookingID uint64) (_ *model.Booking, _ Quote, err error) {
    ctx, span := tracer.Start(ctx, "BookingService.Cancel", trace.WithAttributes(attribute.Int64("booking.id", int64(bookingID))))
    defer func() { endSpan(span, err) }()
    var (
        q        Quote
        booking  *model.Booking
        property *model.Property
    )
    now := s.now().UTC()
    err = s.tx.WithinTx(ctx, func(ctx context.Context, tx repository.BookingTx) error {
        b, err := tx.BookingForUser(ctx, bookingID, userID, true)
        if err != nil {
            return err
        }
        if b.IsCancel {
            return ErrAlreadyCancelled
        }
        var p *model.Property
        q, p, err = s.quote(ctx, tx, b)
        if err != nil {
            return err
        }
        if q.DaysBeforeCheckIn < 0 {
            return ErrStayStarted
        }
        if err := tx.MarkCancelled(ctx, b.ID, q.ChargePercent, q.RefundAmount, now); err != nil {
            return err
        }
        charge, refund := q.ChargePercent, q.RefundAmount
        b.IsCancel = true
        b.CancellationCharge = &charge
        b.RefundAmount = &refund
        b.CancelledAt = &now
        booking, property = b, p
        return nil
    })
    if err != nil {
        return nil, Quote{}, err
    }
    ev := eventFor(queue.BookingCancelledQueue, booking, property, nil, now)
    refund := q.RefundAmount.StringFixed(2)
    ev.ChargePercent = &q.ChargePercent
    ev.RefundAmount = &refund
    s.publish(ctx, queue.BookingCancelledQueue, ev)
    return booking, q, nil
}

func (s *BookingService) quote(ctx context.Context, tx repository.BookingTx, b *model.Booking) (Quote, *model.Property, error) {
    p, err := tx.Property(ctx, b.PropertyID)
    if err != nil {
        return Quote{}, nil, err
    }
    policies, err := tx.Policies(ctx, b.PropertyID)
    if err != nil {
        return Quote{}, nil, err
    }
    now := s.now().UTC()
    days := availability.DaysBeforeCheckIn(b.CheckIn, now)
    pct := availability.ChargePercentage(policies, days, p.CheckInTime, now)
    return Quote{
        BookingID:         b.ID,
        DaysBeforeCheckIn: days,
        ChargePercent:     pct,
        RefundAmount:      availability.RefundAmount(b.Amount, pct),
    }, p, nil
}

func (s *BookingService) publish(ctx context.Context, queueName string, ev queue.BookingEvent) {
    // The request context may be cancelled as soon as the response is written.
    pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
    defer cancel()
    if err := s.publisher.Publish(pctx, queueName, ev); err != nil {
        log.Printf("booking: publish %s for booking %d: %v", queueName, ev.BookingID, err)
    }
}

func endSpan(span trace.Span, err error) {
    if err != nil {
        span.RecordError(err)
        span.SetStatus(codes.Error, err.Error())
    }
    span.End()
}

func eventFor(kind string, b *model.Booking, p *model.Property, rt *model.RoomType, at time.Time) queue.BookingEvent {
    ev := queue.BookingEvent{
        Type:       kind,
        BookingID:  b.ID,
        UserID:     b.UserID,
        PropertyID: b.PropertyID,
        RoomTypeID: b.RoomTypeID,
        CheckIn:    b.CheckIn.Format(availability.DateLayout),
        CheckOut:   b.CheckOut.Format(availability.DateLayout),
        NumOfRooms: b.NumOfRooms,
        Amount:     b.Amount.StringFixed(2),
        OccurredAt: at.Format(time.RFC3339),
    }
    if p != nil {
        ev.PropertyName = p.Name
    }
    if rt != nil {
        ev.RoomTypeName = rt.Name
    }
    return ev
}
