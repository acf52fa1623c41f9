package repository

import (
    "context"
    "database/sql"
    "time"

    "github.com/shopspring/decimal"

    "github.com/iliyamo/hotel-booking/internal/model"
)

// BookingTx is the set of operations available while confirming or
// cancelling a booking.  Every call runs on the same *sql.Tx.  It embeds
// the ledger reads so it can back an availability.Ledger directly.
type BookingTx interface {
    BookedUnits(ctx context.Context, roomTypeID uint64, start, end time.Time) (int, error)
    Overrides(ctx context.Context, roomTypeID uint64, start, end time.Time) ([]model.InventoryOverride, error)
    // LockRoomType loads an active room type with SELECT ... FOR UPDATE so
    // that concurrent confirmations for one room type serialise.
    LockRoomType(ctx context.Context, id uint64) (*model.RoomType, error)
    Property(ctx context.Context, id uint64) (*model.Property, error)
    InsertBooking(ctx context.Context, b *model.Booking) error
    BookingForUser(ctx context.Context, id, userID uint64, forUpdate bool) (*model.Booking, error)
    Policies(ctx context.Context, propertyID uint64) ([]model.CancellationPolicy, error)
    MarkCancelled(ctx context.Context, id uint64, chargePercent int, refund decimal.Decimal, at time.Time) error
}

// UnitOfWork runs booking workflows inside a MySQL transaction.
type UnitOfWork struct {
    db *sql.DB
}

func NewUnitOfWork(db *sql.DB) *UnitOfWork { return &UnitOfWork{db: db} }

// WithinTx begins a transaction, calls fn and commits when fn returns nil.
// Any error rolls the transaction back.
func (u *UnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx BookingTx) error) error {
    tx, err := u.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    committed := false
    defer func() {
        if !committed {
            _ = tx.Rollback()
        }
    }()
    if err := fn(ctx, sqlBookingTx{tx: tx}); err != nil {
        return err
    }
    if err := tx.Commit(); err != nil {
        return err
    }
    committed = true
    return nil
}

type sqlBookingTx struct {
    tx *sql.Tx
}

func (s sqlBookingTx) BookedUnits(ctx context.Context, roomTypeID uint64, start, end time.Time) (int, error) {
    return bookedUnits(ctx, s.tx, roomTypeID, start, end)
}

func (s sqlBookingTx) Overrides(ctx context.Context, roomTypeID uint64, start, end time.Time) ([]model.InventoryOverride, error) {
    return listOverrides(ctx, s.tx, roomTypeID, start, end)
}

func (s sqlBookingTx) LockRoomType(ctx context.Context, id uint64) (*model.RoomType, error) {
    return getRoomType(ctx, s.tx, id, true)
}

func (s sqlBookingTx) Property(ctx context.Context, id uint64) (*model.Property, error) {
    return getProperty(ctx, s.tx, id, false)
}

func (s sqlBookingTx) InsertBooking(ctx context.Context, b *model.Booking) error {
    return insertBooking(ctx, s.tx, b)
}

func (s sqlBookingTx) BookingForUser(ctx context.Context, id, userID uint64, forUpdate bool) (*model.Booking, error) {
    return getBookingForUser(ctx, s.tx, id, userID, forUpdate)
}

func (s sqlBookingTx) Policies(ctx context.Context, propertyID uint64) ([]model.CancellationPolicy, error) {
    return listPolicies(ctx, s.tx, propertyID)
}

func (s sqlBookingTx) MarkCancelled(ctx context.Context, id uint64, chargePercent int, refund decimal.Decimal, at time.Time) error {
    return markCancelled(ctx, s.tx, id, chargePercent, refund, at)
}
