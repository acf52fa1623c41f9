package repository

import (
    "context"
    "database/sql"
    "errors"
    "time"

    "github.com/shopspring/decimal"

    "github.com/iliyamo/hotel-booking/internal/availability"
    "github.com/iliyamo/hotel-booking/internal/model"
)

// BookingRepo provides access to the bookings table.  Bookings are only
// written through BookingTx; this type serves the read-only listings.
type BookingRepo struct {
    db *sql.DB
}

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

const bookingColumns = `id, user_id, property_id, room_type_id, check_in, check_out, num_of_rooms, num_of_adults,
    num_of_children, amount, book_status, is_cancel, cancellation_charge, refund_amount, cancelled_at, created_at`

func scanBooking(s rowScanner) (*model.Booking, error) {
    var (
        b           model.Booking
        charge      sql.NullInt64
        refund      decimal.NullDecimal
        cancelledAt sql.NullTime
    )
    err := s.Scan(&b.ID, &b.UserID, &b.PropertyID, &b.RoomTypeID, &b.CheckIn, &b.CheckOut,
        &b.NumOfRooms, &b.NumOfAdults, &b.NumOfChildren, &b.Amount, &b.BookStatus, &b.IsCancel,
        &charge, &refund, &cancelledAt, &b.CreatedAt)
    if err != nil {
        return nil, err
    }
    b.CheckIn = availability.DateOf(b.CheckIn)
    b.CheckOut = availability.DateOf(b.CheckOut)
    if charge.Valid {
        n := int(charge.Int64)
        b.CancellationCharge = &n
    }
    b.RefundAmount = nullDecimal(refund)
    if cancelledAt.Valid {
        t := cancelledAt.Time.UTC()
        b.CancelledAt = &t
    }
    return &b, nil
}

// ListByUser returns the customer's bookings, newest first.
func (r *BookingRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Booking, error) {
    return listBookings(ctx, r.db, `SELECT `+bookingColumns+` FROM bookings WHERE user_id = ? ORDER BY id DESC`, userID)
}

// ListByProperty returns all bookings of a property ordered by check-in.
func (r *BookingRepo) ListByProperty(ctx context.Context, propertyID uint64) ([]model.Booking, error) {
    return listBookings(ctx, r.db, `SELECT `+bookingColumns+` FROM bookings WHERE property_id = ? ORDER BY check_in, id`, propertyID)
}

// GetForUser returns one of the customer's bookings.
func (r *BookingRepo) GetForUser(ctx context.Context, id, userID uint64) (*model.Booking, error) {
    return getBookingForUser(ctx, r.db, id, userID, false)
}

func getBookingForUser(ctx context.Context, q Querier, id, userID uint64, forUpdate bool) (*model.Booking, error) {
    query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = ? AND user_id = ?`
    if forUpdate {
        query += ` FOR UPDATE`
    }
    b, err := scanBooking(q.QueryRowContext(ctx, query, id, userID))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrBookingNotFound
    }
    return b, err
}

func listBookings(ctx context.Context, q Querier, query string, args ...any) ([]model.Booking, error) {
    rows, err := q.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Booking
    for rows.Next() {
        b, err := scanBooking(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *b)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

func insertBooking(ctx context.Context, q Querier, b *model.Booking) error {
    const query = `INSERT INTO bookings
                   (user_id, property_id, room_type_id, check_in, check_out, num_of_rooms, num_of_adults, num_of_children, amount, book_status, is_cancel)
                   VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 1, 0)`
    res, err := q.ExecContext(ctx, query, b.UserID, b.PropertyID, b.RoomTypeID, sqlDate(b.CheckIn), sqlDate(b.CheckOut),
        b.NumOfRooms, b.NumOfAdults, b.NumOfChildren, b.Amount.StringFixed(2))
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    created, err := scanBooking(q.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id))
    if err != nil {
        return err
    }
    *b = *created
    return nil
}

func markCancelled(ctx context.Context, q Querier, id uint64, chargePercent int, refund decimal.Decimal, at time.Time) error {
    const query = `UPDATE bookings
                   SET is_cancel = 1, cancellation_charge = ?, refund_amount = ?, cancelled_at = ?
                   WHERE id = ? AND is_cancel = 0`
    res, err := q.ExecContext(ctx, query, chargePercent, refund.StringFixed(2), at.UTC().Format("2006-01-02 15:04:05"), id)
    if err != nil {
        return err
    }
    if n, _ := res.RowsAffected(); n == 0 {
        return ErrConflict
    }
    return nil
}
