package repository

import (
    "context"
    "database/sql"
    "strings"
    "time"

    "github.com/shopspring/decimal"

    "github.com/iliyamo/hotel-booking/internal/availability"
    "github.com/iliyamo/hotel-booking/internal/model"
)

// InventoryRepo reads the occupancy ledger (bookings plus per-day
// overrides) and maintains inventory overrides.  It satisfies
// availability.Store.
type InventoryRepo struct {
    db *sql.DB
}

func NewInventoryRepo(db *sql.DB) *InventoryRepo { return &InventoryRepo{db: db} }

// OverridePatch is what an owner posts for a date range.  Nil fields are
// stored as NULL, which means "not overridden".
type OverridePatch struct {
    Price          *decimal.Decimal
    MinPrice       *decimal.Decimal
    MaxPrice       *decimal.Decimal
    AvailableRooms *int
    IsActive       bool
}

func (r *InventoryRepo) BookedUnits(ctx context.Context, roomTypeID uint64, start, end time.Time) (int, error) {
    return bookedUnits(ctx, r.db, roomTypeID, start, end)
}

func (r *InventoryRepo) Overrides(ctx context.Context, roomTypeID uint64, start, end time.Time) ([]model.InventoryOverride, error) {
    return listOverrides(ctx, r.db, roomTypeID, start, end)
}

// bookedUnits sums the units of confirmed, uncancelled bookings whose stay
// touches [start, end].  A booking checking out on start still counts.
func bookedUnits(ctx context.Context, q Querier, roomTypeID uint64, start, end time.Time) (int, error) {
    const query = `SELECT COALESCE(SUM(num_of_rooms), 0) FROM bookings
                   WHERE room_type_id = ? AND book_status = 1 AND is_cancel = 0
                     AND check_out >= ? AND check_in <= ?`
    var n int
    if err := q.QueryRowContext(ctx, query, roomTypeID, sqlDate(start), sqlDate(end)).Scan(&n); err != nil {
        return 0, err
    }
    return n, nil
}

const overrideColumns = `id, room_type_id, date, price, min_price, max_price, available_rooms, is_active, status, created_at`

func listOverrides(ctx context.Context, q Querier, roomTypeID uint64, start, end time.Time) ([]model.InventoryOverride, error) {
    const query = `SELECT ` + overrideColumns + ` FROM inventory_overrides
                   WHERE room_type_id = ? AND status = 'ACTIVE' AND date BETWEEN ? AND ?
                   ORDER BY date, id`
    rows, err := q.QueryContext(ctx, query, roomTypeID, sqlDate(start), sqlDate(end))
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.InventoryOverride
    for rows.Next() {
        var (
            o                 model.InventoryOverride
            price, minP, maxP decimal.NullDecimal
            available         sql.NullInt64
        )
        if err := rows.Scan(&o.ID, &o.RoomTypeID, &o.Date, &price, &minP, &maxP, &available, &o.IsActive, &o.Status, &o.CreatedAt); err != nil {
            return nil, err
        }
        o.Date = availability.DateOf(o.Date)
        o.Price = nullDecimal(price)
        o.MinPrice = nullDecimal(minP)
        o.MaxPrice = nullDecimal(maxP)
        if available.Valid {
            n := int(available.Int64)
            o.AvailableRooms = &n
        }
        out = append(out, o)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

func nullDecimal(d decimal.NullDecimal) *decimal.Decimal {
    if !d.Valid {
        return nil
    }
    v := d.Decimal
    return &v
}

// List returns the live and blacked-out overrides of a room type in range.
func (r *InventoryRepo) List(ctx context.Context, roomTypeID uint64, start, end time.Time) ([]model.InventoryOverride, error) {
    return listOverrides(ctx, r.db, roomTypeID, start, end)
}

// Upsert writes one override per date in [start, end].  Earlier overrides
// for those dates are superseded (marked DELETED) in the same transaction,
// so at most one live row exists per date written through this path.
func (r *InventoryRepo) Upsert(ctx context.Context, roomTypeID uint64, start, end time.Time, patch OverridePatch) (err error) {
    days := availability.Days(start, end)
    if len(days) == 0 {
        return availability.ErrInvalidRange
    }
    tx, err := r.db.BeginTx(ctx, nil)
    if err != nil {
        return err
    }
    defer func() {
        if err != nil {
            _ = tx.Rollback()
        } else {
            err = tx.Commit()
        }
    }()
    if _, err = tx.ExecContext(ctx,
        `UPDATE inventory_overrides SET status = 'DELETED' WHERE room_type_id = ? AND status = 'ACTIVE' AND date BETWEEN ? AND ?`,
        roomTypeID, sqlDate(start), sqlDate(end)); err != nil {
        return err
    }
    var sb strings.Builder
    sb.WriteString(`INSERT INTO inventory_overrides (room_type_id, date, price, min_price, max_price, available_rooms, is_active, status) VALUES `)
    args := make([]any, 0, len(days)*8)
    for i, d := range days {
        if i > 0 {
            sb.WriteString(",")
        }
        sb.WriteString("(?, ?, ?, ?, ?, ?, ?, ?)")
        args = append(args, roomTypeID, sqlDate(d), decimalArg(patch.Price), decimalArg(patch.MinPrice),
            decimalArg(patch.MaxPrice), patch.AvailableRooms, patch.IsActive, model.StatusActive)
    }
    _, err = tx.ExecContext(ctx, sb.String(), args...)
    return err
}

// Delete soft-deletes every override of the room type in [start, end] and
// reports how many rows were affected.
func (r *InventoryRepo) Delete(ctx context.Context, roomTypeID uint64, start, end time.Time) (int64, error) {
    res, err := r.db.ExecContext(ctx,
        `UPDATE inventory_overrides SET status = 'DELETED' WHERE room_type_id = ? AND status = 'ACTIVE' AND date BETWEEN ? AND ?`,
        roomTypeID, sqlDate(start), sqlDate(end))
    if err != nil {
        return 0, err
    }
    return res.RowsAffected()
}

func decimalArg(d *decimal.Decimal) any {
    if d == nil {
        return nil
    }
    return d.StringFixed(2)
}
