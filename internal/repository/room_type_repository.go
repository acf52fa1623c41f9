package repository

import (
    "context"
    "database/sql"
    "errors"

    "github.com/iliyamo/hotel-booking/internal/model"
)

// RoomTypeRepo provides data access to room_types.  Reads used by the
// availability resolver return every room type of a property, including
// deleted and unverified ones; the resolver applies those gates itself.
type RoomTypeRepo struct {
    db *sql.DB
}

func NewRoomTypeRepo(db *sql.DB) *RoomTypeRepo { return &RoomTypeRepo{db: db} }

const roomTypeColumns = `id, property_id, name, adult_capacity, children_capacity, default_price, min_price, max_price,
    num_of_rooms, is_verified, is_available, status, created_at, updated_at`

func scanRoomType(s rowScanner) (*model.RoomType, error) {
    var rt model.RoomType
    err := s.Scan(&rt.ID, &rt.PropertyID, &rt.Name, &rt.AdultCapacity, &rt.ChildrenCapacity,
        &rt.DefaultPrice, &rt.MinPrice, &rt.MaxPrice, &rt.NumOfRooms,
        &rt.IsVerified, &rt.IsAvailable, &rt.Status, &rt.CreatedAt, &rt.UpdatedAt)
    if err != nil {
        return nil, err
    }
    return &rt, nil
}

// Create inserts a room type under an active property owned by ownerID.
func (r *RoomTypeRepo) Create(ctx context.Context, ownerID uint64, rt *model.RoomType) error {
    p, err := getProperty(ctx, r.db, rt.PropertyID, false)
    if err != nil {
        return err
    }
    if p.OwnerID != ownerID {
        return ErrForbidden
    }
    const q = `INSERT INTO room_types
               (property_id, name, adult_capacity, children_capacity, default_price, min_price, max_price, num_of_rooms, is_available, status)
               VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, rt.PropertyID, rt.Name, rt.AdultCapacity, rt.ChildrenCapacity,
        rt.DefaultPrice, rt.MinPrice, rt.MaxPrice, rt.NumOfRooms, rt.IsAvailable, model.StatusActive)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    created, err := getRoomType(ctx, r.db, uint64(id), false)
    if err != nil {
        return err
    }
    *rt = *created
    return nil
}

// GetByID returns an active room type.
func (r *RoomTypeRepo) GetByID(ctx context.Context, id uint64) (*model.RoomType, error) {
    return getRoomType(ctx, r.db, id, false)
}

func getRoomType(ctx context.Context, q Querier, id uint64, forUpdate bool) (*model.RoomType, error) {
    query := `SELECT ` + roomTypeColumns + ` FROM room_types WHERE id = ? AND status = 'ACTIVE'`
    if forUpdate {
        query += ` FOR UPDATE`
    }
    rt, err := scanRoomType(q.QueryRowContext(ctx, query, id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrRoomTypeNotFound
    }
    return rt, err
}

// GetOwned returns an active room type whose property belongs to ownerID.
func (r *RoomTypeRepo) GetOwned(ctx context.Context, id, ownerID uint64) (*model.RoomType, error) {
    rt, err := getRoomType(ctx, r.db, id, false)
    if err != nil {
        return nil, err
    }
    var owner uint64
    err = r.db.QueryRowContext(ctx, `SELECT owner_id FROM properties WHERE id = ? AND status = 'ACTIVE'`, rt.PropertyID).Scan(&owner)
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrRoomTypeNotFound
    }
    if err != nil {
        return nil, err
    }
    if owner != ownerID {
        return nil, ErrForbidden
    }
    return rt, nil
}

// RoomTypesByProperty lists every room type of a property ordered by id.
func (r *RoomTypeRepo) RoomTypesByProperty(ctx context.Context, propertyID uint64) ([]model.RoomType, error) {
    return listRoomTypes(ctx, r.db, `SELECT `+roomTypeColumns+` FROM room_types WHERE property_id = ? ORDER BY id`, propertyID)
}

// ListActiveByProperty lists the non-deleted room types of a property.
func (r *RoomTypeRepo) ListActiveByProperty(ctx context.Context, propertyID uint64) ([]model.RoomType, error) {
    return listRoomTypes(ctx, r.db, `SELECT `+roomTypeColumns+` FROM room_types WHERE property_id = ? AND status = 'ACTIVE' ORDER BY id`, propertyID)
}

func listRoomTypes(ctx context.Context, q Querier, query string, args ...any) ([]model.RoomType, error) {
    rows, err := q.QueryContext(ctx, query, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.RoomType
    for rows.Next() {
        rt, err := scanRoomType(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *rt)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Update writes the owner-editable fields of a room type.
func (r *RoomTypeRepo) Update(ctx context.Context, ownerID uint64, rt *model.RoomType) error {
    if _, err := r.GetOwned(ctx, rt.ID, ownerID); err != nil {
        return err
    }
    const q = `UPDATE room_types
               SET name = ?, adult_capacity = ?, children_capacity = ?, default_price = ?, min_price = ?, max_price = ?,
                   num_of_rooms = ?, is_available = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ? AND status = 'ACTIVE'`
    if _, err := r.db.ExecContext(ctx, q, rt.Name, rt.AdultCapacity, rt.ChildrenCapacity, rt.DefaultPrice,
        rt.MinPrice, rt.MaxPrice, rt.NumOfRooms, rt.IsAvailable, rt.ID); err != nil {
        return err
    }
    updated, err := getRoomType(ctx, r.db, rt.ID, false)
    if err != nil {
        return err
    }
    *rt = *updated
    return nil
}

// SoftDelete marks a room type DELETED.  It returns ErrConflict while
// confirmed bookings check out on or after today.
func (r *RoomTypeRepo) SoftDelete(ctx context.Context, id, ownerID uint64, today string) error {
    if _, err := r.GetOwned(ctx, id, ownerID); err != nil {
        return err
    }
    var upcoming int
    if err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM bookings WHERE room_type_id = ? AND book_status = 1 AND is_cancel = 0 AND check_out >= ?`,
        id, today).Scan(&upcoming); err != nil {
        return err
    }
    if upcoming > 0 {
        return ErrConflict
    }
    _, err := r.db.ExecContext(ctx, `UPDATE room_types SET status = 'DELETED', updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
    return err
}
