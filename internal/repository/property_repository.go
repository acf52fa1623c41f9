package repository

import (
    "context"
    "database/sql"
    "errors"
    "strings"

    "github.com/iliyamo/hotel-booking/internal/model"
)

// PropertyRepo encapsulates all database queries related to properties.
// Deleted properties are kept with status DELETED and filtered out by every
// read.
type PropertyRepo struct {
    db *sql.DB
}

func NewPropertyRepo(db *sql.DB) *PropertyRepo { return &PropertyRepo{db: db} }

const propertyColumns = `id, owner_id, name, city, address, check_in_time, is_verified, status, created_at, updated_at`

func scanProperty(s rowScanner) (*model.Property, error) {
    var (
        p       model.Property
        address sql.NullString
    )
    if err := s.Scan(&p.ID, &p.OwnerID, &p.Name, &p.City, &address, &p.CheckInTime, &p.IsVerified, &p.Status, &p.CreatedAt, &p.UpdatedAt); err != nil {
        return nil, err
    }
    if address.Valid {
        a := address.String
        p.Address = &a
    }
    return &p, nil
}

// Create inserts a new property owned by p.OwnerID and reloads it so that
// defaults and timestamps are populated.
func (r *PropertyRepo) Create(ctx context.Context, p *model.Property) error {
    const q = `INSERT INTO properties (owner_id, name, city, address, check_in_time, status) VALUES (?, ?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, p.OwnerID, p.Name, p.City, p.Address, p.CheckInTime, model.StatusActive)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    created, err := r.GetByID(ctx, uint64(id))
    if err != nil {
        return err
    }
    *p = *created
    return nil
}

// GetByID returns an active property regardless of owner or verification.
func (r *PropertyRepo) GetByID(ctx context.Context, id uint64) (*model.Property, error) {
    return getProperty(ctx, r.db, id, false)
}

// GetPublic returns an active, verified property.
func (r *PropertyRepo) GetPublic(ctx context.Context, id uint64) (*model.Property, error) {
    p, err := getProperty(ctx, r.db, id, false)
    if err != nil {
        return nil, err
    }
    if !p.IsVerified {
        return nil, ErrPropertyNotFound
    }
    return p, nil
}

// GetOwned returns the property when it belongs to ownerID.  A property of
// another owner yields ErrForbidden.
func (r *PropertyRepo) GetOwned(ctx context.Context, id, ownerID uint64) (*model.Property, error) {
    p, err := getProperty(ctx, r.db, id, false)
    if err != nil {
        return nil, err
    }
    if p.OwnerID != ownerID {
        return nil, ErrForbidden
    }
    return p, nil
}

func getProperty(ctx context.Context, q Querier, id uint64, forUpdate bool) (*model.Property, error) {
    query := `SELECT ` + propertyColumns + ` FROM properties WHERE id = ? AND status = 'ACTIVE'`
    if forUpdate {
        query += ` FOR UPDATE`
    }
    p, err := scanProperty(q.QueryRowContext(ctx, query, id))
    if errors.Is(err, sql.ErrNoRows) {
        return nil, ErrPropertyNotFound
    }
    return p, err
}

// ListByOwner returns the owner's active properties ordered by id.
func (r *PropertyRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Property, error) {
    const q = `SELECT ` + propertyColumns + ` FROM properties WHERE owner_id = ? AND status = 'ACTIVE' ORDER BY id`
    return r.list(ctx, q, ownerID)
}

// SearchVerified lists verified active properties, optionally filtered by
// a case-insensitive city match.
func (r *PropertyRepo) SearchVerified(ctx context.Context, city string) ([]model.Property, error) {
    q := `SELECT ` + propertyColumns + ` FROM properties WHERE status = 'ACTIVE' AND is_verified = 1`
    var args []any
    if city = strings.TrimSpace(city); city != "" {
        q += ` AND LOWER(city) = LOWER(?)`
        args = append(args, city)
    }
    q += ` ORDER BY id`
    return r.list(ctx, q, args...)
}

func (r *PropertyRepo) list(ctx context.Context, q string, args ...any) ([]model.Property, error) {
    rows, err := r.db.QueryContext(ctx, q, args...)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    var out []model.Property
    for rows.Next() {
        p, err := scanProperty(rows)
        if err != nil {
            return nil, err
        }
        out = append(out, *p)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Update writes the editable fields of a property owned by p.OwnerID.
// Verification is platform-controlled and is not touched here.
func (r *PropertyRepo) Update(ctx context.Context, p *model.Property) error {
    if _, err := r.GetOwned(ctx, p.ID, p.OwnerID); err != nil {
        return err
    }
    const q = `UPDATE properties
               SET name = ?, city = ?, address = ?, check_in_time = ?, updated_at = CURRENT_TIMESTAMP
               WHERE id = ? AND owner_id = ? AND status = 'ACTIVE'`
    if _, err := r.db.ExecContext(ctx, q, p.Name, p.City, p.Address, p.CheckInTime, p.ID, p.OwnerID); err != nil {
        return err
    }
    updated, err := r.GetByID(ctx, p.ID)
    if err != nil {
        return err
    }
    *p = *updated
    return nil
}

// SoftDelete marks a property and its room types DELETED.  It refuses with
// ErrConflict while confirmed bookings check out on or after today.
func (r *PropertyRepo) SoftDelete(ctx context.Context, id, ownerID uint64, today string) (err error) {
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
    p, err := getProperty(ctx, tx, id, true)
    if err != nil {
        return err
    }
    if p.OwnerID != ownerID {
        return ErrForbidden
    }
    var upcoming int
    if err = tx.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM bookings WHERE property_id = ? AND book_status = 1 AND is_cancel = 0 AND check_out >= ?`,
        id, today).Scan(&upcoming); err != nil {
        return err
    }
    if upcoming > 0 {
        return ErrConflict
    }
    if _, err = tx.ExecContext(ctx, `UPDATE room_types SET status = 'DELETED', updated_at = CURRENT_TIMESTAMP WHERE property_id = ?`, id); err != nil {
        return err
    }
    _, err = tx.ExecContext(ctx, `UPDATE properties SET status = 'DELETED', updated_at = CURRENT_TIMESTAMP WHERE id = ?`, id)
    return err
}
