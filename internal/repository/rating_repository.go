package repository

import (
    "context"
    "database/sql"

    "github.com/shopspring/decimal"

    "github.com/iliyamo/hotel-booking/internal/model"
)

// RatingRepo stores guest ratings.  ratings.booking_id is unique, so a
// second rating for the same booking fails with a duplicate-key error.
type RatingRepo struct {
    db *sql.DB
}

func NewRatingRepo(db *sql.DB) *RatingRepo { return &RatingRepo{db: db} }

// Create inserts rt and fills in its id and creation time.
func (r *RatingRepo) Create(ctx context.Context, rt *model.Rating) error {
    const q = `INSERT INTO ratings (booking_id, user_id, property_id, score, comment) VALUES (?, ?, ?, ?, ?)`
    res, err := r.db.ExecContext(ctx, q, rt.BookingID, rt.UserID, rt.PropertyID, rt.Score, rt.Comment)
    if err != nil {
        return err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return err
    }
    rt.ID = uint64(id)
    return r.db.QueryRowContext(ctx, `SELECT created_at FROM ratings WHERE id = ?`, rt.ID).Scan(&rt.CreatedAt)
}

// ListByProperty returns a property's ratings, newest first.
func (r *RatingRepo) ListByProperty(ctx context.Context, propertyID uint64) ([]model.Rating, error) {
    const q = `SELECT id, booking_id, user_id, property_id, score, comment, created_at
               FROM ratings WHERE property_id = ? ORDER BY id DESC`
    rows, err := r.db.QueryContext(ctx, q, propertyID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []model.Rating{}
    for rows.Next() {
        var (
            rt      model.Rating
            comment sql.NullString
        )
        if err := rows.Scan(&rt.ID, &rt.BookingID, &rt.UserID, &rt.PropertyID, &rt.Score, &comment, &rt.CreatedAt); err != nil {
            return nil, err
        }
        if comment.Valid {
            rt.Comment = &comment.String
        }
        out = append(out, rt)
    }
    return out, rows.Err()
}

// Summary returns the count and mean score of a property's ratings.  The
// average is zero when there are none.
func (r *RatingRepo) Summary(ctx context.Context, propertyID uint64) (model.RatingSummary, error) {
    var (
        s   model.RatingSummary
        avg decimal.NullDecimal
    )
    err := r.db.QueryRowContext(ctx,
        `SELECT COUNT(*), AVG(score) FROM ratings WHERE property_id = ?`, propertyID).Scan(&s.Count, &avg)
    if err != nil {
        return s, err
    }
    if avg.Valid {
        s.Average = avg.Decimal.Round(2)
    }
    return s, nil
}
