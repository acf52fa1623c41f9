package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/iliyamo/hotel-booking/internal/model"
)

// PolicyRepo stores the cancellation tiers of a property.
type PolicyRepo struct {
    db *sql.DB
}

func NewPolicyRepo(db *sql.DB) *PolicyRepo { return &PolicyRepo{db: db} }

// ListByProperty returns the tiers ordered by cancellation_days.
func (r *PolicyRepo) ListByProperty(ctx context.Context, propertyID uint64) ([]model.CancellationPolicy, error) {
    return listPolicies(ctx, r.db, propertyID)
}

func listPolicies(ctx context.Context, q Querier, propertyID uint64) ([]model.CancellationPolicy, error) {
    const query = `SELECT id, property_id, cancellation_days, cancellation_percents
                   FROM cancellation_policies WHERE property_id = ? ORDER BY cancellation_days, id`
    rows, err := q.QueryContext(ctx, query, propertyID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    out := []model.CancellationPolicy{}
    for rows.Next() {
        var p model.CancellationPolicy
        if err := rows.Scan(&p.ID, &p.PropertyID, &p.CancellationDays, &p.CancellationPercent); err != nil {
            return nil, err
        }
        out = append(out, p)
    }
    if err := rows.Err(); err != nil {
        return nil, err
    }
    return out, nil
}

// Replace swaps the whole tier set of a property owned by ownerID.
func (r *PolicyRepo) Replace(ctx context.Context, propertyID, ownerID uint64, tiers []model.CancellationPolicy) (err error) {
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
    p, err := getProperty(ctx, tx, propertyID, true)
    if err != nil {
        return err
    }
    if p.OwnerID != ownerID {
        return ErrForbidden
    }
    if _, err = tx.ExecContext(ctx, `DELETE FROM cancellation_policies WHERE property_id = ?`, propertyID); err != nil {
        return err
    }
    if len(tiers) == 0 {
        return nil
    }
    var sb strings.Builder
    sb.WriteString(`INSERT INTO cancellation_policies (property_id, cancellation_days, cancellation_percents) VALUES `)
    args := make([]any, 0, len(tiers)*3)
    for i, t := range tiers {
        if i > 0 {
            sb.WriteString(",")
        }
        sb.WriteString("(?, ?, ?)")
        args = append(args, propertyID, t.CancellationDays, t.CancellationPercent)
    }
    _, err = tx.ExecContext(ctx, sb.String(), args...)
    return err
}
