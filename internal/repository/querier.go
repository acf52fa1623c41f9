package repository

import (
    "context"
    "database/sql"
    "time"
)

// Querier is the subset of *sql.DB and *sql.Tx used by the repositories, so
// the same read code runs inside and outside a transaction.
type Querier interface {
    ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
    QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
    QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// sqlDate formats a calendar date for DATE columns.
func sqlDate(t time.Time) string { return t.UTC().Format("2006-01-02") }

// rowScanner lets scan helpers accept both *sql.Row and *sql.Rows.
type rowScanner interface {
    Scan(dest ...any) error
}
