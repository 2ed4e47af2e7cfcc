package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/iliyamo/event-seating/internal/model"
)

// GuestRepo provides access to the 'guests' table.
type GuestRepo struct{ DB *sql.DB }

func NewGuestRepo(db *sql.DB) *GuestRepo { return &GuestRepo{DB: db} }

// ListByUser returns the user's guests ordered by name.
func (r *GuestRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Guest, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT id, user_id, name, created_at FROM guests WHERE user_id = ? ORDER BY name`,
        userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    guests := make([]model.Guest, 0)
    for rows.Next() {
        var g model.Guest
        if err := rows.Scan(&g.ID, &g.UserID, &g.Name, &g.CreatedAt); err != nil {
            return nil, err
        }
        guests = append(guests, g)
    }
    return guests, rows.Err()
}

// CountByUser returns how many guests the user has registered.
func (r *GuestRepo) CountByUser(ctx context.Context, userID uint64) (int, error) {
    var n int
    err := r.DB.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM guests WHERE user_id = ?`, userID).Scan(&n)
    return n, err
}

// Create inserts a guest for the user and returns its id.  The name is
// stored trimmed.
func (r *GuestRepo) Create(ctx context.Context, userID uint64, name string) (uint64, error) {
    res, err := r.DB.ExecContext(ctx,
        `INSERT INTO guests (user_id, name) VALUES (?, ?)`,
        userID, strings.TrimSpace(name))
    if err != nil {
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// Delete removes a guest scoped to its owner; a guest belonging to a
// different user is reported as not found.
func (r *GuestRepo) Delete(ctx context.Context, id, userID uint64) error {
    res, err := r.DB.ExecContext(ctx,
        `DELETE FROM guests WHERE id = ? AND user_id = ?`, id, userID)
    if err != nil {
        return err
    }
    n, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if n == 0 {
        return ErrNotFound
    }
    return nil
}

// ReportRow pairs a guest with the user hosting them, for the admin
// guest report.
type ReportRow struct {
    GuestName    string `json:"guest_name"`
    HostName     string `json:"host_name"`
    HostUsername string `json:"host_username"`
}

// Report lists every guest with their host, ordered by host then guest.
func (r *GuestRepo) Report(ctx context.Context) ([]ReportRow, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT g.name, COALESCE(u.name, ''), u.username
         FROM guests g
         JOIN users u ON u.id = g.user_id
         ORDER BY u.username, g.name`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    report := make([]ReportRow, 0)
    for rows.Next() {
        var row ReportRow
        if err := rows.Scan(&row.GuestName, &row.HostName, &row.HostUsername); err != nil {
            return nil, err
        }
        report = append(report, row)
    }
    return report, rows.Err()
}
