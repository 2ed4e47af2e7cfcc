package repository

import (
    "context"
    "database/sql"
    "time"
)

// ReservationRepo provides access to the 'reservations' table.  A table
// may carry at most one reservation at any time; the unique index on
// reservations.table_id enforces that below any application check, so the
// check-then-act window between "is it free" and "insert" cannot let two
// writers through.
type ReservationRepo struct{ DB *sql.DB }

func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{DB: db} }

// ReservationDetail is a reservation joined with its table attributes,
// returned by the per-user listing.
type ReservationDetail struct {
    ID          uint64    `json:"id"`
    UserID      uint64    `json:"user_id"`
    TableID     uint64    `json:"table_id"`
    TableNumber string    `json:"table_number"`
    Capacity    int       `json:"capacity"`
    ReservedAt  time.Time `json:"reserved_at"`
}

// OccupancyDetail extends ReservationDetail with the holder's username,
// used for the occupancy display and map coloring.
type OccupancyDetail struct {
    ID          uint64    `json:"id"`
    UserID      uint64    `json:"user_id"`
    TableID     uint64    `json:"table_id"`
    TableNumber string    `json:"table_number"`
    Capacity    int       `json:"capacity"`
    Username    string    `json:"username"`
    ReservedAt  time.Time `json:"reserved_at"`
}

// Create inserts a reservation and returns its id.  When the table is
// already reserved the unique index raises a duplicate-key violation which
// is translated to ErrTableReserved; exactly one of any set of concurrent
// attempts on the same table succeeds.
func (r *ReservationRepo) Create(ctx context.Context, userID, tableID uint64) (uint64, error) {
    res, err := r.DB.ExecContext(ctx,
        `INSERT INTO reservations (user_id, table_id) VALUES (?, ?)`,
        userID, tableID)
    if err != nil {
        if isDuplicate(err) {
            return 0, ErrTableReserved
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// Delete removes a reservation scoped to its owner.  A user can never
// cancel another user's reservation: the WHERE clause carries both the id
// and the owner, and zero affected rows surfaces as ErrNotFound.
func (r *ReservationRepo) Delete(ctx context.Context, id, userID uint64) error {
    res, err := r.DB.ExecContext(ctx,
        `DELETE FROM reservations WHERE id = ? AND user_id = ?`, id, userID)
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

// ListByUser returns the caller's reservations joined with table
// attributes.  No pagination; the expected scale is one event's tables.
func (r *ReservationRepo) ListByUser(ctx context.Context, userID uint64) ([]ReservationDetail, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT r.id, r.user_id, r.table_id, t.name, t.capacity, r.reserved_at
         FROM reservations r
         JOIN tables t ON t.id = r.table_id
         WHERE r.user_id = ?
         ORDER BY t.name`, userID)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    details := make([]ReservationDetail, 0)
    for rows.Next() {
        var d ReservationDetail
        if err := rows.Scan(&d.ID, &d.UserID, &d.TableID, &d.TableNumber,
            &d.Capacity, &d.ReservedAt); err != nil {
            return nil, err
        }
        details = append(details, d)
    }
    return details, rows.Err()
}

// ListAll returns every reservation with owner and table attributes.
func (r *ReservationRepo) ListAll(ctx context.Context) ([]OccupancyDetail, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT r.id, r.user_id, r.table_id, t.name, t.capacity, u.username, r.reserved_at
         FROM reservations r
         JOIN tables t ON t.id = r.table_id
         JOIN users u ON u.id = r.user_id
         ORDER BY t.name`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    details := make([]OccupancyDetail, 0)
    for rows.Next() {
        var d OccupancyDetail
        if err := rows.Scan(&d.ID, &d.UserID, &d.TableID, &d.TableNumber,
            &d.Capacity, &d.Username, &d.ReservedAt); err != nil {
            return nil, err
        }
        details = append(details, d)
    }
    return details, rows.Err()
}

// CountByUser returns how many reservations the user currently holds.
// The table quota is enforced against this live count, not a stored
// counter.
func (r *ReservationRepo) CountByUser(ctx context.Context, userID uint64) (int, error) {
    var n int
    err := r.DB.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM reservations WHERE user_id = ?`, userID).Scan(&n)
    return n, err
}

// HasForTable reports whether any reservation references the table.
func (r *ReservationRepo) HasForTable(ctx context.Context, tableID uint64) (bool, error) {
    var n int
    err := r.DB.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM reservations WHERE table_id = ?`, tableID).Scan(&n)
    return n > 0, err
}

// HasForTableTx is HasForTable inside an existing transaction, used by the
// marker-removal flow so the check and the table delete see one snapshot.
func (r *ReservationRepo) HasForTableTx(ctx context.Context, tx *sql.Tx, tableID uint64) (bool, error) {
    var n int
    err := tx.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM reservations WHERE table_id = ?`, tableID).Scan(&n)
    return n > 0, err
}

// TotalChairs computes the user's seat allowance: the extra-chair quota
// plus the capacities of every table the user has reserved.  The value is
// recomputed from live rows on every call; nothing is cached.
func (r *ReservationRepo) TotalChairs(ctx context.Context, userID uint64) (int, error) {
    var total int
    err := r.DB.QueryRowContext(ctx,
        `SELECT COALESCE(SUM(chairs), 0) FROM (
            SELECT cadeira_extra_quota AS chairs FROM users WHERE id = ?
            UNION ALL
            SELECT COALESCE(SUM(t.capacity), 0) AS chairs
            FROM reservations r
            JOIN tables t ON t.id = r.table_id
            WHERE r.user_id = ?
         ) AS combined`, userID, userID).Scan(&total)
    return total, err
}
