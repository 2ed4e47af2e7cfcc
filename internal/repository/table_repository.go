package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/iliyamo/event-seating/internal/model"
)

// TableRepo provides access to the 'tables' table.  Tables are created two
// ways: directly by an admin, or indirectly when a floor-plan marker is
// placed (the Tx variants below run inside the marker transaction so the
// generated name and the document update commit together).
type TableRepo struct{ DB *sql.DB }

func NewTableRepo(db *sql.DB) *TableRepo { return &TableRepo{DB: db} }

// List returns every table ordered by display name.
func (r *TableRepo) List(ctx context.Context) ([]model.Table, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT id, name, capacity, created_at FROM tables ORDER BY name`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    tables := make([]model.Table, 0)
    for rows.Next() {
        var t model.Table
        if err := rows.Scan(&t.ID, &t.Name, &t.Capacity, &t.CreatedAt); err != nil {
            return nil, err
        }
        tables = append(tables, t)
    }
    return tables, rows.Err()
}

// GetByID fetches one table.
func (r *TableRepo) GetByID(ctx context.Context, id uint64) (model.Table, error) {
    var t model.Table
    err := r.DB.QueryRowContext(ctx,
        `SELECT id, name, capacity, created_at FROM tables WHERE id = ? LIMIT 1`, id).
        Scan(&t.ID, &t.Name, &t.Capacity, &t.CreatedAt)
    if err == sql.ErrNoRows {
        return t, ErrNotFound
    }
    return t, err
}

// Create inserts a table with the given display name and capacity.
func (r *TableRepo) Create(ctx context.Context, name string, capacity int) (uint64, error) {
    res, err := r.DB.ExecContext(ctx,
        `INSERT INTO tables (name, capacity) VALUES (?, ?)`,
        strings.TrimSpace(name), capacity)
    if err != nil {
        if isDuplicate(err) {
            return 0, ErrTableExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// Delete removes a table that holds no reservation.  A reserved table
// yields ErrConflict and stays intact.
func (r *TableRepo) Delete(ctx context.Context, id uint64) error {
    var n int
    if err := r.DB.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM reservations WHERE table_id = ?`, id).Scan(&n); err != nil {
        return err
    }
    if n > 0 {
        return ErrConflict
    }
    res, err := r.DB.ExecContext(ctx, `DELETE FROM tables WHERE id = ?`, id)
    if err != nil {
        return err
    }
    affected, err := res.RowsAffected()
    if err != nil {
        return err
    }
    if affected == 0 {
        return ErrNotFound
    }
    return nil
}

// NextNumericNameTx returns the next generated table name: one past the
// highest all-digit name, or "1" when none exist.  The SELECT takes a
// lock inside the transaction so two concurrent marker placements cannot
// read the same maximum.
func (r *TableRepo) NextNumericNameTx(ctx context.Context, tx *sql.Tx) (string, error) {
    var next string
    err := tx.QueryRowContext(ctx,
        `SELECT CAST(COALESCE(MAX(CAST(name AS UNSIGNED)), 0) + 1 AS CHAR)
         FROM tables WHERE name REGEXP '^[0-9]+$' FOR UPDATE`).Scan(&next)
    if err != nil {
        return "", err
    }
    return next, nil
}

// CreateTx inserts a table within an existing transaction.
func (r *TableRepo) CreateTx(ctx context.Context, tx *sql.Tx, name string, capacity int) (uint64, error) {
    res, err := tx.ExecContext(ctx,
        `INSERT INTO tables (name, capacity) VALUES (?, ?)`, name, capacity)
    if err != nil {
        if isDuplicate(err) {
            return 0, ErrTableExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// UpdateCapacityTx rewrites a table's capacity within a transaction.  Used
// by the marker dual-write so the document and the physical table change
// together or not at all.
func (r *TableRepo) UpdateCapacityTx(ctx context.Context, tx *sql.Tx, id uint64, capacity int) error {
    _, err := tx.ExecContext(ctx,
        `UPDATE tables SET capacity = ? WHERE id = ?`, capacity, id)
    return err
}

// DeleteTx removes a table within a transaction.
func (r *TableRepo) DeleteTx(ctx context.Context, tx *sql.Tx, id uint64) error {
    _, err := tx.ExecContext(ctx, `DELETE FROM tables WHERE id = ?`, id)
    return err
}
