package repository

import (
    "context"
    "database/sql"
    "strings"

    "github.com/iliyamo/event-seating/internal/model"
    "github.com/iliyamo/event-seating/internal/utils"
)

// UserRepo provides CRUD access to the 'users' table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and returns its ID.  The password is hashed here
// so callers never handle the digest directly.
func (r *UserRepo) Create(ctx context.Context, name, username, password string, mesaQuota, cadeiraExtraQuota int, cost int) (uint64, error) {
    username = strings.TrimSpace(username)
    hash, err := utils.HashPassword(password, cost)
    if err != nil {
        return 0, err
    }
    res, err := r.DB.ExecContext(ctx,
        `INSERT INTO users (name, username, password_hash, mesa_quota, cadeira_extra_quota)
         VALUES (?,?,?,?,?)`,
        name, username, hash, mesaQuota, cadeiraExtraQuota)
    if err != nil {
        if isDuplicate(err) {
            return 0, ErrUsernameExists
        }
        return 0, err
    }
    id, err := res.LastInsertId()
    if err != nil {
        return 0, err
    }
    return uint64(id), nil
}

// GetByUsername fetches a user by login name, including the password hash
// for credential verification.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
    var u model.User
    var name sql.NullString
    err := r.DB.QueryRowContext(ctx,
        `SELECT id, name, username, password_hash, is_admin, mesa_quota, cadeira_extra_quota, created_at
         FROM users WHERE username = ? LIMIT 1`,
        strings.TrimSpace(username)).
        Scan(&u.ID, &name, &u.Username, &u.PasswordHash, &u.IsAdmin,
            &u.MesaQuota, &u.CadeiraExtraQuota, &u.CreatedAt)
    if err == sql.ErrNoRows {
        return u, ErrNotFound
    }
    u.Name = name.String
    return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
    var u model.User
    var name sql.NullString
    err := r.DB.QueryRowContext(ctx,
        `SELECT id, name, username, password_hash, is_admin, mesa_quota, cadeira_extra_quota, created_at
         FROM users WHERE id = ? LIMIT 1`, id).
        Scan(&u.ID, &name, &u.Username, &u.PasswordHash, &u.IsAdmin,
            &u.MesaQuota, &u.CadeiraExtraQuota, &u.CreatedAt)
    if err == sql.ErrNoRows {
        return u, ErrNotFound
    }
    u.Name = name.String
    return u, err
}

// List returns all users ordered by id for the admin dashboard.  Password
// hashes are not loaded.
func (r *UserRepo) List(ctx context.Context) ([]model.User, error) {
    rows, err := r.DB.QueryContext(ctx,
        `SELECT id, name, username, is_admin, mesa_quota, cadeira_extra_quota, created_at
         FROM users ORDER BY id`)
    if err != nil {
        return nil, err
    }
    defer rows.Close()
    users := make([]model.User, 0)
    for rows.Next() {
        var u model.User
        var name sql.NullString
        if err := rows.Scan(&u.ID, &name, &u.Username, &u.IsAdmin,
            &u.MesaQuota, &u.CadeiraExtraQuota, &u.CreatedAt); err != nil {
            return nil, err
        }
        u.Name = name.String
        users = append(users, u)
    }
    return users, rows.Err()
}

// Update rewrites a user's profile and quotas.  When passwordHash is
// non-empty the stored credential is replaced as well.
func (r *UserRepo) Update(ctx context.Context, id uint64, name, username string, mesaQuota, cadeiraExtraQuota int, passwordHash string) error {
    username = strings.TrimSpace(username)
    var (
        res sql.Result
        err error
    )
    if passwordHash != "" {
        res, err = r.DB.ExecContext(ctx,
            `UPDATE users SET name = ?, username = ?, mesa_quota = ?, cadeira_extra_quota = ?, password_hash = ?
             WHERE id = ?`,
            name, username, mesaQuota, cadeiraExtraQuota, passwordHash, id)
    } else {
        res, err = r.DB.ExecContext(ctx,
            `UPDATE users SET name = ?, username = ?, mesa_quota = ?, cadeira_extra_quota = ?
             WHERE id = ?`,
            name, username, mesaQuota, cadeiraExtraQuota, id)
    }
    if err != nil {
        if isDuplicate(err) {
            return ErrUsernameExists
        }
        return err
    }
    if n, err := res.RowsAffected(); err == nil && n == 0 {
        // Either the user does not exist or nothing changed; re-check so
        // a missing user surfaces as not found.
        var one int
        if err := r.DB.QueryRowContext(ctx,
            `SELECT 1 FROM users WHERE id = ?`, id).Scan(&one); err == sql.ErrNoRows {
            return ErrNotFound
        }
    }
    return nil
}

// Delete removes a non-admin user.  Admin accounts are never hard-deleted.
// Reservations and guests owned by the user go with it via ON DELETE
// CASCADE.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
    res, err := r.DB.ExecContext(ctx,
        `DELETE FROM users WHERE id = ? AND is_admin = 0`, id)
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
