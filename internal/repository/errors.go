// Package repository defines error types that are reused across multiple
// repositories.  These sentinel values allow higher layers such as
// services and handlers to distinguish between failure scenarios without
// inspecting driver errors.  Storage-level constraint violations are
// translated here and never leak upward as raw MySQL errors.
package repository

import (
    "errors"
    "strings"
)

// ErrNotFound is returned when a row does not exist or is scoped to a
// different owner.  Handlers translate this into an HTTP 404 response.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a delete or update cannot proceed because
// of dependent state, such as deleting a table that still has a
// reservation.  Handlers translate this into HTTP 409.
var ErrConflict = errors.New("conflict")

// ErrUsernameExists is returned when creating a user with a username that
// is already taken (unique index on users.username).
var ErrUsernameExists = errors.New("username already exists")

// ErrTableExists is returned when creating a table whose name collides
// with an existing one (unique index on tables.name).
var ErrTableExists = errors.New("table already exists")

// ErrTableReserved is returned when inserting a reservation for a table
// that already has one.  The unique index on reservations.table_id raises
// the violation, so concurrent create attempts cannot both succeed.
var ErrTableReserved = errors.New("table already reserved")

// isDuplicate reports whether err is a MySQL duplicate-key violation
// (error 1062).
func isDuplicate(err error) bool {
    return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
