package model

import "time"

// Reservation binds one user to one table.  The reservations table has a
// unique index on table_id, so a table can never be double-booked no
// matter how requests interleave.
//
// Fields:
//  ID         – primary key identifier.
//  UserID     – user holding the reservation.
//  TableID    – reserved table.
//  ReservedAt – creation timestamp.
type Reservation struct {
    ID         uint64    // reservations.id
    UserID     uint64    // reservations.user_id
    TableID    uint64    // reservations.table_id
    ReservedAt time.Time // reservations.reserved_at
}
