package model

import "time"

// Guest is a named seat claim belonging to exactly one user.  The number
// of guests a user may register is bounded by their seat allowance at the
// time of registration.
type Guest struct {
    ID        uint64    // guests.id
    UserID    uint64    // guests.user_id
    Name      string    // guests.name
    CreatedAt time.Time // guests.created_at
}
