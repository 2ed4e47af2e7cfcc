package model

import "time"

// Table is a physical table at the event.  Capacity is the number of
// seats; Name doubles as the display number and is unique.  Tables created
// through the floor-plan map receive generated numeric names.
type Table struct {
    ID        uint64    // tables.id
    Name      string    // tables.name
    Capacity  int       // tables.capacity
    CreatedAt time.Time // tables.created_at
}
