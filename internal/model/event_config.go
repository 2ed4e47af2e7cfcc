package model

import "time"

// EventConfig mirrors the singleton event_config row (id is always 1).
// EventImage holds the floor-plan background as a data URL, MainImage the
// event's cover image, Value the raw table-map document decoded with
// ParseTableMap.
type EventConfig struct {
    ID         uint8     // event_config.id (constant 1)
    EventImage string    // event_config.event_image
    MainImage  string    // event_config.main_image
    Value      []byte    // event_config.value (JSON document)
    UpdatedAt  time.Time // event_config.updated_at
}
