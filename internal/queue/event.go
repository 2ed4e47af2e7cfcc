// Package queue defines message payloads exchanged over the message broker
// and the background consumer that audits them.
package queue

// Queue and action names for reservation lifecycle events.
const (
    ReservationQueueName = "reservation.events"

    ActionReservationCreated   = "created"
    ActionReservationCancelled = "cancelled"
)

// ReservationEvent is published whenever a reservation is created or
// cancelled.  It carries enough context for downstream consumers to log or
// notify without querying the primary database.  Table fields are empty on
// cancellation events.
type ReservationEvent struct {
    Action        string `json:"action"`
    ReservationID uint64 `json:"reservation_id"`
    UserID        uint64 `json:"user_id"`
    Username      string `json:"username,omitempty"`
    TableID       uint64 `json:"table_id,omitempty"`
    TableNumber   string `json:"table_number,omitempty"`
    Capacity      int    `json:"capacity,omitempty"`
    OccurredAt    string `json:"occurred_at"`
}
