// Package service holds the business rules on top of the repositories:
// quota enforcement, the capacity accounting around guest registration,
// the pre-cancel projected-capacity check, and the marker/table
// synchronization for the floor-plan map.
package service

import (
    "errors"
    "fmt"
)

// ErrEmptyGuestName is returned when a guest is added with a blank name.
var ErrEmptyGuestName = errors.New("guest name is required")

// ErrGuestQuotaExceeded is returned when adding a guest would exceed the
// user's current seat allowance.
var ErrGuestQuotaExceeded = errors.New("guest list is full for your current seat allowance")

// ErrTableQuotaExceeded is returned when a non-admin tries to reserve more
// tables than their quota allows.
var ErrTableQuotaExceeded = errors.New("table reservation quota reached")

// CapacityError rejects a reservation cancel that would leave more guests
// registered than seats available.  Guests is the current guest count and
// Remaining the allowance as it would stand after the cancel; the message
// spells out both and exactly how many guests must be removed first, so
// the client can display it as-is.
type CapacityError struct {
    Guests    int
    Remaining int
}

func (e *CapacityError) Error() string {
    return fmt.Sprintf(
        "cannot remove this reservation: you have %d guest(s) registered and would have only %d seat(s) after removal; remove %d guest(s) before cancelling",
        e.Guests, e.Remaining, e.Guests-e.Remaining)
}
