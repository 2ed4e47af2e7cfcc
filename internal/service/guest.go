package service

import (
    "context"
    "strings"

    "github.com/iliyamo/event-seating/internal/model"
)

// GuestRoster is the storage surface for guest records.
type GuestRoster interface {
    ListByUser(ctx context.Context, userID uint64) ([]model.Guest, error)
    CountByUser(ctx context.Context, userID uint64) (int, error)
    Create(ctx context.Context, userID uint64, name string) (uint64, error)
    Delete(ctx context.Context, id, userID uint64) error
}

// SeatAllowance computes the user's current total seat allowance.
type SeatAllowance interface {
    TotalChairs(ctx context.Context, userID uint64) (int, error)
}

// GuestService bounds guest registration by the live seat allowance.
type GuestService struct {
    roster GuestRoster
    seats  SeatAllowance
}

func NewGuestService(roster GuestRoster, seats SeatAllowance) *GuestService {
    return &GuestService{roster: roster, seats: seats}
}

// List returns the user's guests.
func (s *GuestService) List(ctx context.Context, userID uint64) ([]model.Guest, error) {
    return s.roster.ListByUser(ctx, userID)
}

// Add registers a named guest.  The limit is checked against the
// allowance at call time only; a reservation cancelled concurrently is
// not guarded against, which is acceptable at this scale because the
// cancel path re-checks the other direction.
func (s *GuestService) Add(ctx context.Context, userID uint64, name string) (uint64, error) {
    name = strings.TrimSpace(name)
    if name == "" {
        return 0, ErrEmptyGuestName
    }
    count, err := s.roster.CountByUser(ctx, userID)
    if err != nil {
        return 0, err
    }
    allowance, err := s.seats.TotalChairs(ctx, userID)
    if err != nil {
        return 0, err
    }
    if count >= allowance {
        return 0, ErrGuestQuotaExceeded
    }
    return s.roster.Create(ctx, userID, name)
}

// Remove deletes the user's guest.  A guest owned by someone else is
// reported as not found by the roster.
func (s *GuestService) Remove(ctx context.Context, userID, guestID uint64) error {
    return s.roster.Delete(ctx, guestID, userID)
}
