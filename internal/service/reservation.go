package service

import (
    "context"
    "time"

    "github.com/iliyamo/event-seating/internal/capacity"
    "github.com/iliyamo/event-seating/internal/model"
    "github.com/iliyamo/event-seating/internal/queue"
    "github.com/iliyamo/event-seating/internal/repository"
)

// ReservationLedger is the storage surface the reservation rules run
// against.  Create must fail with repository.ErrTableReserved when the
// table already has a reservation; the implementation enforces that with
// a unique index, not an existence check.
type ReservationLedger interface {
    Create(ctx context.Context, userID, tableID uint64) (uint64, error)
    Delete(ctx context.Context, id, userID uint64) error
    ListByUser(ctx context.Context, userID uint64) ([]repository.ReservationDetail, error)
    ListAll(ctx context.Context) ([]repository.OccupancyDetail, error)
    CountByUser(ctx context.Context, userID uint64) (int, error)
    TotalChairs(ctx context.Context, userID uint64) (int, error)
}

// GuestCounter exposes the live guest count used by the pre-cancel check.
type GuestCounter interface {
    CountByUser(ctx context.Context, userID uint64) (int, error)
}

// UserGetter loads users for quota checks and event enrichment.
type UserGetter interface {
    GetByID(ctx context.Context, id uint64) (model.User, error)
}

// TableGetter loads tables so a reserve against a missing table surfaces
// as not found instead of a foreign-key error.
type TableGetter interface {
    GetByID(ctx context.Context, id uint64) (model.Table, error)
}

// Notifier publishes reservation events to the broker.  Publishing is
// best-effort: failures never fail the request.
type Notifier interface {
    Publish(ctx context.Context, ev queue.ReservationEvent)
}

// ReservationService owns reservation create/cancel and the capacity
// accounting around them.
type ReservationService struct {
    ledger   ReservationLedger
    guests   GuestCounter
    users    UserGetter
    tables   TableGetter
    notifier Notifier
}

func NewReservationService(ledger ReservationLedger, guests GuestCounter, users UserGetter, tables TableGetter, notifier Notifier) *ReservationService {
    return &ReservationService{ledger: ledger, guests: guests, users: users, tables: tables, notifier: notifier}
}

// Reserve books tableID for the user.  Non-admins are held to their
// mesa_quota, counted against live reservations at call time.  The
// per-table uniqueness itself is left to the ledger's constraint: two
// concurrent calls for the same table race down to the insert and exactly
// one wins.
func (s *ReservationService) Reserve(ctx context.Context, userID, tableID uint64) (uint64, error) {
    user, err := s.users.GetByID(ctx, userID)
    if err != nil {
        return 0, err
    }
    table, err := s.tables.GetByID(ctx, tableID)
    if err != nil {
        return 0, err
    }
    if !user.IsAdmin {
        held, err := s.ledger.CountByUser(ctx, userID)
        if err != nil {
            return 0, err
        }
        if held >= user.MesaQuota {
            return 0, ErrTableQuotaExceeded
        }
    }
    id, err := s.ledger.Create(ctx, userID, tableID)
    if err != nil {
        return 0, err
    }
    if s.notifier != nil {
        s.notifier.Publish(ctx, queue.ReservationEvent{
            Action:        queue.ActionReservationCreated,
            ReservationID: id,
            UserID:        userID,
            Username:      user.Username,
            TableID:       tableID,
            TableNumber:   table.Name,
            Capacity:      table.Capacity,
            OccurredAt:    time.Now().UTC().Format(time.RFC3339),
        })
    }
    return id, nil
}

// Cancel removes the user's reservation after the capacity check: the
// guest count must not exceed the allowance as it will stand once the
// reservation is gone.  The future allowance is computed analytically
// (sum excluding this reservation) before anything is deleted, so a
// rejected cancel leaves no state to revert.  The delete itself is scoped
// to (id, userID); cancelling someone else's reservation reports not
// found.
func (s *ReservationService) Cancel(ctx context.Context, userID, reservationID uint64) error {
    guests, err := s.guests.CountByUser(ctx, userID)
    if err != nil {
        return err
    }
    user, err := s.users.GetByID(ctx, userID)
    if err != nil {
        return err
    }
    held, err := s.ledger.ListByUser(ctx, userID)
    if err != nil {
        return err
    }
    byReservation := make(map[uint64]int, len(held))
    for _, r := range held {
        byReservation[r.ID] = r.Capacity
    }
    remaining := capacity.TotalExcluding(user.CadeiraExtraQuota, byReservation, reservationID)
    if guests > remaining {
        return &CapacityError{Guests: guests, Remaining: remaining}
    }
    if err := s.ledger.Delete(ctx, reservationID, userID); err != nil {
        return err
    }
    if s.notifier != nil {
        s.notifier.Publish(ctx, queue.ReservationEvent{
            Action:        queue.ActionReservationCancelled,
            ReservationID: reservationID,
            UserID:        userID,
            OccurredAt:    time.Now().UTC().Format(time.RFC3339),
        })
    }
    return nil
}

// ListForUser returns the caller's reservations with table attributes.
func (s *ReservationService) ListForUser(ctx context.Context, userID uint64) ([]repository.ReservationDetail, error) {
    return s.ledger.ListByUser(ctx, userID)
}

// ListAll returns every reservation for the occupancy display.
func (s *ReservationService) ListAll(ctx context.Context) ([]repository.OccupancyDetail, error) {
    return s.ledger.ListAll(ctx)
}

// TotalChairs returns the user's current seat allowance.
func (s *ReservationService) TotalChairs(ctx context.Context, userID uint64) (int, error) {
    return s.ledger.TotalChairs(ctx, userID)
}
