package handler

import (
    "context"
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-seating/internal/repository"
    "github.com/iliyamo/event-seating/internal/service"
)

// ReservationHandler maps the reservation endpoints onto the service
// rules: quota on create, the projected-capacity check on cancel.
type ReservationHandler struct {
    Svc *service.ReservationService
}

func NewReservationHandler(s *service.ReservationService) *ReservationHandler {
    return &ReservationHandler{Svc: s}
}

type createReservationReq struct {
    TableID uint64 `json:"table_id"`
}

// ListMine returns the caller's reservations with table details.
func (h *ReservationHandler) ListMine(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    list, err := h.Svc.ListForUser(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, list)
}

// ListAll returns every reservation so any attendee can see which tables
// are taken and by whom.
func (h *ReservationHandler) ListAll(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    list, err := h.Svc.ListAll(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, list)
}

// Chairs returns the caller's total seat allowance: the personal extra
// quota plus the capacities of every table currently held.
func (h *ReservationHandler) Chairs(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    total, err := h.Svc.TotalChairs(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"total_chairs": total})
}

// Create reserves a table for the caller.  Both failure modes are 409s:
// the table already taken (storage constraint decides the race) and the
// caller's table quota exhausted.
func (h *ReservationHandler) Create(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req createReservationReq
    if err := c.Bind(&req); err != nil || req.TableID == 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "table_id required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    id, err := h.Svc.Reserve(ctx, uid, req.TableID)
    switch {
    case err == nil:
        return c.JSON(http.StatusCreated, echo.Map{"id": id})
    case errors.Is(err, repository.ErrNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
    case errors.Is(err, repository.ErrTableReserved):
        return c.JSON(http.StatusConflict, echo.Map{"error": "table already reserved"})
    case errors.Is(err, service.ErrTableQuotaExceeded):
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create reservation failed"})
    }
}

// Cancel removes the caller's reservation.  A cancel that would strand
// registered guests without seats is refused with the capacity message
// verbatim, so the client can show it directly.
func (h *ReservationHandler) Cancel(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    err = h.Svc.Cancel(ctx, uid, id)
    var capErr *service.CapacityError
    switch {
    case err == nil:
        return c.NoContent(http.StatusNoContent)
    case errors.As(err, &capErr):
        return c.JSON(http.StatusConflict, echo.Map{"error": capErr.Error()})
    case errors.Is(err, repository.ErrNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel reservation failed"})
    }
}
