package handler

import (
    "context"
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-seating/internal/repository"
    "github.com/iliyamo/event-seating/internal/service"
)

// GuestHandler exposes the caller's guest list plus the admin report.
type GuestHandler struct {
    Svc    *service.GuestService
    Guests *repository.GuestRepo
}

func NewGuestHandler(s *service.GuestService, g *repository.GuestRepo) *GuestHandler {
    return &GuestHandler{Svc: s, Guests: g}
}

type addGuestReq struct {
    Name string `json:"name"`
}

type guestPart struct {
    ID   uint64 `json:"id"`
    Name string `json:"name"`
}

// List returns the caller's guests.
func (h *GuestHandler) List(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    guests, err := h.Svc.List(ctx, uid)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    out := make([]guestPart, 0, len(guests))
    for _, g := range guests {
        out = append(out, guestPart{ID: g.ID, Name: g.Name})
    }
    return c.JSON(http.StatusOK, out)
}

// Add registers a named guest against the caller's seat allowance.
func (h *GuestHandler) Add(c echo.Context) error {
    uid, err := getUserID(c)
    if err != nil {
        return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
    }
    var req addGuestReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    id, err := h.Svc.Add(ctx, uid, req.Name)
    switch {
    case err == nil:
        return c.JSON(http.StatusCreated, echo.Map{"id": id})
    case errors.Is(err, service.ErrEmptyGuestName):
        return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
    case errors.Is(err, service.ErrGuestQuotaExceeded):
        return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "add guest failed"})
    }
}

// Delete removes one of the caller's guests.
func (h *GuestHandler) Delete(c echo.Context) error {
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

    if err := h.Svc.Remove(ctx, uid, id); err != nil {
        if errors.Is(err, repository.ErrNotFound) {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "guest not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete guest failed"})
    }
    return c.NoContent(http.StatusNoContent)
}

// Report returns every guest with their host, for the admin dashboard.
func (h *GuestHandler) Report(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    rows, err := h.Guests.Report(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, rows)
}
