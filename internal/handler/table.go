package handler

import (
    "context"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-seating/internal/repository"
)

// TableHandler exposes the table catalog.  Listing is open to every
// authenticated user; create and delete are admin-only (the router
// enforces that).
type TableHandler struct {
    Tables *repository.TableRepo
}

func NewTableHandler(t *repository.TableRepo) *TableHandler {
    return &TableHandler{Tables: t}
}

type createTableReq struct {
    Name     string `json:"name"`
    Capacity int    `json:"capacity"`
}

type tablePart struct {
    ID       uint64 `json:"id"`
    Name     string `json:"name"`
    Capacity int    `json:"capacity"`
}

// List returns all tables ordered by name.
func (h *TableHandler) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    tables, err := h.Tables.List(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    out := make([]tablePart, 0, len(tables))
    for _, t := range tables {
        out = append(out, tablePart{ID: t.ID, Name: t.Name, Capacity: t.Capacity})
    }
    return c.JSON(http.StatusOK, out)
}

// Create adds a table with an explicit name, for tables managed outside
// the floor-plan editor.
func (h *TableHandler) Create(c echo.Context) error {
    var req createTableReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Name = strings.TrimSpace(req.Name)
    if req.Name == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "name required"})
    }
    if req.Capacity < 1 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be at least 1"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    id, err := h.Tables.Create(ctx, req.Name, req.Capacity)
    if err != nil {
        if err == repository.ErrTableExists {
            return c.JSON(http.StatusConflict, echo.Map{"error": "table name already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create table failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Delete removes a table.  A table with a live reservation is never
// deleted; the caller must cancel the reservation first.
func (h *TableHandler) Delete(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    switch err := h.Tables.Delete(ctx, id); err {
    case nil:
        return c.NoContent(http.StatusNoContent)
    case repository.ErrNotFound:
        return c.JSON(http.StatusNotFound, echo.Map{"error": "table not found"})
    case repository.ErrConflict:
        return c.JSON(http.StatusConflict, echo.Map{"error": "table is reserved"})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete table failed"})
    }
}
