package handler

import (
    "context"
    "errors"
    "net/http"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-seating/internal/repository"
    "github.com/iliyamo/event-seating/internal/service"
)

// TableMapHandler exposes the floor-plan marker document.  Reads are open
// to any authenticated user; edits are admin-only via the router.
type TableMapHandler struct {
    Svc *service.TableMapService
}

func NewTableMapHandler(s *service.TableMapService) *TableMapHandler {
    return &TableMapHandler{Svc: s}
}

type placeMarkerReq struct {
    X      float64 `json:"x"`
    Y      float64 `json:"y"`
    Chairs int     `json:"chairs"`
}

// updateMarkerReq uses pointers so an absent field is distinguishable
// from a zero value.
type updateMarkerReq struct {
    X      *float64 `json:"x"`
    Y      *float64 `json:"y"`
    Chairs *int     `json:"chairs"`
}

type markerSizeReq struct {
    MarkerSize int `json:"markerSize"`
}

// Get returns the normalized marker document.
func (h *TableMapHandler) Get(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    doc, err := h.Svc.Get(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, doc)
}

// Place creates a marker and its backing table in one transaction.
func (h *TableMapHandler) Place(c echo.Context) error {
    var req placeMarkerReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    marker, err := h.Svc.PlaceMarker(ctx, req.X, req.Y, req.Chairs)
    if err != nil {
        if errors.Is(err, repository.ErrTableExists) {
            return c.JSON(http.StatusConflict, echo.Map{"error": "could not allocate a table number"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "place marker failed"})
    }
    return c.JSON(http.StatusCreated, marker)
}

// Update moves and/or resizes a marker; chair changes propagate to the
// linked table's capacity.
func (h *TableMapHandler) Update(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req updateMarkerReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    marker, err := h.Svc.UpdateMarker(ctx, id, req.X, req.Y, req.Chairs)
    switch {
    case err == nil:
        return c.JSON(http.StatusOK, marker)
    case errors.Is(err, repository.ErrNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "marker not found"})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update marker failed"})
    }
}

// Remove deletes a marker and its table unless the table is reserved.
func (h *TableMapHandler) Remove(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    switch err := h.Svc.RemoveMarker(ctx, id); {
    case err == nil:
        return c.NoContent(http.StatusNoContent)
    case errors.Is(err, repository.ErrNotFound):
        return c.JSON(http.StatusNotFound, echo.Map{"error": "marker not found"})
    case errors.Is(err, repository.ErrConflict):
        return c.JSON(http.StatusConflict, echo.Map{"error": "table is reserved"})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "remove marker failed"})
    }
}

// SetSize stores the marker display size.  Values out of range are
// ignored rather than rejected; the response always carries the size in
// effect, so the client can resync.
func (h *TableMapHandler) SetSize(c echo.Context) error {
    var req markerSizeReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    size, err := h.Svc.SetMarkerSize(ctx, req.MarkerSize)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save marker size failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"markerSize": size})
}
