package handler

import (
    "context"
    "encoding/base64"
    "fmt"
    "io"
    "net/http"
    "strings"
    "time"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-seating/internal/repository"
)

// maxUploadBytes caps uploaded images; anything larger is rejected before
// it is read into memory.
const maxUploadBytes = 10 << 20

// EventConfigHandler manages the event imagery on the singleton config
// row.  Images travel as data URLs so they render without a separate
// asset store.
type EventConfigHandler struct {
    Cfg *repository.EventConfigRepo
}

func NewEventConfigHandler(r *repository.EventConfigRepo) *EventConfigHandler {
    return &EventConfigHandler{Cfg: r}
}

type eventConfigResp struct {
    EventImage string `json:"event_image"`
    MainImage  string `json:"main_image"`
    UpdatedAt  string `json:"updated_at"`
}

type updateEventConfigReq struct {
    EventImage *string `json:"event_image"`
    MainImage  *string `json:"main_image"`
}

// Get returns the stored imagery for any authenticated user.
func (h *EventConfigHandler) Get(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    cfg, err := h.Cfg.Get(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    return c.JSON(http.StatusOK, eventConfigResp{
        EventImage: cfg.EventImage,
        MainImage:  cfg.MainImage,
        UpdatedAt:  cfg.UpdatedAt.UTC().Format(time.RFC3339),
    })
}

// Update stores whichever images are present in the body.  Absent fields
// are left untouched; an empty string clears the image.
func (h *EventConfigHandler) Update(c echo.Context) error {
    var req updateEventConfigReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    if req.EventImage == nil && req.MainImage == nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "event_image or main_image required"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    if req.EventImage != nil {
        if err := h.Cfg.SetEventImage(ctx, *req.EventImage); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save event image failed"})
        }
    }
    if req.MainImage != nil {
        if err := h.Cfg.SetMainImage(ctx, *req.MainImage); err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save main image failed"})
        }
    }
    return c.NoContent(http.StatusNoContent)
}

// Upload accepts a multipart image in the "file" field, converts it to a
// base64 data URL and stores it.  The optional "target" field selects
// which image to replace: "event" (default, the floor-plan background) or
// "main".
func (h *EventConfigHandler) Upload(c echo.Context) error {
    fh, err := c.FormFile("file")
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "file required"})
    }
    if fh.Size > maxUploadBytes {
        return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file exceeds 10 MiB"})
    }

    f, err := fh.Open()
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read upload failed"})
    }
    defer f.Close()

    // LimitReader guards against a lying Content-Length.
    raw, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "read upload failed"})
    }
    if len(raw) > maxUploadBytes {
        return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": "file exceeds 10 MiB"})
    }

    mime := fh.Header.Get("Content-Type")
    if mime == "" || !strings.HasPrefix(mime, "image/") {
        mime = "application/octet-stream"
    }
    dataURL := fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(raw))

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    switch strings.ToLower(c.FormValue("target")) {
    case "", "event":
        err = h.Cfg.SetEventImage(ctx, dataURL)
    case "main":
        err = h.Cfg.SetMainImage(ctx, dataURL)
    default:
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "target must be event or main"})
    }
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "save image failed"})
    }
    return c.JSON(http.StatusOK, echo.Map{"size": len(raw)})
}
