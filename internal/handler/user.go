package handler

import (
    "context"
    "net/http"
    "strings"

    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-seating/internal/config"
    "github.com/iliyamo/event-seating/internal/repository"
    "github.com/iliyamo/event-seating/internal/utils"
)

// UserHandler exposes the admin user-management endpoints.
type UserHandler struct {
    Cfg   config.Config
    Users *repository.UserRepo
}

func NewUserHandler(cfg config.Config, u *repository.UserRepo) *UserHandler {
    return &UserHandler{Cfg: cfg, Users: u}
}

type createUserReq struct {
    Name              string `json:"name"`
    Username          string `json:"username"`
    Password          string `json:"password"`
    MesaQuota         int    `json:"mesa_quota"`
    CadeiraExtraQuota int    `json:"cadeira_extra_quota"`
}

type updateUserReq struct {
    Name              string `json:"name"`
    Username          string `json:"username"`
    Password          string `json:"password"` // empty keeps the current one
    MesaQuota         int    `json:"mesa_quota"`
    CadeiraExtraQuota int    `json:"cadeira_extra_quota"`
}

// List returns every account with its quotas for the admin dashboard.
func (h *UserHandler) List(c echo.Context) error {
    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    users, err := h.Users.List(ctx)
    if err != nil {
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
    }
    out := make([]userPart, 0, len(users))
    for _, u := range users {
        out = append(out, userPart{
            ID:                u.ID,
            Name:              u.Name,
            Username:          u.Username,
            IsAdmin:           u.IsAdmin,
            MesaQuota:         u.MesaQuota,
            CadeiraExtraQuota: u.CadeiraExtraQuota,
        })
    }
    return c.JSON(http.StatusOK, out)
}

// Create registers a new account.  Quotas below zero are rejected rather
// than clamped so typos do not silently zero a user's allowance.
func (h *UserHandler) Create(c echo.Context) error {
    var req createUserReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Username = strings.TrimSpace(req.Username)
    if req.Username == "" || req.Password == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "username/password required"})
    }
    if req.MesaQuota < 0 || req.CadeiraExtraQuota < 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "quotas must not be negative"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    id, err := h.Users.Create(ctx, req.Name, req.Username, req.Password,
        req.MesaQuota, req.CadeiraExtraQuota, h.Cfg.BcryptCost)
    if err != nil {
        if err == repository.ErrUsernameExists {
            return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create user failed"})
    }
    return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// Update rewrites profile and quotas; a non-empty password also resets the
// credential.
func (h *UserHandler) Update(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }
    var req updateUserReq
    if err := c.Bind(&req); err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
    }
    req.Username = strings.TrimSpace(req.Username)
    if req.Username == "" {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "username required"})
    }
    if req.MesaQuota < 0 || req.CadeiraExtraQuota < 0 {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "quotas must not be negative"})
    }

    var hash string
    if req.Password != "" {
        hash, err = utils.HashPassword(req.Password, h.Cfg.BcryptCost)
        if err != nil {
            return c.JSON(http.StatusInternalServerError, echo.Map{"error": "hash password failed"})
        }
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    err = h.Users.Update(ctx, id, req.Name, req.Username, req.MesaQuota, req.CadeiraExtraQuota, hash)
    switch err {
    case nil:
        return c.NoContent(http.StatusNoContent)
    case repository.ErrNotFound:
        return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
    case repository.ErrUsernameExists:
        return c.JSON(http.StatusConflict, echo.Map{"error": "username already exists"})
    default:
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update user failed"})
    }
}

// Delete removes a non-admin account; its reservations and guests cascade
// with it, which frees the tables the user held.
func (h *UserHandler) Delete(c echo.Context) error {
    id, err := pathID(c)
    if err != nil {
        return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
    }

    ctx, cancel := context.WithTimeout(c.Request().Context(), dbTimeout)
    defer cancel()

    if err := h.Users.Delete(ctx, id); err != nil {
        if err == repository.ErrNotFound {
            return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
        }
        return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete user failed"})
    }
    return c.NoContent(http.StatusNoContent)
}
