package middleware

import (
    "net/http"

    "github.com/labstack/echo/v4"
)

// RequireAdmin aborts the request with 403 unless the authenticated user
// carries the admin flag.  It assumes JWTAuth already ran and stored
// "is_admin" in the context.
func RequireAdmin() echo.MiddlewareFunc {
    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            isAdmin, ok := c.Get("is_admin").(bool)
            if !ok || !isAdmin {
                return c.JSON(http.StatusForbidden, echo.Map{"error": "admin access required"})
            }
            return next(c)
        }
    }
}
