// Package router wires the HTTP surface: public endpoints, the
// JWT-protected group and the admin-only subgroup.
package router

import (
    "github.com/labstack/echo/v4"

    "github.com/iliyamo/event-seating/internal/handler"
    "github.com/iliyamo/event-seating/internal/middleware"
)

// Handlers bundles everything the routes need.
type Handlers struct {
    Auth        *handler.AuthHandler
    Users       *handler.UserHandler
    Tables      *handler.TableHandler
    Reservation *handler.ReservationHandler
    Guests      *handler.GuestHandler
    EventConfig *handler.EventConfigHandler
    TableMap    *handler.TableMapHandler
}

// Register mounts all routes on the Echo instance.  Public routes carry
// no middleware; everything under the authenticated group runs JWTAuth,
// and the admin subgroup additionally runs RequireAdmin.
//
// The response cache is applied per-route, and only to reads whose body
// is identical for every caller (catalog, occupancy, map, imagery).
// Per-user reads like /reservations or /guests must never pass through
// it: the cache key carries no user identity, so a shared entry would
// serve one user's rows to another.
func Register(e *echo.Echo, h Handlers, jwtSecret string, cache echo.MiddlewareFunc) {
    // Liveness probe for load balancers.
    e.GET("/healthz", handler.Health)

    // Login is the only unauthenticated API endpoint.
    e.POST("/v1/auth/login", h.Auth.Login)

    auth := e.Group("/v1")
    auth.Use(middleware.JWTAuth(jwtSecret))

    auth.GET("/me", h.Auth.Me)

    // Catalog and occupancy views are open to every attendee and read
    // the same for all of them, so they take the shared cache.
    auth.GET("/tables", h.Tables.List, cache)
    auth.GET("/event-config", h.EventConfig.Get, cache)
    auth.GET("/table-map", h.TableMap.Get, cache)

    auth.GET("/reservations", h.Reservation.ListMine)
    auth.GET("/reservations/all", h.Reservation.ListAll, cache)
    auth.GET("/reservations/chairs", h.Reservation.Chairs)
    auth.POST("/reservations", h.Reservation.Create)
    auth.DELETE("/reservations/:id", h.Reservation.Cancel)

    auth.GET("/guests", h.Guests.List)
    auth.POST("/guests", h.Guests.Add)
    auth.DELETE("/guests/:id", h.Guests.Delete)

    admin := auth.Group("")
    admin.Use(middleware.RequireAdmin())

    admin.GET("/users", h.Users.List)
    admin.POST("/users", h.Users.Create)
    admin.PUT("/users/:id", h.Users.Update)
    admin.DELETE("/users/:id", h.Users.Delete)

    admin.POST("/tables", h.Tables.Create)
    admin.DELETE("/tables/:id", h.Tables.Delete)

    admin.GET("/report/guests", h.Guests.Report)

    admin.PUT("/event-config", h.EventConfig.Update)
    admin.POST("/event-config/upload", h.EventConfig.Upload)

    admin.POST("/table-map", h.TableMap.Place)
    admin.PUT("/table-map/:id", h.TableMap.Update)
    admin.DELETE("/table-map/:id", h.TableMap.Remove)
    admin.PUT("/table-map-config", h.TableMap.SetSize)
}
