package main

import (
    "context"
    stdlog "log"
    "time"

    "github.com/joho/godotenv"
    "github.com/labstack/echo/v4"
    echomw "github.com/labstack/echo/v4/middleware"
    "go.uber.org/zap"

    "github.com/iliyamo/event-seating/internal/config"
    "github.com/iliyamo/event-seating/internal/database"
    "github.com/iliyamo/event-seating/internal/handler"
    "github.com/iliyamo/event-seating/internal/logger"
    "github.com/iliyamo/event-seating/internal/middleware"
    "github.com/iliyamo/event-seating/internal/queue"
    "github.com/iliyamo/event-seating/internal/repository"
    "github.com/iliyamo/event-seating/internal/router"
    "github.com/iliyamo/event-seating/internal/service"
)

func main() {
    // .env is optional; real deployments set the environment directly.
    _ = godotenv.Load()

    cfg := config.Load()
    log, err := logger.FromEnv("event-seating")
    if err != nil {
        stdlog.Fatalf("logger init failed: %v", err)
    }
    defer func() { _ = log.Sync() }()

    db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
    if err != nil {
        log.Fatal("database open failed", zap.Error(err))
    }
    defer db.Close()

    // Schema bootstrap runs in the background with its own retry loop so a
    // slow database does not block the listener from coming up.
    go func() {
        ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
        defer cancel()
        if err := database.InitSchema(ctx, db, cfg.BcryptCost, log); err != nil {
            log.Error("schema bootstrap failed", zap.Error(err))
        }
    }()

    rdb := config.NewRedisClient()

    users := repository.NewUserRepo(db)
    tables := repository.NewTableRepo(db)
    reservations := repository.NewReservationRepo(db)
    guests := repository.NewGuestRepo(db)
    eventCfg := repository.NewEventConfigRepo(db)

    notifier := service.NewAMQPNotifier(log)
    reservationSvc := service.NewReservationService(reservations, guests, users, tables, notifier)
    guestSvc := service.NewGuestService(guests, reservations)
    tableMapSvc := service.NewTableMapService(db, eventCfg, tables, reservations)

    go queue.StartReservationConsumer(log)

    e := echo.New()
    e.HideBanner = true
    e.Use(echomw.Recover())
    e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

    // The response cache is handed to the router, which mounts it only on
    // routes whose body is the same for every caller.
    cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

    router.Register(e, router.Handlers{
        Auth:        handler.NewAuthHandler(cfg, users),
        Users:       handler.NewUserHandler(cfg, users),
        Tables:      handler.NewTableHandler(tables),
        Reservation: handler.NewReservationHandler(reservationSvc),
        Guests:      handler.NewGuestHandler(guestSvc, guests),
        EventConfig: handler.NewEventConfigHandler(eventCfg),
        TableMap:    handler.NewTableMapHandler(tableMapSvc),
    }, cfg.JWTSecret, cache)

    addr := ":" + cfg.Port
    log.Info("listening", zap.String("addr", addr), zap.String("env", cfg.Env))
    if err := e.Start(addr); err != nil {
        log.Fatal("server stopped", zap.Error(err))
    }
}
