package database

import (
    "context"
    "database/sql"
    "fmt"
    "os"
    "time"

    _ "github.com/go-sql-driver/mysql"
    "go.uber.org/zap"

    "github.com/iliyamo/event-seating/internal/utils"
)

// Open connects to MySQL and verifies the connection.
func Open(user, pass, host, port, name string) (*sql.DB, error) {
    auth := user
    if pass != "" {
        auth = fmt.Sprintf("%s:%s", user, pass)
    }
    // parseTime=true -> DATETIME -> time.Time | loc=UTC keeps times consistent
    dsn := fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
        auth, host, port, name)

    db, err := sql.Open("mysql", dsn)
    if err != nil {
        return nil, err
    }

    // Pool settings
    db.SetMaxOpenConns(25)
    db.SetMaxIdleConns(25)
    db.SetConnMaxLifetime(30 * time.Minute)

    // Ping with timeout
    ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
    defer cancel()
    if err := db.PingContext(ctx); err != nil {
        return nil, err
    }
    return db, nil
}

// schema statements executed in order on startup.  CREATE TABLE IF NOT
// EXISTS keeps the bootstrap idempotent across restarts.  The reservations
// table carries the unique index on table_id: one reservation per table is
// a storage-level guarantee, not an application check.
var schema = []string{
    `CREATE TABLE IF NOT EXISTS users (
        id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
        name VARCHAR(255) NULL,
        username VARCHAR(255) NOT NULL,
        password_hash VARCHAR(255) NOT NULL,
        is_admin TINYINT(1) NOT NULL DEFAULT 0,
        mesa_quota INT NOT NULL DEFAULT 0,
        cadeira_extra_quota INT NOT NULL DEFAULT 0,
        created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
        UNIQUE KEY uq_users_username (username)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
    `CREATE TABLE IF NOT EXISTS tables (
        id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
        name VARCHAR(255) NOT NULL,
        capacity INT NOT NULL,
        created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
        UNIQUE KEY uq_tables_name (name)
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
    `CREATE TABLE IF NOT EXISTS reservations (
        id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
        user_id BIGINT UNSIGNED NOT NULL,
        table_id BIGINT UNSIGNED NOT NULL,
        reserved_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
        UNIQUE KEY uq_reservations_table (table_id),
        CONSTRAINT fk_reservations_user FOREIGN KEY (user_id)
            REFERENCES users (id) ON DELETE CASCADE,
        CONSTRAINT fk_reservations_table FOREIGN KEY (table_id)
            REFERENCES tables (id) ON DELETE CASCADE
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
    `CREATE TABLE IF NOT EXISTS guests (
        id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
        user_id BIGINT UNSIGNED NOT NULL,
        name VARCHAR(255) NOT NULL,
        created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
        CONSTRAINT fk_guests_user FOREIGN KEY (user_id)
            REFERENCES users (id) ON DELETE CASCADE
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
    `CREATE TABLE IF NOT EXISTS event_config (
        id TINYINT UNSIGNED NOT NULL PRIMARY KEY,
        event_image LONGTEXT NULL,
        main_image LONGTEXT NULL,
        value LONGTEXT NULL,
        updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
            ON UPDATE CURRENT_TIMESTAMP
    ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// InitSchema creates the tables, seeds the singleton event_config row and a
// default admin account.  It retries the first statement for a while so the
// server can start before the database container is ready, mirroring how
// the service is deployed.
func InitSchema(ctx context.Context, db *sql.DB, bcryptCost int, log *zap.Logger) error {
    var err error
    for attempt := 1; attempt <= 12; attempt++ {
        if _, err = db.ExecContext(ctx, schema[0]); err == nil {
            break
        }
        log.Warn("schema bootstrap not ready, retrying",
            zap.Int("attempt", attempt), zap.Error(err))
        select {
        case <-ctx.Done():
            return ctx.Err()
        case <-time.After(2500 * time.Millisecond):
        }
    }
    if err != nil {
        return fmt.Errorf("create users table: %w", err)
    }
    for _, stmt := range schema[1:] {
        if _, err := db.ExecContext(ctx, stmt); err != nil {
            return fmt.Errorf("apply schema: %w", err)
        }
    }

    // Singleton config row under the constant key 1.  INSERT IGNORE keeps
    // the existing row (and its marker document) on restart.
    const seedCfg = `INSERT IGNORE INTO event_config (id, event_image, value)
                     VALUES (1, '', '{"version":1,"markers":[],"markerSize":24}')`
    if _, err := db.ExecContext(ctx, seedCfg); err != nil {
        return fmt.Errorf("seed event config: %w", err)
    }

    // Default admin account for first login.  The password comes from
    // ADMIN_PASSWORD when set.
    var n int
    if err := db.QueryRowContext(ctx,
        `SELECT COUNT(*) FROM users WHERE username = 'admin'`).Scan(&n); err != nil {
        return fmt.Errorf("check admin: %w", err)
    }
    if n == 0 {
        pass := os.Getenv("ADMIN_PASSWORD")
        if pass == "" {
            pass = "admin123"
        }
        hash, err := utils.HashPassword(pass, bcryptCost)
        if err != nil {
            return fmt.Errorf("hash admin password: %w", err)
        }
        if _, err := db.ExecContext(ctx,
            `INSERT INTO users (username, password_hash, is_admin) VALUES ('admin', ?, 1)`,
            hash); err != nil {
            return fmt.Errorf("seed admin: %w", err)
        }
        log.Info("default admin account created")
    }
    log.Info("database schema ready")
    return nil
}
