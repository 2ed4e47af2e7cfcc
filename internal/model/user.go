package model

import "time"

// User represents an application user record as stored in the `users`
// table.  Each field corresponds to a column in the database.  Quotas are
// set by administrators: MesaQuota caps how many tables a non-admin may
// hold at once, CadeiraExtraQuota grants seats that do not depend on any
// reserved table.
//
// Fields:
//  ID                – primary key identifier of the user.
//  Name              – display name (nullable in the schema, may be empty).
//  Username          – unique login name.
//  PasswordHash      – bcrypt hashed password.
//  IsAdmin           – whether the account may manage users, tables and the map.
//  MesaQuota         – maximum concurrent table reservations for non-admins.
//  CadeiraExtraQuota – seats granted independent of reserved tables.
//  CreatedAt         – timestamp of creation.
type User struct {
    ID                uint64    // users.id
    Name              string    // users.name
    Username          string    // users.username
    PasswordHash      string    // users.password_hash
    IsAdmin           bool      // users.is_admin
    MesaQuota         int       // users.mesa_quota
    CadeiraExtraQuota int       // users.cadeira_extra_quota
    CreatedAt         time.Time // users.created_at
}
