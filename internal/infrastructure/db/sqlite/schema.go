package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// schema is the full database schema. reserves.clothes_id is UNIQUE: the
// database, not the application, guarantees one reservation per item.
const schema = `
CREATE TABLE IF NOT EXISTS clothes (
    id              INTEGER PRIMARY KEY,
    type            TEXT NOT NULL,
    size            REAL NOT NULL,
    registered_time DATETIME NOT NULL,
    status          TEXT NOT NULL DEFAULT '' CHECK (status IN ('', 'reserved'))
);

CREATE TABLE IF NOT EXISTS users (
    id       INTEGER PRIMARY KEY,
    auth0_id TEXT NOT NULL UNIQUE,
    e_mail   TEXT NOT NULL UNIQUE,
    address  TEXT NOT NULL DEFAULT '',
    role     TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('user', 'staff', 'manager'))
);

CREATE TABLE IF NOT EXISTS reserves (
    id         INTEGER PRIMARY KEY,
    clothes_id INTEGER NOT NULL UNIQUE REFERENCES clothes(id),
    user_id    INTEGER NOT NULL REFERENCES users(id)
);
`

// migrations are applied in order after schema creation. Each must be
// idempotent. Append new migrations at the end.
var migrations = []string{
	// Migration 1: reservations are listed per user on every bulk call.
	`CREATE INDEX IF NOT EXISTS idx_reserves_user_id ON reserves(user_id)`,
}

// Migrate creates the schema and applies pending migrations.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}
	for i, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("running migration %d: %w", i+1, err)
		}
	}
	return nil
}
