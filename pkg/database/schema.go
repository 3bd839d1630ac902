package database

import (
	"context"
	"fmt"
)

// schema is the full table layout. Statements are idempotent so the server
// can run them on every start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id           BIGSERIAL PRIMARY KEY,
		email        TEXT NOT NULL UNIQUE,
		first_name   TEXT NOT NULL,
		last_name    TEXT NOT NULL,
		role         TEXT NOT NULL CHECK (role IN ('landlord', 'tenant')),
		landlord_id  BIGINT REFERENCES users(id),
		residence_id BIGINT,
		created_at   TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS properties (
		id          BIGSERIAL PRIMARY KEY,
		name        TEXT NOT NULL DEFAULT '',
		street      TEXT NOT NULL DEFAULT '',
		city        TEXT NOT NULL DEFAULT '',
		state       TEXT NOT NULL DEFAULT '',
		zip         TEXT NOT NULL DEFAULT '',
		status      TEXT NOT NULL DEFAULT 'vacant' CHECK (status IN ('vacant', 'occupied')),
		landlord_id BIGINT NOT NULL REFERENCES users(id),
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_landlord_id ON users(landlord_id)`,
	`CREATE INDEX IF NOT EXISTS idx_users_residence_id ON users(residence_id)`,
	`CREATE INDEX IF NOT EXISTS idx_properties_landlord_id ON properties(landlord_id)`,
}

// EnsureSchema creates the tables and indexes if they do not exist yet.
func (cp *ConnectionPool) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := cp.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
