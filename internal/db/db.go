// Package db provides PostgreSQL persistence for users, search sessions and
// discovered results.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	email TEXT NOT NULL UNIQUE,
	name TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	resume_text TEXT NOT NULL DEFAULT '',
	skills JSONB NOT NULL DEFAULT '[]',
	seniority TEXT NOT NULL DEFAULT '',
	parameters JSONB NOT NULL DEFAULT '{}',
	api_key_ciphertext BYTEA,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS search_sessions (
	id TEXT PRIMARY KEY,
	user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at BIGINT NOT NULL,
	parameters JSONB NOT NULL DEFAULT '{}'
);

CREATE INDEX IF NOT EXISTS idx_search_sessions_user
	ON search_sessions(user_id, created_at DESC);

CREATE TABLE IF NOT EXISTS search_results (
	id TEXT NOT NULL,
	session_id TEXT NOT NULL REFERENCES search_sessions(id) ON DELETE CASCADE,
	position INT NOT NULL,
	company TEXT NOT NULL,
	role TEXT NOT NULL,
	hub TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	url TEXT NOT NULL DEFAULT '',
	salary_range TEXT NOT NULL DEFAULT '',
	salary_verified BOOLEAN NOT NULL DEFAULT FALSE,
	salary_confidence DOUBLE PRECISION NOT NULL DEFAULT 0,
	match_score DOUBLE PRECISION NOT NULL,
	hire_probability DOUBLE PRECISION NOT NULL,
	ghost_job BOOLEAN NOT NULL DEFAULT FALSE,
	discovered_at BIGINT NOT NULL,
	interacted BOOLEAN NOT NULL DEFAULT FALSE,
	last_interacted_at BIGINT,
	viewed_at BIGINT,
	PRIMARY KEY (session_id, id)
);
`

// Migrate applies the schema. Statements are idempotent, so this is safe to
// run at every startup.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
