// Package db provides PostgreSQL storage for generated datasets.
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

// schema creates the dataset tables when they do not exist yet
const schema = `
CREATE TABLE IF NOT EXISTS generation_runs (
	id          UUID PRIMARY KEY,
	seed        TEXT NOT NULL,
	policy      TEXT NOT NULL,
	parameters  JSONB NOT NULL,
	nb_stacks   INTEGER NOT NULL,
	nb_items    INTEGER NOT NULL,
	nb_plates   INTEGER NOT NULL,
	nb_defects  INTEGER NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS dataset_items (
	run_id    UUID NOT NULL REFERENCES generation_runs(id) ON DELETE CASCADE,
	item_id   INTEGER NOT NULL,
	stack_id  INTEGER NOT NULL,
	sequence  INTEGER NOT NULL,
	length    INTEGER NOT NULL,
	width     INTEGER NOT NULL,
	PRIMARY KEY (run_id, item_id)
);

CREATE TABLE IF NOT EXISTS dataset_defects (
	run_id     UUID NOT NULL REFERENCES generation_runs(id) ON DELETE CASCADE,
	defect_id  INTEGER NOT NULL,
	plate_id   INTEGER NOT NULL,
	x          INTEGER NOT NULL,
	y          INTEGER NOT NULL,
	width      INTEGER NOT NULL,
	height     INTEGER NOT NULL,
	PRIMARY KEY (run_id, defect_id)
);
`

// EnsureSchema creates the dataset tables if needed
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
