// Package store provides the SQLite-backed catalog of categories and materials.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS categories (
	id          INTEGER PRIMARY KEY,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	icon        TEXT NOT NULL DEFAULT '',
	color       TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS materials (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	category_id INTEGER NOT NULL REFERENCES categories(id),
	type        TEXT NOT NULL CHECK (type IN ('url', 'file')),
	file_url    TEXT,
	file_type   TEXT,
	file_size   INTEGER,
	tags        TEXT,
	keywords    TEXT,
	created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_materials_category ON materials(category_id);
CREATE INDEX IF NOT EXISTS idx_materials_created ON materials(created_at);

CREATE TABLE IF NOT EXISTS seed_state (
	name     TEXT PRIMARY KEY,
	checksum TEXT NOT NULL DEFAULT ''
);
`

// DB wraps a sql.DB with catalog operations.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database and applies the schema.
func Open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &DB{conn: conn}, nil
}

// Ping reports whether the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// Close closes the underlying database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}
