package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/starford/hoken/internal/apperr"
	"github.com/starford/hoken/internal/models"
)

// ListCategories returns every category ordered by id.
func (db *DB) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, name, description, icon, color
		FROM categories
		ORDER BY id ASC
	`)
	if err != nil {
		return nil, apperr.Store("list categories", err)
	}
	defer rows.Close()

	out := []models.Category{}
	for rows.Next() {
		var c models.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Icon, &c.Color); err != nil {
			return nil, apperr.Store("scan category", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("list categories", err)
	}
	return out, nil
}

// UpsertCategories inserts or replaces the given categories by id within a
// transaction and records digest under the seed name. Categories absent from
// cats are left alone since materials may reference them.
func (db *DB) UpsertCategories(ctx context.Context, cats []models.Category, seedName, digest string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO categories (id, name, description, icon, color)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name        = excluded.name,
			description = excluded.description,
			icon        = excluded.icon,
			color       = excluded.color
	`)
	if err != nil {
		return fmt.Errorf("store: prepare category upsert: %w", err)
	}
	defer stmt.Close()

	for _, c := range cats {
		if _, err := stmt.ExecContext(ctx, c.ID, c.Name, c.Description, c.Icon, c.Color); err != nil {
			return fmt.Errorf("store: upsert category %d: %w", c.ID, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO seed_state (name, checksum) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET checksum = excluded.checksum
	`, seedName, digest); err != nil {
		return fmt.Errorf("store: record seed state: %w", err)
	}

	return tx.Commit()
}

// SeedChecksum returns the digest last applied under name, or "" if none.
func (db *DB) SeedChecksum(ctx context.Context, name string) (string, error) {
	var cs string
	err := db.conn.QueryRowContext(ctx, `SELECT checksum FROM seed_state WHERE name = ?`, name).Scan(&cs)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("store: seed checksum: %w", err)
	}
	return cs, nil
}

// CountCategories returns the number of stored categories.
func (db *DB) CountCategories(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT count(*) FROM categories`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count categories: %w", err)
	}
	return n, nil
}
