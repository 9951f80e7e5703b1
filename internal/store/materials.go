package store

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"

	"github.com/starford/hoken/internal/apperr"
)

// AllCategories is the category filter value that disables filtering.
const AllCategories = "all"

// DefaultLimit is applied when a list filter carries no positive limit.
const DefaultLimit = 20

// MaterialRow is a materials row joined with its category. Tags holds the
// serialized tag blob exactly as stored.
type MaterialRow struct {
	ID            int64
	Title         string
	Description   string
	CategoryID    int64
	Type          string
	FileURL       sql.NullString
	FileType      sql.NullString
	FileSize      sql.NullInt64
	Tags          sql.NullString
	Keywords      sql.NullString
	CreatedAt     time.Time
	CategoryName  string
	CategoryIcon  string
	CategoryColor string
}

// NewMaterial is the row written by CreateMaterial. It is persisted verbatim.
type NewMaterial struct {
	Title       string
	Description string
	CategoryID  int64
	Type        string
	FileURL     string
	FileType    string
	FileSize    int64
	Tags        string
	Keywords    string
	CreatedAt   time.Time
}

// ListFilter narrows ListMaterials. CategoryID "" or AllCategories matches
// every category. Search is matched case-sensitively against title,
// description and the serialized tags.
type ListFilter struct {
	CategoryID string
	Search     string
	Limit      int
	Offset     int
}

const selectMaterialSQL = `
	SELECT m.id, m.title, m.description, m.category_id, m.type,
	       m.file_url, m.file_type, m.file_size, m.tags, m.keywords, m.created_at,
	       c.name, c.icon, c.color
	FROM materials m
	JOIN categories c ON c.id = m.category_id
`

type scanner interface {
	Scan(dest ...any) error
}

func scanMaterial(s scanner) (MaterialRow, error) {
	var r MaterialRow
	err := s.Scan(&r.ID, &r.Title, &r.Description, &r.CategoryID, &r.Type,
		&r.FileURL, &r.FileType, &r.FileSize, &r.Tags, &r.Keywords, &r.CreatedAt,
		&r.CategoryName, &r.CategoryIcon, &r.CategoryColor)
	return r, err
}

// ListMaterials returns materials newest first, filtered then paginated.
func (db *DB) ListMaterials(ctx context.Context, f ListFilter) ([]MaterialRow, error) {
	var (
		where []string
		args  []any
	)

	if cat := strings.TrimSpace(f.CategoryID); cat != "" && cat != AllCategories {
		id, err := strconv.ParseInt(cat, 10, 64)
		if err != nil || id <= 0 {
			return nil, apperr.Validation("invalid category")
		}
		where = append(where, "m.category_id = ?")
		args = append(args, id)
	}

	// instr() keeps the match case-sensitive, unlike SQLite's ASCII-folding LIKE.
	if term := strings.TrimSpace(f.Search); term != "" {
		where = append(where, "(instr(m.title, ?) > 0 OR instr(m.description, ?) > 0 OR instr(COALESCE(m.tags, ''), ?) > 0)")
		args = append(args, term, term, term)
	}

	limit := f.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	offset := f.Offset
	if offset < 0 {
		offset = 0
	}

	q := selectMaterialSQL
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY m.created_at DESC, m.id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := db.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, apperr.Store("list materials", err)
	}
	defer rows.Close()

	out := []MaterialRow{}
	for rows.Next() {
		r, err := scanMaterial(rows)
		if err != nil {
			return nil, apperr.Store("scan material", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Store("list materials", err)
	}
	return out, nil
}

// GetMaterial returns one material joined with its category.
func (db *DB) GetMaterial(ctx context.Context, id int64) (*MaterialRow, error) {
	r, err := scanMaterial(db.conn.QueryRowContext(ctx, selectMaterialSQL+" WHERE m.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("material not found")
	}
	if err != nil {
		return nil, apperr.Store("get material", err)
	}
	return &r, nil
}

// CreateMaterial inserts m and returns the assigned id. A category_id that
// does not reference an existing category is reported as a validation error.
func (db *DB) CreateMaterial(ctx context.Context, m NewMaterial) (int64, error) {
	createdAt := m.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	res, err := db.conn.ExecContext(ctx, `
		INSERT INTO materials (title, description, category_id, type, file_url, file_type, file_size, tags, keywords, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.Title, m.Description, m.CategoryID, m.Type,
		nullString(m.FileURL), nullString(m.FileType), m.FileSize,
		m.Tags, nullString(m.Keywords), createdAt.UTC())
	if err != nil {
		var se sqlite3.Error
		if errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintForeignKey {
			return 0, apperr.Validation("category does not exist")
		}
		return 0, apperr.Store("create material", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, apperr.Store("create material", err)
	}
	return id, nil
}

// DeleteMaterial removes the material with id. It reports false, without an
// error, when no row matched.
func (db *DB) DeleteMaterial(ctx context.Context, id int64) (bool, error) {
	res, err := db.conn.ExecContext(ctx, `DELETE FROM materials WHERE id = ?`, id)
	if err != nil {
		return false, apperr.Store("delete material", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperr.Store("delete material", err)
	}
	return n > 0, nil
}

// CountMaterials returns the number of stored materials.
func (db *DB) CountMaterials(ctx context.Context) (int, error) {
	var n int
	if err := db.conn.QueryRowContext(ctx, `SELECT count(*) FROM materials`).Scan(&n); err != nil {
		return 0, apperr.Store("count materials", err)
	}
	return n, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
