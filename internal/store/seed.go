package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/hoken/internal/checksum"
	"github.com/starford/hoken/internal/models"
	pkgconfig "github.com/starford/hoken/pkg/config"
)

// categorySeedName keys the seed_state row for the categories file.
const categorySeedName = "categories"

// CategorySeed is the on-disk shape of the categories file.
type CategorySeed struct {
	Categories []models.Category `yaml:"categories"`
}

// Validate validates the seed: ids positive and unique, name and color set.
func (s *CategorySeed) Validate() error {
	seen := make(map[int64]struct{}, len(s.Categories))
	for i := range s.Categories {
		c := &s.Categories[i]
		if err := validation.ValidateStruct(c,
			validation.Field(&c.ID, validation.Required, validation.Min(int64(1))),
			validation.Field(&c.Name, validation.Required),
			validation.Field(&c.Color, validation.Required),
		); err != nil {
			return fmt.Errorf("category #%d: %w", i+1, err)
		}
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("category #%d: duplicate id %d", i+1, c.ID)
		}
		seen[c.ID] = struct{}{}
	}
	return nil
}

// DefaultCategories is seeded when no categories file is available and the
// table is still empty.
func DefaultCategories() []models.Category {
	return []models.Category{
		{ID: 1, Name: "Nutrition", Description: "Diet, food education and healthy eating", Icon: "🥗", Color: "#10b981"},
		{ID: 2, Name: "Physical Activity", Description: "Exercise, sports and movement", Icon: "🏃", Color: "#3b82f6"},
		{ID: 3, Name: "Mental Health", Description: "Stress, emotions and wellbeing", Icon: "🧠", Color: "#8b5cf6"},
		{ID: 4, Name: "Hygiene", Description: "Handwashing, dental care and infection prevention", Icon: "🧼", Color: "#06b6d4"},
		{ID: 5, Name: "Safety", Description: "First aid, injury prevention and emergencies", Icon: "🦺", Color: "#f59e0b"},
		{ID: 6, Name: "Growth & Development", Description: "Puberty, sleep and healthy growth", Icon: "🌱", Color: "#ec4899"},
	}
}

// LoadCategorySeed reads and validates a categories file and returns it with
// the digest of its raw bytes.
func LoadCategorySeed(path string) (*CategorySeed, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("store: read categories file: %w", err)
	}
	var seed CategorySeed
	if err := pkgconfig.Decode(data, &seed); err != nil {
		return nil, "", fmt.Errorf("store: categories file %s: %w", path, err)
	}
	return &seed, checksum.Sum(data), nil
}

// SyncCategoriesFile applies the categories file at path. It reports whether
// anything was written; an unchanged file (same digest as last applied) is
// skipped.
func SyncCategoriesFile(ctx context.Context, db *DB, path string, logger *slog.Logger) (bool, error) {
	seed, digest, err := LoadCategorySeed(path)
	if err != nil {
		return false, err
	}

	last, err := db.SeedChecksum(ctx, categorySeedName)
	if err != nil {
		return false, err
	}
	if last == digest {
		logger.Debug("seed: categories unchanged", slog.String("path", path))
		return false, nil
	}

	if err := db.UpsertCategories(ctx, seed.Categories, categorySeedName, digest); err != nil {
		return false, err
	}
	warnMissing(ctx, db, seed.Categories, logger)

	logger.Info("seed: categories applied",
		slog.String("path", path),
		slog.Int("count", len(seed.Categories)))
	return true, nil
}

// EnsureCategories seeds categories at startup. With a readable file it syncs
// the file; without one it falls back to DefaultCategories, but only when the
// table is empty so that existing data is never overwritten.
func EnsureCategories(ctx context.Context, db *DB, path string, logger *slog.Logger) error {
	if path != "" {
		_, err := SyncCategoriesFile(ctx, db, path, logger)
		if err == nil {
			return nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		logger.Warn("seed: categories file not found, using defaults", slog.String("path", path))
	}

	n, err := db.CountCategories(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	if err := db.UpsertCategories(ctx, DefaultCategories(), categorySeedName, ""); err != nil {
		return err
	}
	logger.Info("seed: default categories applied", slog.Int("count", len(DefaultCategories())))
	return nil
}

// warnMissing logs stored categories that the seed no longer lists.
func warnMissing(ctx context.Context, db *DB, seeded []models.Category, logger *slog.Logger) {
	stored, err := db.ListCategories(ctx)
	if err != nil {
		return
	}
	want := make(map[int64]struct{}, len(seeded))
	for _, c := range seeded {
		want[c.ID] = struct{}{}
	}
	for _, c := range stored {
		if _, ok := want[c.ID]; !ok {
			logger.Warn("seed: stored category missing from file, kept",
				slog.Int64("id", c.ID),
				slog.String("name", c.Name))
		}
	}
}
