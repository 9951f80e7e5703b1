// Package testutil provides shared test helpers for setting up catalog databases.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/starford/hoken/internal/store"
)

// Logger returns a logger that discards everything below error.
func Logger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

// TestDB creates a temporary SQLite database, seeded with the default
// categories, that is automatically cleaned up.
func TestDB(t *testing.T) *store.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "hoken-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := store.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	if err := store.EnsureCategories(context.Background(), db, "", Logger()); err != nil {
		t.Fatal(err)
	}
	return db
}
