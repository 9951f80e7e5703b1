package store

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"

	"github.com/starford/hoken/internal/apperr"
	"github.com/starford/hoken/internal/models"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "hoken-store-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// seededDB returns a DB holding the default categories.
func seededDB(t *testing.T) *DB {
	t.Helper()
	db := testDB(t)
	if err := EnsureCategories(context.Background(), db, "", testLogger()); err != nil {
		t.Fatalf("EnsureCategories: %v", err)
	}
	return db
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func insert(t *testing.T, db *DB, m NewMaterial) int64 {
	t.Helper()
	if m.Type == "" {
		m.Type = "url"
	}
	if m.Tags == "" {
		m.Tags = "[]"
	}
	id, err := db.CreateMaterial(context.Background(), m)
	if err != nil {
		t.Fatalf("CreateMaterial: %v", err)
	}
	return id
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	for _, table := range []string{"categories", "materials", "seed_state"} {
		var count int
		if err := db.conn.QueryRow(`SELECT count(*) FROM ` + table).Scan(&count); err != nil {
			t.Fatalf("%s table missing: %v", table, err)
		}
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	f := filepath.Join(t.TempDir(), "twice.db")
	db, err := Open(f)
	if err != nil {
		t.Fatal(err)
	}
	db.Close()
	db, err = Open(f)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	db.Close()
}

func TestListCategories_OrderedByID(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	cats := []models.Category{
		{ID: 3, Name: "C", Color: "#333"},
		{ID: 1, Name: "A", Color: "#111"},
		{ID: 2, Name: "B", Color: "#222"},
	}
	if err := db.UpsertCategories(ctx, cats, "test", "x"); err != nil {
		t.Fatal(err)
	}
	got, err := db.ListCategories(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 || got[0].ID != 1 || got[1].ID != 2 || got[2].ID != 3 {
		t.Errorf("categories = %+v", got)
	}
}

func TestListCategories_EmptyIsNotNil(t *testing.T) {
	db := testDB(t)
	got, err := db.ListCategories(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("empty categories = %#v", got)
	}
}

func TestUpsertCategories_UpdatesInPlace(t *testing.T) {
	db := seededDB(t)
	ctx := context.Background()

	if err := db.UpsertCategories(ctx, []models.Category{{ID: 1, Name: "Food", Color: "#000"}}, "test", "y"); err != nil {
		t.Fatal(err)
	}
	got, _ := db.ListCategories(ctx)
	if len(got) != len(DefaultCategories()) {
		t.Fatalf("upsert removed categories: %d left", len(got))
	}
	if got[0].Name != "Food" || got[0].Color != "#000" {
		t.Errorf("category 1 = %+v", got[0])
	}
	cs, _ := db.SeedChecksum(ctx, "test")
	if cs != "y" {
		t.Errorf("checksum = %q", cs)
	}
}

func TestSeedChecksum_Unknown(t *testing.T) {
	db := testDB(t)
	cs, err := db.SeedChecksum(context.Background(), "nope")
	if err != nil || cs != "" {
		t.Errorf("SeedChecksum = %q, %v", cs, err)
	}
}

func TestCategorySeed_Validate(t *testing.T) {
	cases := []struct {
		name string
		seed CategorySeed
		ok   bool
	}{
		{"defaults", CategorySeed{Categories: DefaultCategories()}, true},
		{"empty", CategorySeed{}, true},
		{"missing name", CategorySeed{Categories: []models.Category{{ID: 1, Color: "#fff"}}}, false},
		{"missing color", CategorySeed{Categories: []models.Category{{ID: 1, Name: "A"}}}, false},
		{"zero id", CategorySeed{Categories: []models.Category{{Name: "A", Color: "#fff"}}}, false},
		{"duplicate id", CategorySeed{Categories: []models.Category{
			{ID: 1, Name: "A", Color: "#fff"},
			{ID: 1, Name: "B", Color: "#000"},
		}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.seed.Validate()
			if (err == nil) != tc.ok {
				t.Errorf("Validate() = %v, want ok=%v", err, tc.ok)
			}
		})
	}
}

const seedYAML = `categories:
  - id: 1
    name: Nutrition
    icon: "🥗"
    color: "#10b981"
  - id: 2
    name: Sleep
    color: "#3b82f6"
`

func TestSyncCategoriesFile_SkipsUnchanged(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "categories.yaml")
	writeFile(t, path, seedYAML)

	applied, err := SyncCategoriesFile(ctx, db, path, testLogger())
	if err != nil || !applied {
		t.Fatalf("first sync = %v, %v", applied, err)
	}
	applied, err = SyncCategoriesFile(ctx, db, path, testLogger())
	if err != nil || applied {
		t.Fatalf("second sync = %v, %v; want skipped", applied, err)
	}

	cats, _ := db.ListCategories(ctx)
	if len(cats) != 2 || cats[1].Name != "Sleep" {
		t.Errorf("categories = %+v", cats)
	}
}

func TestSyncCategoriesFile_InvalidFile(t *testing.T) {
	db := testDB(t)
	path := filepath.Join(t.TempDir(), "categories.yaml")
	writeFile(t, path, "categories:\n  - id: 1\n")

	if _, err := SyncCategoriesFile(context.Background(), db, path, testLogger()); err == nil {
		t.Fatal("expected validation error for category without name")
	}
	n, _ := db.CountCategories(context.Background())
	if n != 0 {
		t.Errorf("invalid file wrote %d categories", n)
	}
}

func TestEnsureCategories_MissingFileFallsBack(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "absent.yaml")

	if err := EnsureCategories(ctx, db, path, testLogger()); err != nil {
		t.Fatalf("EnsureCategories: %v", err)
	}
	n, _ := db.CountCategories(ctx)
	if n != len(DefaultCategories()) {
		t.Errorf("count = %d, want defaults", n)
	}
}

func TestEnsureCategories_KeepsExisting(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	if err := db.UpsertCategories(ctx, []models.Category{{ID: 9, Name: "Custom", Color: "#999"}}, "manual", ""); err != nil {
		t.Fatal(err)
	}
	if err := EnsureCategories(ctx, db, "", testLogger()); err != nil {
		t.Fatal(err)
	}
	cats, _ := db.ListCategories(ctx)
	if len(cats) != 1 || cats[0].ID != 9 {
		t.Errorf("defaults overwrote existing categories: %+v", cats)
	}
}

func TestCreateAndGetMaterial(t *testing.T) {
	db := seededDB(t)
	ctx := context.Background()

	id := insert(t, db, NewMaterial{
		Title:      "Handwashing",
		CategoryID: 4,
		FileURL:    "https://youtu.be/abc",
		FileType:   "YouTube Video",
		Tags:       `["hygiene"]`,
	})

	row, err := db.GetMaterial(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if row.Title != "Handwashing" || row.CategoryName != "Hygiene" || row.CategoryColor != "#06b6d4" {
		t.Errorf("row = %+v", row)
	}
	if row.Tags.String != `["hygiene"]` || row.FileType.String != "YouTube Video" {
		t.Errorf("stored columns = %+v", row)
	}
	if row.FileSize.Int64 != 0 || row.Keywords.Valid {
		t.Errorf("unset columns = %+v", row)
	}
	if row.CreatedAt.IsZero() {
		t.Error("created_at not set")
	}
}

func TestGetMaterial_NotFound(t *testing.T) {
	db := seededDB(t)
	_, err := db.GetMaterial(context.Background(), 42)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("err = %v, want not found", err)
	}
}

func TestCreateMaterial_UnknownCategory(t *testing.T) {
	db := seededDB(t)
	_, err := db.CreateMaterial(context.Background(), NewMaterial{
		Title: "Orphan", CategoryID: 77, Type: "url", FileURL: "https://example.com", Tags: "[]",
	})
	if !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("err = %v, want validation", err)
	}
}

func TestListMaterials_Filters(t *testing.T) {
	db := seededDB(t)
	ctx := context.Background()

	insert(t, db, NewMaterial{Title: "Veggie plate", CategoryID: 1, FileURL: "https://example.com/1", Tags: `["lunch"]`})
	insert(t, db, NewMaterial{Title: "Yoga", Description: "calm breathing", CategoryID: 3, FileURL: "https://example.com/2"})
	insert(t, db, NewMaterial{Title: "Fruit", CategoryID: 1, FileURL: "https://example.com/3", Tags: `["Lunch","snack"]`})

	cases := []struct {
		name   string
		filter ListFilter
		want   int
	}{
		{"no filter", ListFilter{}, 3},
		{"all", ListFilter{CategoryID: AllCategories}, 3},
		{"category", ListFilter{CategoryID: "1"}, 2},
		{"empty category", ListFilter{CategoryID: "5"}, 0},
		{"title", ListFilter{Search: "Yoga"}, 1},
		{"description", ListFilter{Search: "breathing"}, 1},
		{"tags", ListFilter{Search: "lunch"}, 1},
		{"case sensitive", ListFilter{Search: "yoga"}, 0},
		{"trimmed", ListFilter{Search: "  Fruit  "}, 1},
		{"category and search", ListFilter{CategoryID: "3", Search: "Fruit"}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows, err := db.ListMaterials(ctx, tc.filter)
			if err != nil {
				t.Fatal(err)
			}
			if len(rows) != tc.want {
				t.Errorf("len = %d, want %d", len(rows), tc.want)
			}
		})
	}
}

func TestListMaterials_InvalidCategory(t *testing.T) {
	db := seededDB(t)
	for _, cat := range []string{"abc", "-1", "0", "1.5"} {
		_, err := db.ListMaterials(context.Background(), ListFilter{CategoryID: cat})
		if !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("category %q: err = %v, want validation", cat, err)
		}
	}
}

func TestListMaterials_OrderAndPaging(t *testing.T) {
	db := seededDB(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	var ids []int64
	for i := 0; i < 5; i++ {
		ids = append(ids, insert(t, db, NewMaterial{
			Title:      "m",
			CategoryID: 2,
			FileURL:    "https://example.com",
			CreatedAt:  base.Add(time.Duration(i) * time.Hour),
		}))
	}
	// Same timestamp as the newest: id breaks the tie.
	ids = append(ids, insert(t, db, NewMaterial{
		Title: "tie", CategoryID: 2, FileURL: "https://example.com", CreatedAt: base.Add(4 * time.Hour),
	}))

	rows, err := db.ListMaterials(ctx, ListFilter{})
	if err != nil {
		t.Fatal(err)
	}
	want := []int64{ids[5], ids[4], ids[3], ids[2], ids[1], ids[0]}
	for i, r := range rows {
		if r.ID != want[i] {
			t.Fatalf("order[%d] = %d, want %d", i, r.ID, want[i])
		}
	}

	page, _ := db.ListMaterials(ctx, ListFilter{Limit: 2, Offset: 1})
	if len(page) != 2 || page[0].ID != ids[4] || page[1].ID != ids[3] {
		t.Errorf("page = %+v", page)
	}

	past, _ := db.ListMaterials(ctx, ListFilter{Limit: 10, Offset: 10})
	if len(past) != 0 {
		t.Errorf("offset past end = %d rows", len(past))
	}

	neg, _ := db.ListMaterials(ctx, ListFilter{Limit: 1, Offset: -3})
	if len(neg) != 1 || neg[0].ID != ids[5] {
		t.Errorf("negative offset = %+v", neg)
	}
}

func TestListMaterials_DefaultLimit(t *testing.T) {
	db := seededDB(t)
	for i := 0; i < DefaultLimit+5; i++ {
		insert(t, db, NewMaterial{Title: "bulk", CategoryID: 1, FileURL: "https://example.com"})
	}
	rows, err := db.ListMaterials(context.Background(), ListFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != DefaultLimit {
		t.Errorf("len = %d, want %d", len(rows), DefaultLimit)
	}
}

func TestDeleteMaterial(t *testing.T) {
	db := seededDB(t)
	ctx := context.Background()
	id := insert(t, db, NewMaterial{Title: "gone", CategoryID: 5, FileURL: "https://example.com"})

	ok, err := db.DeleteMaterial(ctx, id)
	if err != nil || !ok {
		t.Fatalf("delete = %v, %v", ok, err)
	}
	ok, err = db.DeleteMaterial(ctx, id)
	if err != nil || ok {
		t.Errorf("second delete = %v, %v; want false, nil", ok, err)
	}
	n, _ := db.CountMaterials(ctx)
	if n != 0 {
		t.Errorf("count = %d", n)
	}
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatchCategories_ReloadsOnWrite(t *testing.T) {
	db := testDB(t)
	path := filepath.Join(t.TempDir(), "categories.yaml")
	writeFile(t, path, seedYAML)
	if err := EnsureCategories(context.Background(), db, path, testLogger()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	reloaded := make(chan struct{}, 4)
	done := make(chan error, 1)
	go func() {
		done <- WatchCategories(ctx, db, path, testLogger(), func() { reloaded <- struct{}{} })
	}()
	defer func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("WatchCategories: %v", err)
		}
	}()

	time.Sleep(100 * time.Millisecond)
	writeFile(t, path, seedYAML+"  - id: 3\n    name: Posture\n    color: \"#000000\"\n")

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		n, _ := db.CountCategories(context.Background())
		return n == 3
	}, "edited categories file not applied by watcher")

	select {
	case <-reloaded:
	case <-time.After(2 * time.Second):
		t.Error("expected reload callback")
	}
}

func TestWatchCategories_RemoveKeepsCategories(t *testing.T) {
	db := testDB(t)
	path := filepath.Join(t.TempDir(), "categories.yaml")
	writeFile(t, path, seedYAML)
	if err := EnsureCategories(context.Background(), db, path, testLogger()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- WatchCategories(ctx, db, path, testLogger(), nil) }()

	time.Sleep(100 * time.Millisecond)
	_ = os.Remove(path)
	time.Sleep(2 * reloadDebounce)

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("WatchCategories: %v", err)
	}
	n, _ := db.CountCategories(context.Background())
	if n != 2 {
		t.Errorf("count after remove = %d, want 2", n)
	}
}
