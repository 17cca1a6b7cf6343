package testfixtures

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/example/fieldvisit-scheduler/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a temporary SQLite
// database for integration-style persistence tests.
type SQLiteHarness struct {
	DB      *sqlite.DB
	Users   *sqlite.UserDirectory
	Visits  *sqlite.VisitRepository
	Entries *sqlite.CalendarEntryRepository

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness constructs a SQLiteHarness over a temporary file that is
// migrated automatically. Callers may optionally invoke Close, but the helper
// also registers a cleanup callback with the provided testing.TB.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	dir := tb.TempDir()
	path := filepath.Join(dir, "agenda.db")

	db, err := sqlite.Open(sqlite.DefaultConfig(path))
	if err != nil {
		tb.Fatalf("failed to open database: %v", err)
	}

	if err := db.Migrate(context.Background()); err != nil {
		_ = db.Close()
		tb.Fatalf("failed to migrate database: %v", err)
	}

	harness := &SQLiteHarness{
		DB:      db,
		Users:   sqlite.NewUserDirectory(db),
		Visits:  sqlite.NewVisitRepository(db),
		Entries: sqlite.NewCalendarEntryRepository(db),
		cleanup: func() {
			_ = db.Close()
		},
	}

	tb.Cleanup(harness.Close)
	return harness
}

// SeedUser inserts a user fixture, failing the test on error.
func (h *SQLiteHarness) SeedUser(tb testing.TB, fixture UserFixture) {
	tb.Helper()
	if err := h.Users.InsertUser(context.Background(), fixture.Persistence()); err != nil {
		tb.Fatalf("failed to seed user %s: %v", fixture.ID, err)
	}
}

// SeedVisit inserts a visit fixture, failing the test on error.
func (h *SQLiteHarness) SeedVisit(tb testing.TB, fixture VisitFixture) {
	tb.Helper()
	if err := h.Visits.InsertVisit(context.Background(), fixture.Persistence()); err != nil {
		tb.Fatalf("failed to seed visit %s: %v", fixture.ID, err)
	}
}

// SeedEntry inserts a calendar entry fixture, failing the test on error.
func (h *SQLiteHarness) SeedEntry(tb testing.TB, fixture CalendarEntryFixture) {
	tb.Helper()
	if _, err := h.Entries.CreateEntry(context.Background(), fixture.Persistence()); err != nil {
		tb.Fatalf("failed to seed entry %s: %v", fixture.ID, err)
	}
}
