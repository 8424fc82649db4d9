// Package testsupport provides shared helpers for package tests:
// temp catalog databases seeded with fixture rows, and test configs.
//
// The DDL here exists only to fabricate fixtures. The real schema is
// owned by the downloader; production code never creates tables.
package testsupport

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"mangadoctor/internal/catalog"
)

const fixtureSchema = `
CREATE TABLE offline_manga (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    extension_id TEXT NOT NULL,
    manga_id TEXT NOT NULL,
    manga_slug TEXT NOT NULL,
    downloaded_at INTEGER NOT NULL,
    last_updated_at INTEGER,
    total_size_bytes INTEGER NOT NULL DEFAULT 0,
    UNIQUE (extension_id, manga_id)
);
CREATE TABLE offline_chapters (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    offline_manga_id INTEGER NOT NULL REFERENCES offline_manga(id),
    chapter_id TEXT NOT NULL,
    chapter_number REAL NOT NULL,
    chapter_title TEXT,
    total_pages INTEGER,
    downloaded_at INTEGER NOT NULL,
    size_bytes INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE download_queue (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    extension_id TEXT NOT NULL,
    manga_id TEXT NOT NULL,
    manga_slug TEXT NOT NULL,
    chapter_id TEXT,
    chapter_number REAL,
    chapter_title TEXT,
    status TEXT NOT NULL,
    priority INTEGER NOT NULL DEFAULT 0,
    queued_at INTEGER NOT NULL,
    started_at INTEGER,
    completed_at INTEGER,
    error_message TEXT,
    progress_current INTEGER,
    progress_total INTEGER
);
`

// NewCatalog creates a catalog database in a per-test temp directory
// and returns its path plus a writable handle for seeding fixtures.
func NewCatalog(t testing.TB) (string, *sql.DB) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "catalog.sqlite")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open fixture catalog: %v", err)
	}
	if _, err := db.Exec(fixtureSchema); err != nil {
		t.Fatalf("apply fixture schema: %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return path, db
}

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, path string) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(path)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// Ptr returns a pointer to v, for populating nullable fixture columns.
func Ptr[T any](v T) *T {
	return &v
}
