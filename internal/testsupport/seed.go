package testsupport

import (
	"database/sql"
	"testing"
)

// MangaRow seeds one offline_manga fixture.
type MangaRow struct {
	ExtensionID    string
	MangaID        string
	Slug           string
	DownloadedAt   int64
	LastUpdatedAt  *int64
	TotalSizeBytes int64
}

// ChapterRow seeds one offline_chapters fixture.
type ChapterRow struct {
	MangaRowID    int64
	ChapterID     string
	ChapterNumber float64
	ChapterTitle  *string
	TotalPages    *int64
	DownloadedAt  int64
	SizeBytes     int64
}

// QueueRow seeds one download_queue fixture.
type QueueRow struct {
	ExtensionID     string
	MangaID         string
	Slug            string
	ChapterID       *string
	ChapterNumber   *float64
	ChapterTitle    *string
	Status          string
	Priority        int64
	QueuedAt        int64
	StartedAt       *int64
	CompletedAt     *int64
	ErrorMessage    *string
	ProgressCurrent *int64
	ProgressTotal   *int64
}

// InsertManga inserts a manga fixture and returns its row id.
func InsertManga(t testing.TB, db *sql.DB, row MangaRow) int64 {
	t.Helper()

	res, err := db.Exec(`
        INSERT INTO offline_manga (
            extension_id, manga_id, manga_slug,
            downloaded_at, last_updated_at, total_size_bytes
        ) VALUES (?, ?, ?, ?, ?, ?)`,
		row.ExtensionID, row.MangaID, row.Slug,
		row.DownloadedAt, row.LastUpdatedAt, row.TotalSizeBytes)
	if err != nil {
		t.Fatalf("insert manga fixture: %v", err)
	}
	return lastInsertID(t, res)
}

// InsertChapter inserts a chapter fixture and returns its row id.
func InsertChapter(t testing.TB, db *sql.DB, row ChapterRow) int64 {
	t.Helper()

	res, err := db.Exec(`
        INSERT INTO offline_chapters (
            offline_manga_id, chapter_id, chapter_number, chapter_title,
            total_pages, downloaded_at, size_bytes
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		row.MangaRowID, row.ChapterID, row.ChapterNumber, row.ChapterTitle,
		row.TotalPages, row.DownloadedAt, row.SizeBytes)
	if err != nil {
		t.Fatalf("insert chapter fixture: %v", err)
	}
	return lastInsertID(t, res)
}

// InsertQueueItem inserts a queue fixture and returns its row id.
func InsertQueueItem(t testing.TB, db *sql.DB, row QueueRow) int64 {
	t.Helper()

	res, err := db.Exec(`
        INSERT INTO download_queue (
            extension_id, manga_id, manga_slug, chapter_id, chapter_number,
            chapter_title, status, priority, queued_at, started_at,
            completed_at, error_message, progress_current, progress_total
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		row.ExtensionID, row.MangaID, row.Slug, row.ChapterID, row.ChapterNumber,
		row.ChapterTitle, row.Status, row.Priority, row.QueuedAt, row.StartedAt,
		row.CompletedAt, row.ErrorMessage, row.ProgressCurrent, row.ProgressTotal)
	if err != nil {
		t.Fatalf("insert queue fixture: %v", err)
	}
	return lastInsertID(t, res)
}

func lastInsertID(t testing.TB, res sql.Result) int64 {
	t.Helper()

	id, err := res.LastInsertId()
	if err != nil {
		t.Fatalf("last insert id: %v", err)
	}
	return id
}
