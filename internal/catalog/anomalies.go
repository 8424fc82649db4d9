package catalog

import (
	"context"
	"database/sql"
)

// DuplicateQueueRow is a chapter-level queue entry whose chapter is
// already present in the downloaded catalog.
type DuplicateQueueRow struct {
	QueueID       int64
	MangaSlug     string
	ChapterID     string
	ChapterNumber *float64
	Status        Status
	RawStatus     string
}

// FrozenDownloadRow is a queue entry stuck in the downloading status.
type FrozenDownloadRow struct {
	QueueID       int64
	MangaSlug     string
	ChapterNumber *float64
	StartedAt     int64
}

// EmptyChapterRow is a downloaded chapter recorded with no pages.
type EmptyChapterRow struct {
	ChapterRowID  int64
	MangaSlug     string
	ChapterID     string
	ChapterNumber float64
	TotalPages    *int64
}

// DuplicateChapterQueueEntries finds queue entries that name a chapter
// already downloaded. The joins use business keys, (extension_id,
// manga_id) for the manga and chapter_id for the chapter, because the
// queue and the downloaded tables share no surrogate ids. Whole-manga
// entries (NULL chapter_id) never match. Entries of every status are
// returned, including completed ones the downloader has not purged;
// severity filtering is a rendering concern.
func (s *Store) DuplicateChapterQueueEntries(ctx context.Context) ([]DuplicateQueueRow, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT dq.id, om.manga_slug, dq.chapter_id, dq.chapter_number, dq.status
        FROM download_queue dq
        JOIN offline_manga om ON dq.extension_id = om.extension_id
            AND dq.manga_id = om.manga_id
        JOIN offline_chapters oc ON oc.offline_manga_id = om.id
            AND oc.chapter_id = dq.chapter_id
        WHERE dq.chapter_id IS NOT NULL
        ORDER BY dq.id`)
	if err != nil {
		return nil, wrapQuery("find already-downloaded chapters in queue", err)
	}
	defer rows.Close()

	var dups []DuplicateQueueRow
	for rows.Next() {
		var (
			dup    DuplicateQueueRow
			number sql.NullFloat64
			status string
		)
		if err := rows.Scan(&dup.QueueID, &dup.MangaSlug, &dup.ChapterID, &number, &status); err != nil {
			return nil, wrapQuery("scan duplicate queue entry", err)
		}
		dup.ChapterNumber = float64Ptr(number)
		dup.RawStatus = status
		dup.Status = ParseStatus(status)
		dups = append(dups, dup)
	}
	return dups, rows.Err()
}

// FrozenDownloads finds entries in the downloading status whose
// started_at is strictly more than threshold milliseconds before now.
// The caller supplies now so the boundary is testable.
func (s *Store) FrozenDownloads(ctx context.Context, nowMillis, thresholdMillis int64) ([]FrozenDownloadRow, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, manga_slug, chapter_number, started_at
        FROM download_queue
        WHERE status = 'downloading'
            AND started_at IS NOT NULL
            AND ? - started_at > ?
        ORDER BY id`,
		nowMillis, thresholdMillis)
	if err != nil {
		return nil, wrapQuery("find frozen downloads", err)
	}
	defer rows.Close()

	var frozen []FrozenDownloadRow
	for rows.Next() {
		var (
			row    FrozenDownloadRow
			number sql.NullFloat64
		)
		if err := rows.Scan(&row.QueueID, &row.MangaSlug, &number, &row.StartedAt); err != nil {
			return nil, wrapQuery("scan frozen download", err)
		}
		row.ChapterNumber = float64Ptr(number)
		frozen = append(frozen, row)
	}
	return frozen, rows.Err()
}

// EmptyChapters finds downloaded chapters whose total_pages is zero or
// NULL. The two cases are not distinguished.
func (s *Store) EmptyChapters(ctx context.Context) ([]EmptyChapterRow, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT oc.id, om.manga_slug, oc.chapter_id, oc.chapter_number, oc.total_pages
        FROM offline_chapters oc
        JOIN offline_manga om ON oc.offline_manga_id = om.id
        WHERE oc.total_pages = 0 OR oc.total_pages IS NULL
        ORDER BY om.manga_slug, oc.chapter_number`)
	if err != nil {
		return nil, wrapQuery("find chapters with zero pages", err)
	}
	defer rows.Close()

	var empty []EmptyChapterRow
	for rows.Next() {
		var (
			row    EmptyChapterRow
			number sql.NullFloat64
			pages  sql.NullInt64
		)
		if err := rows.Scan(&row.ChapterRowID, &row.MangaSlug, &row.ChapterID, &number, &pages); err != nil {
			return nil, wrapQuery("scan empty chapter", err)
		}
		row.ChapterNumber = number.Float64
		row.TotalPages = int64Ptr(pages)
		empty = append(empty, row)
	}
	return empty, rows.Err()
}
