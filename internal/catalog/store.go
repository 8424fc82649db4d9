package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"

	_ "modernc.org/sqlite"
)

// Store provides read-only queries over the downloader's catalog.
type Store struct {
	db   *sql.DB
	path string
}

// Open connects to an existing catalog database. The file must already
// exist; this tool never creates or migrates the schema. The connection
// is forced read-only so no query can mutate the downloader's data.
func Open(path string) (*Store, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: no catalog database at %s", ErrStoreUnavailable, path)
		}
		return nil, fmt.Errorf("%w: stat %s: %w", ErrStoreUnavailable, path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrStoreUnavailable, path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", ErrStoreUnavailable, path, err)
	}

	pragmas := []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA query_only = ON",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: apply pragma %q: %w", ErrStoreUnavailable, pragma, execErr)
		}
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping %s: %w", ErrStoreUnavailable, path, err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the catalog file the store was opened against.
func (s *Store) Path() string {
	return s.path
}

// TablesPresent lists the offline-storage tables that exist in the
// catalog, in name order.
func (s *Store) TablesPresent(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT name FROM sqlite_master
        WHERE type = 'table' AND (name LIKE 'offline%' OR name LIKE 'download%')
        ORDER BY name`)
	if err != nil {
		return nil, wrapQuery("list offline storage tables", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, wrapQuery("scan table name", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapQuery("list offline storage tables", err)
	}
	return names, nil
}

// ListManga returns all downloaded manga, most recently downloaded
// first. An empty catalog yields an empty slice, not an error.
func (s *Store) ListManga(ctx context.Context) ([]*Manga, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, extension_id, manga_id, manga_slug,
               downloaded_at, last_updated_at, total_size_bytes
        FROM offline_manga
        ORDER BY downloaded_at DESC`)
	if err != nil {
		return nil, wrapQuery("list downloaded manga", err)
	}
	defer rows.Close()

	var list []*Manga
	for rows.Next() {
		manga, err := scanManga(rows)
		if err != nil {
			return nil, wrapQuery("scan downloaded manga", err)
		}
		list = append(list, manga)
	}
	return list, rows.Err()
}

// ListChaptersByManga returns downloaded chapters grouped per manga.
// Groups are ordered by manga slug (the browse-by-title view, distinct
// from ListManga's recency ordering) and chapters by chapter number.
func (s *Store) ListChaptersByManga(ctx context.Context) ([]MangaChapters, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT
            oc.id, oc.offline_manga_id, om.manga_slug,
            oc.chapter_id, oc.chapter_number, oc.chapter_title,
            oc.total_pages, oc.downloaded_at, oc.size_bytes
        FROM offline_chapters oc
        JOIN offline_manga om ON oc.offline_manga_id = om.id
        ORDER BY om.manga_slug, oc.chapter_number`)
	if err != nil {
		return nil, wrapQuery("list downloaded chapters", err)
	}
	defer rows.Close()

	var groups []MangaChapters
	for rows.Next() {
		chapter, err := scanChapterWithSlug(rows)
		if err != nil {
			return nil, wrapQuery("scan downloaded chapter", err)
		}
		if len(groups) == 0 || groups[len(groups)-1].Slug != chapter.MangaSlug {
			groups = append(groups, MangaChapters{Slug: chapter.MangaSlug})
		}
		last := &groups[len(groups)-1]
		last.Chapters = append(last.Chapters, chapter)
	}
	return groups, rows.Err()
}

// ListQueue returns all queue entries ordered by priority descending,
// oldest queued first within a priority band. The row id breaks any
// remaining tie so full ties keep insertion order.
func (s *Store) ListQueue(ctx context.Context) ([]*QueueItem, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT `+queueColumns+`
        FROM download_queue
        ORDER BY priority DESC, queued_at ASC, id ASC`)
	if err != nil {
		return nil, wrapQuery("list download queue", err)
	}
	defer rows.Close()

	var items []*QueueItem
	for rows.Next() {
		item, err := scanQueueItem(rows)
		if err != nil {
			return nil, wrapQuery("scan queue entry", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Stats computes the summary counters. Each counter is its own query,
// so the numbers may straddle a concurrent writer's commits.
func (s *Store) Stats(ctx context.Context) (Statistics, error) {
	var stats Statistics

	counts := []struct {
		intent string
		query  string
		dest   *int
	}{
		{"count downloaded manga", `SELECT COUNT(*) FROM offline_manga`, &stats.MangaCount},
		{"count downloaded chapters", `SELECT COUNT(*) FROM offline_chapters`, &stats.ChapterCount},
		{"count queued entries", `SELECT COUNT(*) FROM download_queue WHERE status = 'queued'`, &stats.QueuedCount},
		{"count downloading entries", `SELECT COUNT(*) FROM download_queue WHERE status = 'downloading'`, &stats.DownloadingCount},
		{"count failed entries", `SELECT COUNT(*) FROM download_queue WHERE status = 'failed'`, &stats.FailedCount},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return Statistics{}, wrapQuery(c.intent, err)
		}
	}

	row := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(total_size_bytes), 0) FROM offline_manga`)
	if err := row.Scan(&stats.TotalSizeBytes); err != nil {
		return Statistics{}, wrapQuery("sum downloaded size", err)
	}
	return stats, nil
}

// BuildSnapshot runs the inventory and statistics queries sequentially
// and assembles the result for rendering. There is deliberately no
// wrapping transaction; see the package doc.
func (s *Store) BuildSnapshot(ctx context.Context) (*Snapshot, error) {
	tables, err := s.TablesPresent(ctx)
	if err != nil {
		return nil, err
	}
	manga, err := s.ListManga(ctx)
	if err != nil {
		return nil, err
	}
	groups, err := s.ListChaptersByManga(ctx)
	if err != nil {
		return nil, err
	}
	queue, err := s.ListQueue(ctx)
	if err != nil {
		return nil, err
	}
	stats, err := s.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Tables:        tables,
		Manga:         manga,
		ChapterGroups: groups,
		Queue:         queue,
		Stats:         stats,
	}, nil
}

// GetManga fetches one manga by its business key. A missing row returns
// (nil, nil): not-found is a normal outcome, not an error.
func (s *Store) GetManga(ctx context.Context, extensionID, mangaID string) (*Manga, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, extension_id, manga_id, manga_slug,
               downloaded_at, last_updated_at, total_size_bytes
        FROM offline_manga
        WHERE extension_id = ? AND manga_id = ?`,
		extensionID, mangaID)
	manga, err := scanManga(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapQuery("get manga", err)
	}
	return manga, nil
}

// ChaptersForManga returns one manga's downloaded chapters ordered by
// chapter number.
func (s *Store) ChaptersForManga(ctx context.Context, mangaRowID int64) ([]*Chapter, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, offline_manga_id, chapter_id, chapter_number,
               chapter_title, total_pages, downloaded_at, size_bytes
        FROM offline_chapters
        WHERE offline_manga_id = ?
        ORDER BY chapter_number`,
		mangaRowID)
	if err != nil {
		return nil, wrapQuery("list chapters for manga", err)
	}
	defer rows.Close()

	var chapters []*Chapter
	for rows.Next() {
		chapter, err := scanChapter(rows)
		if err != nil {
			return nil, wrapQuery("scan chapter", err)
		}
		chapters = append(chapters, chapter)
	}
	return chapters, rows.Err()
}

// QueueForManga returns one manga's queue entries in the same order as
// ListQueue.
func (s *Store) QueueForManga(ctx context.Context, extensionID, mangaID string) ([]*QueueItem, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT `+queueColumns+`
        FROM download_queue
        WHERE extension_id = ? AND manga_id = ?
        ORDER BY priority DESC, queued_at ASC, id ASC`,
		extensionID, mangaID)
	if err != nil {
		return nil, wrapQuery("list queue entries for manga", err)
	}
	defer rows.Close()

	var items []*QueueItem
	for rows.Next() {
		item, err := scanQueueItem(rows)
		if err != nil {
			return nil, wrapQuery("scan queue entry", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// Lookup answers "what do we know about this one manga". When the manga
// was never downloaded it returns (nil, nil); queue entries alone do
// not constitute a catalog record.
func (s *Store) Lookup(ctx context.Context, extensionID, mangaID string) (*MangaDetail, error) {
	manga, err := s.GetManga(ctx, extensionID, mangaID)
	if err != nil {
		return nil, err
	}
	if manga == nil {
		return nil, nil
	}
	chapters, err := s.ChaptersForManga(ctx, manga.ID)
	if err != nil {
		return nil, err
	}
	queue, err := s.QueueForManga(ctx, extensionID, mangaID)
	if err != nil {
		return nil, err
	}
	return &MangaDetail{Manga: manga, Chapters: chapters, Queue: queue}, nil
}

const queueColumns = `id, extension_id, manga_id, manga_slug, chapter_id,
        chapter_number, chapter_title, status, priority, queued_at,
        started_at, completed_at, error_message, progress_current, progress_total`

func scanManga(scanner interface{ Scan(dest ...any) error }) (*Manga, error) {
	var (
		m           Manga
		lastUpdated sql.NullInt64
		totalSize   sql.NullInt64
	)
	if err := scanner.Scan(
		&m.ID,
		&m.ExtensionID,
		&m.MangaID,
		&m.Slug,
		&m.DownloadedAt,
		&lastUpdated,
		&totalSize,
	); err != nil {
		return nil, err
	}
	m.LastUpdatedAt = int64Ptr(lastUpdated)
	m.TotalSizeBytes = totalSize.Int64
	return &m, nil
}

func scanChapter(scanner interface{ Scan(dest ...any) error }) (*Chapter, error) {
	var (
		c          Chapter
		number     sql.NullFloat64
		title      sql.NullString
		totalPages sql.NullInt64
		sizeBytes  sql.NullInt64
	)
	if err := scanner.Scan(
		&c.ID,
		&c.MangaRowID,
		&c.ChapterID,
		&number,
		&title,
		&totalPages,
		&c.DownloadedAt,
		&sizeBytes,
	); err != nil {
		return nil, err
	}
	c.ChapterNumber = number.Float64
	c.ChapterTitle = stringPtr(title)
	c.TotalPages = int64Ptr(totalPages)
	c.SizeBytes = sizeBytes.Int64
	return &c, nil
}

func scanChapterWithSlug(scanner interface{ Scan(dest ...any) error }) (*Chapter, error) {
	var (
		c          Chapter
		number     sql.NullFloat64
		title      sql.NullString
		totalPages sql.NullInt64
		sizeBytes  sql.NullInt64
	)
	if err := scanner.Scan(
		&c.ID,
		&c.MangaRowID,
		&c.MangaSlug,
		&c.ChapterID,
		&number,
		&title,
		&totalPages,
		&c.DownloadedAt,
		&sizeBytes,
	); err != nil {
		return nil, err
	}
	c.ChapterNumber = number.Float64
	c.ChapterTitle = stringPtr(title)
	c.TotalPages = int64Ptr(totalPages)
	c.SizeBytes = sizeBytes.Int64
	return &c, nil
}

func scanQueueItem(scanner interface{ Scan(dest ...any) error }) (*QueueItem, error) {
	var (
		q               QueueItem
		chapterID       sql.NullString
		chapterNumber   sql.NullFloat64
		chapterTitle    sql.NullString
		statusStr       string
		startedAt       sql.NullInt64
		completedAt     sql.NullInt64
		errorMessage    sql.NullString
		progressCurrent sql.NullInt64
		progressTotal   sql.NullInt64
	)
	if err := scanner.Scan(
		&q.ID,
		&q.ExtensionID,
		&q.MangaID,
		&q.MangaSlug,
		&chapterID,
		&chapterNumber,
		&chapterTitle,
		&statusStr,
		&q.Priority,
		&q.QueuedAt,
		&startedAt,
		&completedAt,
		&errorMessage,
		&progressCurrent,
		&progressTotal,
	); err != nil {
		return nil, err
	}
	q.ChapterID = stringPtr(chapterID)
	q.ChapterNumber = float64Ptr(chapterNumber)
	q.ChapterTitle = stringPtr(chapterTitle)
	q.RawStatus = statusStr
	q.Status = ParseStatus(statusStr)
	q.StartedAt = int64Ptr(startedAt)
	q.CompletedAt = int64Ptr(completedAt)
	q.ErrorMessage = stringPtr(errorMessage)
	q.ProgressCurrent = int64Ptr(progressCurrent)
	q.ProgressTotal = int64Ptr(progressTotal)
	return &q, nil
}

func int64Ptr(value sql.NullInt64) *int64 {
	if !value.Valid {
		return nil
	}
	v := value.Int64
	return &v
}

func float64Ptr(value sql.NullFloat64) *float64 {
	if !value.Valid {
		return nil
	}
	v := value.Float64
	return &v
}

func stringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}
