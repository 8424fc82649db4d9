package catalog

import "strings"

// Status represents the lifecycle of a download queue entry.
type Status string

const (
	StatusQueued      Status = "queued"
	StatusDownloading Status = "downloading"
	StatusCompleted   Status = "completed"
	StatusFailed      Status = "failed"

	// StatusUnknown is assigned to any persisted value outside the known
	// set. The downloader owns the column and may add statuses; an
	// unrecognized value is rendered distinctly, never treated as an error.
	StatusUnknown Status = "unknown"
)

var knownStatuses = map[Status]struct{}{
	StatusQueued:      {},
	StatusDownloading: {},
	StatusCompleted:   {},
	StatusFailed:      {},
}

// ParseStatus normalizes a persisted status value, mapping anything
// outside the known set to StatusUnknown.
func ParseStatus(value string) Status {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if _, ok := knownStatuses[normalized]; ok {
		return normalized
	}
	return StatusUnknown
}

// Manga is a downloaded work persisted in offline_manga.
// (extension_id, manga_id) is unique within the table.
type Manga struct {
	ID             int64
	ExtensionID    string
	MangaID        string
	Slug           string
	DownloadedAt   int64
	LastUpdatedAt  *int64
	TotalSizeBytes int64
}

// Chapter is a downloaded chapter persisted in offline_chapters, owned
// by exactly one Manga via MangaRowID.
type Chapter struct {
	ID            int64
	MangaRowID    int64
	MangaSlug     string
	ChapterID     string
	ChapterNumber float64
	ChapterTitle  *string
	TotalPages    *int64
	DownloadedAt  int64
	SizeBytes     int64
}

// QueueItem is a unit of pending, active, or terminal download work
// persisted in download_queue. A nil ChapterID means the entry covers
// the whole manga rather than a single chapter.
type QueueItem struct {
	ID              int64
	ExtensionID     string
	MangaID         string
	MangaSlug       string
	ChapterID       *string
	ChapterNumber   *float64
	ChapterTitle    *string
	Status          Status
	RawStatus       string
	Priority        int64
	QueuedAt        int64
	StartedAt       *int64
	CompletedAt     *int64
	ErrorMessage    *string
	ProgressCurrent *int64
	ProgressTotal   *int64
}

// IsChapterDownload reports whether the entry targets a single chapter.
func (q *QueueItem) IsChapterDownload() bool {
	return q.ChapterID != nil
}

// ProgressPercent returns download progress as a percentage. A nil or
// non-positive progress_total yields 0 rather than dividing by zero.
func (q *QueueItem) ProgressPercent() float64 {
	if q.ProgressTotal == nil || *q.ProgressTotal <= 0 {
		return 0
	}
	var current int64
	if q.ProgressCurrent != nil {
		current = *q.ProgressCurrent
	}
	return float64(current) / float64(*q.ProgressTotal) * 100
}

// Statistics aggregates catalog counts and the summed download size.
// Completed queue entries are intentionally not counted: the summary
// tracks outstanding and failed work, not history.
type Statistics struct {
	MangaCount       int
	ChapterCount     int
	QueuedCount      int
	DownloadingCount int
	FailedCount      int
	TotalSizeBytes   int64
}

// MangaChapters groups one manga's downloaded chapters for the
// browse-by-title view.
type MangaChapters struct {
	Slug     string
	Chapters []*Chapter
}

// Snapshot is the materialized inventory for one report run. Queries
// run sequentially without a shared transaction, so sections may
// observe different instants when the downloader is active.
type Snapshot struct {
	Tables        []string
	Manga         []*Manga
	ChapterGroups []MangaChapters
	Queue         []*QueueItem
	Stats         Statistics
}

// MangaDetail is the single-target lookup result for one
// (extension_id, manga_id) pair.
type MangaDetail struct {
	Manga    *Manga
	Chapters []*Chapter
	Queue    []*QueueItem
}
