package main

import (
	"time"

	"mangadoctor/internal/catalog"
	"mangadoctor/internal/doctor"
)

// JSON view types keep the wire shape of --json output decoupled from
// the internal models.

type mangaJSON struct {
	ID             int64  `json:"id"`
	ExtensionID    string `json:"extension_id"`
	MangaID        string `json:"manga_id"`
	Slug           string `json:"slug"`
	DownloadedAt   int64  `json:"downloaded_at"`
	LastUpdatedAt  *int64 `json:"last_updated_at"`
	TotalSizeBytes int64  `json:"total_size_bytes"`
}

type chapterJSON struct {
	ID            int64   `json:"id"`
	ChapterID     string  `json:"chapter_id"`
	ChapterNumber float64 `json:"chapter_number"`
	ChapterTitle  *string `json:"chapter_title"`
	TotalPages    *int64  `json:"total_pages"`
	DownloadedAt  int64   `json:"downloaded_at"`
	SizeBytes     int64   `json:"size_bytes"`
}

type chapterGroupJSON struct {
	Slug     string        `json:"slug"`
	Chapters []chapterJSON `json:"chapters"`
}

type queueItemJSON struct {
	ID              int64    `json:"id"`
	ExtensionID     string   `json:"extension_id"`
	MangaID         string   `json:"manga_id"`
	MangaSlug       string   `json:"manga_slug"`
	ChapterID       *string  `json:"chapter_id"`
	ChapterNumber   *float64 `json:"chapter_number"`
	ChapterTitle    *string  `json:"chapter_title"`
	Status          string   `json:"status"`
	RawStatus       string   `json:"raw_status,omitempty"`
	Priority        int64    `json:"priority"`
	QueuedAt        int64    `json:"queued_at"`
	StartedAt       *int64   `json:"started_at"`
	CompletedAt     *int64   `json:"completed_at"`
	ErrorMessage    *string  `json:"error_message"`
	ProgressCurrent *int64   `json:"progress_current"`
	ProgressTotal   *int64   `json:"progress_total"`
	ProgressPercent float64  `json:"progress_percent"`
}

type statsJSON struct {
	MangaCount       int   `json:"manga_count"`
	ChapterCount     int   `json:"chapter_count"`
	QueuedCount      int   `json:"queued_count"`
	DownloadingCount int   `json:"downloading_count"`
	FailedCount      int   `json:"failed_count"`
	TotalSizeBytes   int64 `json:"total_size_bytes"`
}

type inspectJSON struct {
	RunID       string             `json:"run_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	CatalogPath string             `json:"catalog_path"`
	Tables      []string           `json:"tables"`
	Manga       []mangaJSON        `json:"manga"`
	Chapters    []chapterGroupJSON `json:"chapters"`
	Queue       []queueItemJSON    `json:"queue"`
	Stats       statsJSON          `json:"stats"`
	Anomalies   *doctor.Report     `json:"anomalies"`
}

type lookupJSON struct {
	RunID       string          `json:"run_id"`
	GeneratedAt time.Time       `json:"generated_at"`
	ExtensionID string          `json:"extension_id"`
	MangaID     string          `json:"manga_id"`
	Found       bool            `json:"found"`
	Manga       *mangaJSON      `json:"manga,omitempty"`
	Chapters    []chapterJSON   `json:"chapters,omitempty"`
	Queue       []queueItemJSON `json:"queue,omitempty"`
}

func mangaView(m *catalog.Manga) mangaJSON {
	return mangaJSON{
		ID:             m.ID,
		ExtensionID:    m.ExtensionID,
		MangaID:        m.MangaID,
		Slug:           m.Slug,
		DownloadedAt:   m.DownloadedAt,
		LastUpdatedAt:  m.LastUpdatedAt,
		TotalSizeBytes: m.TotalSizeBytes,
	}
}

func chapterViews(chapters []*catalog.Chapter) []chapterJSON {
	views := make([]chapterJSON, 0, len(chapters))
	for _, ch := range chapters {
		views = append(views, chapterJSON{
			ID:            ch.ID,
			ChapterID:     ch.ChapterID,
			ChapterNumber: ch.ChapterNumber,
			ChapterTitle:  ch.ChapterTitle,
			TotalPages:    ch.TotalPages,
			DownloadedAt:  ch.DownloadedAt,
			SizeBytes:     ch.SizeBytes,
		})
	}
	return views
}

func queueViews(items []*catalog.QueueItem) []queueItemJSON {
	views := make([]queueItemJSON, 0, len(items))
	for _, item := range items {
		view := queueItemJSON{
			ID:              item.ID,
			ExtensionID:     item.ExtensionID,
			MangaID:         item.MangaID,
			MangaSlug:       item.MangaSlug,
			ChapterID:       item.ChapterID,
			ChapterNumber:   item.ChapterNumber,
			ChapterTitle:    item.ChapterTitle,
			Status:          string(item.Status),
			Priority:        item.Priority,
			QueuedAt:        item.QueuedAt,
			StartedAt:       item.StartedAt,
			CompletedAt:     item.CompletedAt,
			ErrorMessage:    item.ErrorMessage,
			ProgressCurrent: item.ProgressCurrent,
			ProgressTotal:   item.ProgressTotal,
			ProgressPercent: item.ProgressPercent(),
		}
		if item.Status == catalog.StatusUnknown {
			view.RawStatus = item.RawStatus
		}
		views = append(views, view)
	}
	return views
}

func buildInspectJSON(runID, path string, snapshot *catalog.Snapshot, report *doctor.Report) inspectJSON {
	manga := make([]mangaJSON, 0, len(snapshot.Manga))
	for _, m := range snapshot.Manga {
		manga = append(manga, mangaView(m))
	}
	groups := make([]chapterGroupJSON, 0, len(snapshot.ChapterGroups))
	for _, group := range snapshot.ChapterGroups {
		groups = append(groups, chapterGroupJSON{
			Slug:     group.Slug,
			Chapters: chapterViews(group.Chapters),
		})
	}
	return inspectJSON{
		RunID:       runID,
		GeneratedAt: time.Now(),
		CatalogPath: path,
		Tables:      snapshot.Tables,
		Manga:       manga,
		Chapters:    groups,
		Queue:       queueViews(snapshot.Queue),
		Stats: statsJSON{
			MangaCount:       snapshot.Stats.MangaCount,
			ChapterCount:     snapshot.Stats.ChapterCount,
			QueuedCount:      snapshot.Stats.QueuedCount,
			DownloadingCount: snapshot.Stats.DownloadingCount,
			FailedCount:      snapshot.Stats.FailedCount,
			TotalSizeBytes:   snapshot.Stats.TotalSizeBytes,
		},
		Anomalies: report,
	}
}

func buildLookupJSON(runID, extensionID, mangaID string, detail *catalog.MangaDetail) lookupJSON {
	view := lookupJSON{
		RunID:       runID,
		GeneratedAt: time.Now(),
		ExtensionID: extensionID,
		MangaID:     mangaID,
	}
	if detail == nil {
		return view
	}
	view.Found = true
	manga := mangaView(detail.Manga)
	view.Manga = &manga
	view.Chapters = chapterViews(detail.Chapters)
	view.Queue = queueViews(detail.Queue)
	return view
}
