package main

import (
	"fmt"
	"strconv"
	"strings"

	"mangadoctor/internal/catalog"
	"mangadoctor/internal/display"
	"mangadoctor/internal/doctor"
)

func formatStatusLabel(item *catalog.QueueItem) string {
	if item.Status == catalog.StatusUnknown {
		return fmt.Sprintf("Unknown (%s)", strings.TrimSpace(item.RawStatus))
	}
	status := string(item.Status)
	return strings.ToUpper(status[:1]) + status[1:]
}

func formatChapterNumber(number float64) string {
	return strconv.FormatFloat(number, 'f', -1, 64)
}

func formatChapterNumberPtr(number *float64) string {
	if number == nil {
		return "?"
	}
	return formatChapterNumber(*number)
}

func formatChapterTitle(title *string) string {
	if title == nil || strings.TrimSpace(*title) == "" {
		return "Untitled"
	}
	return *title
}

// queueTarget renders what a queue entry downloads: a single chapter or
// the whole manga.
func queueTarget(item *catalog.QueueItem) string {
	if !item.IsChapterDownload() {
		return "full manga"
	}
	return fmt.Sprintf("Ch %s: %s", formatChapterNumberPtr(item.ChapterNumber), formatChapterTitle(item.ChapterTitle))
}

// queueProgress renders the progress column for downloading entries and
// leaves it blank otherwise.
func queueProgress(item *catalog.QueueItem) string {
	if item.Status != catalog.StatusDownloading {
		return ""
	}
	var current, total int64
	if item.ProgressCurrent != nil {
		current = *item.ProgressCurrent
	}
	if item.ProgressTotal != nil {
		total = *item.ProgressTotal
	}
	return fmt.Sprintf("%d/%d (%.1f%%)", current, total, item.ProgressPercent())
}

func buildMangaRows(manga []*catalog.Manga) [][]string {
	rows := make([][]string, 0, len(manga))
	for _, m := range manga {
		rows = append(rows, []string{
			strconv.FormatInt(m.ID, 10),
			m.Slug,
			m.ExtensionID,
			m.MangaID,
			display.MillisValue(m.DownloadedAt),
			display.Millis(m.LastUpdatedAt),
			display.Bytes(m.TotalSizeBytes),
		})
	}
	return rows
}

func buildChapterRows(chapters []*catalog.Chapter) [][]string {
	rows := make([][]string, 0, len(chapters))
	for _, ch := range chapters {
		pages := display.NotAvailable
		if ch.TotalPages != nil {
			pages = strconv.FormatInt(*ch.TotalPages, 10)
		}
		rows = append(rows, []string{
			formatChapterNumber(ch.ChapterNumber),
			formatChapterTitle(ch.ChapterTitle),
			ch.ChapterID,
			pages,
			display.Bytes(ch.SizeBytes),
			display.MillisValue(ch.DownloadedAt),
		})
	}
	return rows
}

func buildQueueRows(items []*catalog.QueueItem) [][]string {
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		errMsg := ""
		if item.ErrorMessage != nil {
			errMsg = *item.ErrorMessage
		}
		rows = append(rows, []string{
			strconv.FormatInt(item.ID, 10),
			formatStatusLabel(item),
			item.MangaSlug,
			queueTarget(item),
			strconv.FormatInt(item.Priority, 10),
			display.MillisValue(item.QueuedAt),
			display.Millis(item.StartedAt),
			queueProgress(item),
			errMsg,
		})
	}
	return rows
}

var (
	mangaHeaders   = []string{"ID", "Slug", "Extension", "Manga ID", "Downloaded", "Updated", "Size"}
	mangaAligns    = []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft, alignRight}
	chapterHeaders = []string{"Ch", "Title", "Chapter ID", "Pages", "Size", "Downloaded"}
	chapterAligns  = []columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft}
	queueHeaders   = []string{"ID", "Status", "Manga", "Target", "Priority", "Queued", "Started", "Progress", "Error"}
	queueAligns    = []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft, alignLeft}
)

// findingLine renders one anomaly finding for the text report.
func findingLine(finding doctor.Finding) string {
	switch finding.Kind {
	case doctor.KindDuplicateQueueEntry:
		return fmt.Sprintf("Queue ID %d: %s Ch %s (chapter %s, status %s)",
			finding.QueueID,
			finding.MangaSlug,
			formatChapterNumberPtr(finding.ChapterNumber),
			finding.ChapterID,
			finding.Status)
	case doctor.KindFrozenDownload:
		return fmt.Sprintf("Queue ID %d: %s Ch %s stuck for %.1f minutes",
			finding.QueueID,
			finding.MangaSlug,
			formatChapterNumberPtr(finding.ChapterNumber),
			finding.StuckMinutes)
	case doctor.KindEmptyChapter:
		return fmt.Sprintf("%s Ch %s (chapter %s) has no pages",
			finding.MangaSlug,
			formatChapterNumberPtr(finding.ChapterNumber),
			finding.ChapterID)
	default:
		return fmt.Sprintf("%s: %s", finding.Kind, finding.MangaSlug)
	}
}

// cleanLine is the all-clear message rendered for a check with no
// findings.
func cleanLine(kind doctor.Kind) string {
	switch kind {
	case doctor.KindDuplicateQueueEntry:
		return "No chapters in queue that are already downloaded"
	case doctor.KindFrozenDownload:
		return "No frozen downloads detected"
	case doctor.KindEmptyChapter:
		return "All downloaded chapters have pages"
	default:
		return "Clean"
	}
}
