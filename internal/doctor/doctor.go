package doctor

import (
	"context"
	"time"

	"mangadoctor/internal/catalog"
)

// FrozenThresholdMillis is how long an entry may sit in the downloading
// status before it is reported as frozen. One hour, fixed policy.
const FrozenThresholdMillis = 3600000

// Kind identifies a class of finding.
type Kind string

const (
	KindDuplicateQueueEntry Kind = "duplicate_queue_entry"
	KindFrozenDownload      Kind = "frozen_download"
	KindEmptyChapter        Kind = "empty_chapter"
)

// Title returns the human-readable check description for report output.
func (k Kind) Title() string {
	switch k {
	case KindDuplicateQueueEntry:
		return "Chapters in queue that are already downloaded"
	case KindFrozenDownload:
		return "Frozen downloads (stuck in 'downloading' for > 1 hour)"
	case KindEmptyChapter:
		return "Chapters with zero pages (possibly corrupted)"
	default:
		return string(k)
	}
}

// Finding identifies one offending row with enough context to locate it
// by hand. Fields beyond Kind are populated per check.
type Finding struct {
	Kind          Kind           `json:"kind"`
	QueueID       int64          `json:"queue_id,omitempty"`
	MangaSlug     string         `json:"manga_slug"`
	ChapterID     string         `json:"chapter_id,omitempty"`
	ChapterNumber *float64       `json:"chapter_number,omitempty"`
	Status        catalog.Status `json:"status,omitempty"`
	StuckMinutes  float64        `json:"stuck_minutes,omitempty"`
}

// CheckResult is one check's outcome. A clean result (no findings) is
// first-class, not absence of information.
type CheckResult struct {
	Kind     Kind      `json:"kind"`
	Findings []Finding `json:"findings"`
}

// Clean reports whether the check found nothing.
func (r CheckResult) Clean() bool {
	return len(r.Findings) == 0
}

// Report is the outcome of one full consistency run, one result per
// check in a fixed order.
type Report struct {
	Results []CheckResult `json:"results"`
}

// Querier is the slice of the catalog store the checks depend on. The
// doctor issues its own targeted queries rather than consuming a
// materialized snapshot.
type Querier interface {
	DuplicateChapterQueueEntries(ctx context.Context) ([]catalog.DuplicateQueueRow, error)
	FrozenDownloads(ctx context.Context, nowMillis, thresholdMillis int64) ([]catalog.FrozenDownloadRow, error)
	EmptyChapters(ctx context.Context) ([]catalog.EmptyChapterRow, error)
}

// Doctor runs the consistency checks.
type Doctor struct {
	store Querier
	now   func() time.Time
}

// New creates a Doctor using the wall clock.
func New(store Querier) *Doctor {
	return NewWithClock(store, time.Now)
}

// NewWithClock creates a Doctor with an injected clock so the frozen
// boundary can be pinned in tests.
func NewWithClock(store Querier, now func() time.Time) *Doctor {
	return &Doctor{store: store, now: now}
}

// Run evaluates every check and returns their results in report order.
// A failing query aborts the run; there is no partial report.
func (d *Doctor) Run(ctx context.Context) (*Report, error) {
	duplicates, err := d.CheckDuplicates(ctx)
	if err != nil {
		return nil, err
	}
	frozen, err := d.CheckFrozen(ctx)
	if err != nil {
		return nil, err
	}
	empty, err := d.CheckEmptyChapters(ctx)
	if err != nil {
		return nil, err
	}
	return &Report{Results: []CheckResult{duplicates, frozen, empty}}, nil
}

// CheckDuplicates flags chapter-level queue entries whose chapter is
// already downloaded, matching on business keys. Entries are flagged in
// every status: a completed entry that simply has not been purged still
// shows up, which can read as a false positive but mirrors how the
// queue is actually serviced. The entry's status is carried in the
// finding so the reader can judge.
func (d *Doctor) CheckDuplicates(ctx context.Context) (CheckResult, error) {
	result := CheckResult{Kind: KindDuplicateQueueEntry}
	rows, err := d.store.DuplicateChapterQueueEntries(ctx)
	if err != nil {
		return result, err
	}
	for _, row := range rows {
		result.Findings = append(result.Findings, Finding{
			Kind:          KindDuplicateQueueEntry,
			QueueID:       row.QueueID,
			MangaSlug:     row.MangaSlug,
			ChapterID:     row.ChapterID,
			ChapterNumber: row.ChapterNumber,
			Status:        row.Status,
		})
	}
	return result, nil
}

// CheckFrozen flags downloading entries whose started_at is strictly
// more than FrozenThresholdMillis in the past. Exactly one hour is not
// frozen; one millisecond past is.
func (d *Doctor) CheckFrozen(ctx context.Context) (CheckResult, error) {
	result := CheckResult{Kind: KindFrozenDownload}
	nowMillis := d.now().UnixMilli()
	rows, err := d.store.FrozenDownloads(ctx, nowMillis, FrozenThresholdMillis)
	if err != nil {
		return result, err
	}
	for _, row := range rows {
		result.Findings = append(result.Findings, Finding{
			Kind:          KindFrozenDownload,
			QueueID:       row.QueueID,
			MangaSlug:     row.MangaSlug,
			ChapterNumber: row.ChapterNumber,
			StuckMinutes:  float64(nowMillis-row.StartedAt) / 60000,
		})
	}
	return result, nil
}

// CheckEmptyChapters flags downloaded chapters with zero or NULL
// total_pages. The two cases are reported identically.
func (d *Doctor) CheckEmptyChapters(ctx context.Context) (CheckResult, error) {
	result := CheckResult{Kind: KindEmptyChapter}
	rows, err := d.store.EmptyChapters(ctx)
	if err != nil {
		return result, err
	}
	for _, row := range rows {
		number := row.ChapterNumber
		result.Findings = append(result.Findings, Finding{
			Kind:          KindEmptyChapter,
			MangaSlug:     row.MangaSlug,
			ChapterID:     row.ChapterID,
			ChapterNumber: &number,
		})
	}
	return result, nil
}
