package doctor_test

import (
	"context"
	"math"
	"testing"
	"time"

	"mangadoctor/internal/doctor"
	"mangadoctor/internal/testsupport"
)

var fixedNow = time.UnixMilli(1700000000000)

func fixedClock() time.Time {
	return fixedNow
}

func TestRunCleanCatalog(t *testing.T) {
	path, _ := testsupport.NewCatalog(t)
	store := testsupport.MustOpenStore(t, path)

	report, err := doctor.New(store).Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(report.Results) != 3 {
		t.Fatalf("expected 3 check results, got %d", len(report.Results))
	}
	wantOrder := []doctor.Kind{
		doctor.KindDuplicateQueueEntry,
		doctor.KindFrozenDownload,
		doctor.KindEmptyChapter,
	}
	for i, result := range report.Results {
		if result.Kind != wantOrder[i] {
			t.Fatalf("result %d: expected kind %s, got %s", i, wantOrder[i], result.Kind)
		}
		if !result.Clean() {
			t.Fatalf("expected clean result for %s, got %+v", result.Kind, result.Findings)
		}
	}
}

func TestCheckDuplicates(t *testing.T) {
	path, db := testsupport.NewCatalog(t)
	mangaRowID := testsupport.InsertManga(t, db, testsupport.MangaRow{
		ExtensionID: "ext", MangaID: "m", Slug: "some-title", DownloadedAt: 1,
	})
	testsupport.InsertChapter(t, db, testsupport.ChapterRow{
		MangaRowID: mangaRowID, ChapterID: "ch-5", ChapterNumber: 5, DownloadedAt: 1,
	})
	// Chapter-level entry for the downloaded chapter: flagged even
	// though its status is completed.
	testsupport.InsertQueueItem(t, db, testsupport.QueueRow{
		ExtensionID: "ext", MangaID: "m", Slug: "some-title",
		ChapterID: testsupport.Ptr("ch-5"), ChapterNumber: testsupport.Ptr(5.0),
		Status: "completed", QueuedAt: 1,
	})
	// Whole-manga entry (NULL chapter_id): never a duplicate.
	testsupport.InsertQueueItem(t, db, testsupport.QueueRow{
		ExtensionID: "ext", MangaID: "m", Slug: "some-title",
		Status: "queued", QueuedAt: 2,
	})
	// Same chapter_id under a different extension: business key differs.
	testsupport.InsertQueueItem(t, db, testsupport.QueueRow{
		ExtensionID: "other-ext", MangaID: "m", Slug: "some-title",
		ChapterID: testsupport.Ptr("ch-5"), Status: "queued", QueuedAt: 3,
	})
	store := testsupport.MustOpenStore(t, path)

	result, err := doctor.New(store).CheckDuplicates(context.Background())
	if err != nil {
		t.Fatalf("CheckDuplicates failed: %v", err)
	}
	if len(result.Findings) != 1 {
		t.Fatalf("expected 1 finding, got %+v", result.Findings)
	}
	finding := result.Findings[0]
	if finding.Kind != doctor.KindDuplicateQueueEntry {
		t.Fatalf("unexpected kind %s", finding.Kind)
	}
	if finding.MangaSlug != "some-title" || finding.ChapterID != "ch-5" {
		t.Fatalf("unexpected finding %+v", finding)
	}
	if string(finding.Status) != "completed" {
		t.Fatalf("expected completed status carried, got %s", finding.Status)
	}

	// A second run against the unchanged catalog reports the same thing.
	again, err := doctor.New(store).CheckDuplicates(context.Background())
	if err != nil {
		t.Fatalf("CheckDuplicates rerun failed: %v", err)
	}
	if len(again.Findings) != 1 || again.Findings[0].QueueID != finding.QueueID ||
		again.Findings[0].ChapterID != finding.ChapterID {
		t.Fatalf("expected identical rerun, got %+v", again.Findings)
	}
}

func TestCheckFrozenBoundary(t *testing.T) {
	nowMillis := fixedNow.UnixMilli()

	tests := []struct {
		name      string
		status    string
		startedAt *int64
		frozen    bool
	}{
		{"exactly one hour is not frozen", "downloading", testsupport.Ptr(nowMillis - 3600000), false},
		{"one millisecond past is frozen", "downloading", testsupport.Ptr(nowMillis - 3600001), true},
		{"two hours is frozen", "downloading", testsupport.Ptr(nowMillis - 7200000), true},
		{"null started_at is skipped", "downloading", nil, false},
		{"old but not downloading", "queued", testsupport.Ptr(nowMillis - 7200000), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path, db := testsupport.NewCatalog(t)
			testsupport.InsertQueueItem(t, db, testsupport.QueueRow{
				ExtensionID: "ext", MangaID: "m", Slug: "slow-title",
				ChapterNumber: testsupport.Ptr(7.0),
				Status:        tc.status, QueuedAt: 1, StartedAt: tc.startedAt,
			})
			store := testsupport.MustOpenStore(t, path)

			result, err := doctor.NewWithClock(store, fixedClock).CheckFrozen(context.Background())
			if err != nil {
				t.Fatalf("CheckFrozen failed: %v", err)
			}
			if tc.frozen != !result.Clean() {
				t.Fatalf("frozen=%v, got findings %+v", tc.frozen, result.Findings)
			}
		})
	}
}

func TestCheckFrozenStuckMinutes(t *testing.T) {
	path, db := testsupport.NewCatalog(t)
	// Stuck for 90 minutes and 30 seconds.
	startedAt := fixedNow.UnixMilli() - 90*60000 - 30000
	testsupport.InsertQueueItem(t, db, testsupport.QueueRow{
		ExtensionID: "ext", MangaID: "m", Slug: "slow-title",
		Status: "downloading", QueuedAt: 1, StartedAt: &startedAt,
	})
	store := testsupport.MustOpenStore(t, path)

	result, err := doctor.NewWithClock(store, fixedClock).CheckFrozen(context.Background())
	if err != nil {
		t.Fatalf("CheckFrozen failed: %v", err)
	}
	if len(result.Findings) != 1 {
		t.Fatalf("expected 1 finding, got %+v", result.Findings)
	}
	if got := result.Findings[0].StuckMinutes; math.Abs(got-90.5) > 1e-9 {
		t.Fatalf("expected 90.5 stuck minutes, got %v", got)
	}
}

func TestCheckEmptyChapters(t *testing.T) {
	path, db := testsupport.NewCatalog(t)
	mangaRowID := testsupport.InsertManga(t, db, testsupport.MangaRow{
		ExtensionID: "ext", MangaID: "m", Slug: "some-title", DownloadedAt: 1,
	})
	testsupport.InsertChapter(t, db, testsupport.ChapterRow{
		MangaRowID: mangaRowID, ChapterID: "zero-pages", ChapterNumber: 1,
		TotalPages: testsupport.Ptr(int64(0)), DownloadedAt: 1,
	})
	testsupport.InsertChapter(t, db, testsupport.ChapterRow{
		MangaRowID: mangaRowID, ChapterID: "null-pages", ChapterNumber: 2,
		DownloadedAt: 1,
	})
	testsupport.InsertChapter(t, db, testsupport.ChapterRow{
		MangaRowID: mangaRowID, ChapterID: "fine", ChapterNumber: 3,
		TotalPages: testsupport.Ptr(int64(20)), DownloadedAt: 1,
	})
	store := testsupport.MustOpenStore(t, path)

	result, err := doctor.New(store).CheckEmptyChapters(context.Background())
	if err != nil {
		t.Fatalf("CheckEmptyChapters failed: %v", err)
	}
	if len(result.Findings) != 2 {
		t.Fatalf("expected 2 findings, got %+v", result.Findings)
	}
	if result.Findings[0].ChapterID != "zero-pages" || result.Findings[1].ChapterID != "null-pages" {
		t.Fatalf("unexpected findings %+v", result.Findings)
	}
}
