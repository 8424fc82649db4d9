package catalog_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"mangadoctor/internal/catalog"
	"mangadoctor/internal/testsupport"
)

func TestOpenMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.sqlite")
	store, err := catalog.Open(path)
	if err == nil {
		store.Close()
		t.Fatal("expected error for missing catalog file")
	}
	if !errors.Is(err, catalog.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestOpenDirectory(t *testing.T) {
	store, err := catalog.Open(t.TempDir())
	if err == nil {
		store.Close()
		t.Fatal("expected error for directory path")
	}
	if !errors.Is(err, catalog.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestListMangaOrdering(t *testing.T) {
	path, db := testsupport.NewCatalog(t)
	testsupport.InsertManga(t, db, testsupport.MangaRow{
		ExtensionID: "ext", MangaID: "older", Slug: "older-title", DownloadedAt: 1000,
	})
	testsupport.InsertManga(t, db, testsupport.MangaRow{
		ExtensionID: "ext", MangaID: "newer", Slug: "newer-title", DownloadedAt: 2000,
	})
	store := testsupport.MustOpenStore(t, path)

	manga, err := store.ListManga(context.Background())
	if err != nil {
		t.Fatalf("ListManga failed: %v", err)
	}
	if len(manga) != 2 {
		t.Fatalf("expected 2 manga, got %d", len(manga))
	}
	if manga[0].MangaID != "newer" || manga[1].MangaID != "older" {
		t.Fatalf("expected most recent first, got %s then %s", manga[0].MangaID, manga[1].MangaID)
	}
	if manga[0].LastUpdatedAt != nil {
		t.Fatalf("expected nil LastUpdatedAt, got %v", *manga[0].LastUpdatedAt)
	}
}

func TestListMangaEmptyStore(t *testing.T) {
	path, _ := testsupport.NewCatalog(t)
	store := testsupport.MustOpenStore(t, path)

	manga, err := store.ListManga(context.Background())
	if err != nil {
		t.Fatalf("ListManga failed: %v", err)
	}
	if len(manga) != 0 {
		t.Fatalf("expected empty result, got %d manga", len(manga))
	}
}

func TestListChaptersByMangaGrouping(t *testing.T) {
	path, db := testsupport.NewCatalog(t)
	// Recency and slug orderings intentionally disagree: zeta-title is
	// the newest download but beta-title sorts first lexically.
	zetaID := testsupport.InsertManga(t, db, testsupport.MangaRow{
		ExtensionID: "ext", MangaID: "zeta", Slug: "zeta-title", DownloadedAt: 2000,
	})
	betaID := testsupport.InsertManga(t, db, testsupport.MangaRow{
		ExtensionID: "ext", MangaID: "beta", Slug: "beta-title", DownloadedAt: 1000,
	})
	testsupport.InsertChapter(t, db, testsupport.ChapterRow{
		MangaRowID: zetaID, ChapterID: "z-2", ChapterNumber: 2, DownloadedAt: 10,
	})
	testsupport.InsertChapter(t, db, testsupport.ChapterRow{
		MangaRowID: betaID, ChapterID: "b-10.5", ChapterNumber: 10.5, DownloadedAt: 10,
	})
	testsupport.InsertChapter(t, db, testsupport.ChapterRow{
		MangaRowID: betaID, ChapterID: "b-2", ChapterNumber: 2, DownloadedAt: 10,
	})
	store := testsupport.MustOpenStore(t, path)

	groups, err := store.ListChaptersByManga(context.Background())
	if err != nil {
		t.Fatalf("ListChaptersByManga failed: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Slug != "beta-title" || groups[1].Slug != "zeta-title" {
		t.Fatalf("expected slug ordering, got %s then %s", groups[0].Slug, groups[1].Slug)
	}
	beta := groups[0].Chapters
	if len(beta) != 2 {
		t.Fatalf("expected 2 chapters for beta-title, got %d", len(beta))
	}
	if beta[0].ChapterNumber != 2 || beta[1].ChapterNumber != 10.5 {
		t.Fatalf("expected chapters ordered by number, got %v then %v", beta[0].ChapterNumber, beta[1].ChapterNumber)
	}
}

func TestListQueueOrdering(t *testing.T) {
	path, db := testsupport.NewCatalog(t)
	first := testsupport.InsertQueueItem(t, db, testsupport.QueueRow{
		ExtensionID: "ext", MangaID: "m", Slug: "m", Status: "queued", Priority: 1, QueuedAt: 500,
	})
	second := testsupport.InsertQueueItem(t, db, testsupport.QueueRow{
		ExtensionID: "ext", MangaID: "m", Slug: "m", Status: "queued", Priority: 5, QueuedAt: 900,
	})
	third := testsupport.InsertQueueItem(t, db, testsupport.QueueRow{
		ExtensionID: "ext", MangaID: "m", Slug: "m", Status: "queued", Priority: 5, QueuedAt: 100,
	})
	fourth := testsupport.InsertQueueItem(t, db, testsupport.QueueRow{
		ExtensionID: "ext", MangaID: "m", Slug: "m", Status: "queued", Priority: 5, QueuedAt: 100,
	})
	store := testsupport.MustOpenStore(t, path)

	items, err := store.ListQueue(context.Background())
	if err != nil {
		t.Fatalf("ListQueue failed: %v", err)
	}
	got := make([]int64, 0, len(items))
	for _, item := range items {
		got = append(got, item.ID)
	}
	// Priority 5 band first (oldest queued_at first, full tie keeps
	// insertion order), then priority 1.
	want := []int64{third, fourth, second, first}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected queue order: got %v, want %v", got, want)
		}
	}
}

func TestListQueueUnknownStatus(t *testing.T) {
	path, db := testsupport.NewCatalog(t)
	testsupport.InsertQueueItem(t, db, testsupport.QueueRow{
		ExtensionID: "ext", MangaID: "m", Slug: "m", Status: "paused", Priority: 0, QueuedAt: 1,
	})
	store := testsupport.MustOpenStore(t, path)

	items, err := store.ListQueue(context.Background())
	if err != nil {
		t.Fatalf("ListQueue failed: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(items))
	}
	if items[0].Status != catalog.StatusUnknown {
		t.Fatalf("expected StatusUnknown, got %s", items[0].Status)
	}
	if items[0].RawStatus != "paused" {
		t.Fatalf("expected raw status preserved, got %q", items[0].RawStatus)
	}
}

func TestStatsEmptyStore(t *testing.T) {
	path, _ := testsupport.NewCatalog(t)
	store := testsupport.MustOpenStore(t, path)

	stats, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.MangaCount != 0 || stats.ChapterCount != 0 ||
		stats.QueuedCount != 0 || stats.DownloadingCount != 0 || stats.FailedCount != 0 {
		t.Fatalf("expected zero counts, got %+v", stats)
	}
	if stats.TotalSizeBytes != 0 {
		t.Fatalf("expected zero total size, got %d", stats.TotalSizeBytes)
	}
}

func TestStatsCountsAndSize(t *testing.T) {
	path, db := testsupport.NewCatalog(t)
	mangaID := testsupport.InsertManga(t, db, testsupport.MangaRow{
		ExtensionID: "ext", MangaID: "m1", Slug: "m1", DownloadedAt: 1, TotalSizeBytes: 600,
	})
	testsupport.InsertManga(t, db, testsupport.MangaRow{
		ExtensionID: "ext", MangaID: "m2", Slug: "m2", DownloadedAt: 2, TotalSizeBytes: 400,
	})
	testsupport.InsertChapter(t, db, testsupport.ChapterRow{
		MangaRowID: mangaID, ChapterID: "c1", ChapterNumber: 1, DownloadedAt: 1,
	})
	for _, status := range []string{"queued", "downloading", "failed", "completed", "completed"} {
		testsupport.InsertQueueItem(t, db, testsupport.QueueRow{
			ExtensionID: "ext", MangaID: "m1", Slug: "m1", Status: status, QueuedAt: 1,
		})
	}
	store := testsupport.MustOpenStore(t, path)

	stats, err := store.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.MangaCount != 2 || stats.ChapterCount != 1 {
		t.Fatalf("unexpected inventory counts: %+v", stats)
	}
	// Completed entries are deliberately absent from the summary.
	if stats.QueuedCount != 1 || stats.DownloadingCount != 1 || stats.FailedCount != 1 {
		t.Fatalf("unexpected queue counts: %+v", stats)
	}
	if stats.TotalSizeBytes != 1000 {
		t.Fatalf("expected summed size 1000, got %d", stats.TotalSizeBytes)
	}
}

func TestGetMangaNotFound(t *testing.T) {
	path, _ := testsupport.NewCatalog(t)
	store := testsupport.MustOpenStore(t, path)

	manga, err := store.GetManga(context.Background(), "ext", "missing")
	if err != nil {
		t.Fatalf("GetManga failed: %v", err)
	}
	if manga != nil {
		t.Fatalf("expected nil for missing manga, got %+v", manga)
	}
}

func TestLookup(t *testing.T) {
	path, db := testsupport.NewCatalog(t)
	mangaRowID := testsupport.InsertManga(t, db, testsupport.MangaRow{
		ExtensionID: "ext", MangaID: "target", Slug: "target-title", DownloadedAt: 1,
	})
	testsupport.InsertChapter(t, db, testsupport.ChapterRow{
		MangaRowID: mangaRowID, ChapterID: "c3", ChapterNumber: 3, DownloadedAt: 1,
	})
	testsupport.InsertChapter(t, db, testsupport.ChapterRow{
		MangaRowID: mangaRowID, ChapterID: "c1", ChapterNumber: 1, DownloadedAt: 1,
	})
	testsupport.InsertQueueItem(t, db, testsupport.QueueRow{
		ExtensionID: "ext", MangaID: "target", Slug: "target-title",
		Status: "queued", Priority: 1, QueuedAt: 10,
	})
	testsupport.InsertQueueItem(t, db, testsupport.QueueRow{
		ExtensionID: "other-ext", MangaID: "target", Slug: "target-title",
		Status: "queued", Priority: 9, QueuedAt: 10,
	})
	store := testsupport.MustOpenStore(t, path)

	detail, err := store.Lookup(context.Background(), "ext", "target")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if detail == nil || detail.Manga == nil {
		t.Fatal("expected lookup to find the manga")
	}
	if detail.Manga.Slug != "target-title" {
		t.Fatalf("unexpected manga: %+v", detail.Manga)
	}
	if len(detail.Chapters) != 2 || detail.Chapters[0].ChapterID != "c1" {
		t.Fatalf("expected chapters ordered by number, got %+v", detail.Chapters)
	}
	// The other-extension entry shares a manga_id but not the business key.
	if len(detail.Queue) != 1 || detail.Queue[0].ExtensionID != "ext" {
		t.Fatalf("expected 1 queue entry for the business key, got %+v", detail.Queue)
	}
}

func TestLookupNotFound(t *testing.T) {
	path, db := testsupport.NewCatalog(t)
	// A queue entry alone does not make the manga part of the catalog.
	testsupport.InsertQueueItem(t, db, testsupport.QueueRow{
		ExtensionID: "ext", MangaID: "queued-only", Slug: "queued-only", Status: "queued", QueuedAt: 1,
	})
	store := testsupport.MustOpenStore(t, path)

	detail, err := store.Lookup(context.Background(), "ext", "queued-only")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if detail != nil {
		t.Fatalf("expected not-found, got %+v", detail)
	}
}

func TestTablesPresent(t *testing.T) {
	path, _ := testsupport.NewCatalog(t)
	store := testsupport.MustOpenStore(t, path)

	tables, err := store.TablesPresent(context.Background())
	if err != nil {
		t.Fatalf("TablesPresent failed: %v", err)
	}
	want := []string{"download_queue", "offline_chapters", "offline_manga"}
	got := make(map[string]bool, len(tables))
	for _, name := range tables {
		got[name] = true
	}
	for _, name := range want {
		if !got[name] {
			t.Fatalf("expected table %s in %v", name, tables)
		}
	}
}
