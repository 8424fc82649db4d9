package catalog_test

import (
	"testing"

	"mangadoctor/internal/catalog"
	"mangadoctor/internal/testsupport"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in   string
		want catalog.Status
	}{
		{"queued", catalog.StatusQueued},
		{"downloading", catalog.StatusDownloading},
		{"completed", catalog.StatusCompleted},
		{"failed", catalog.StatusFailed},
		{" Failed ", catalog.StatusFailed},
		{"paused", catalog.StatusUnknown},
		{"", catalog.StatusUnknown},
	}
	for _, tc := range tests {
		if got := catalog.ParseStatus(tc.in); got != tc.want {
			t.Fatalf("ParseStatus(%q): expected %s, got %s", tc.in, tc.want, got)
		}
	}
}

func TestIsChapterDownload(t *testing.T) {
	whole := &catalog.QueueItem{}
	if whole.IsChapterDownload() {
		t.Fatal("nil chapter_id should mean a whole-manga entry")
	}
	chapter := &catalog.QueueItem{ChapterID: testsupport.Ptr("ch-1")}
	if !chapter.IsChapterDownload() {
		t.Fatal("expected chapter-level entry")
	}
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		name    string
		current *int64
		total   *int64
		want    float64
	}{
		{"nil total", testsupport.Ptr(int64(5)), nil, 0},
		{"zero total", testsupport.Ptr(int64(5)), testsupport.Ptr(int64(0)), 0},
		{"negative total", testsupport.Ptr(int64(5)), testsupport.Ptr(int64(-3)), 0},
		{"nil current", nil, testsupport.Ptr(int64(10)), 0},
		{"halfway", testsupport.Ptr(int64(5)), testsupport.Ptr(int64(10)), 50},
		{"done", testsupport.Ptr(int64(10)), testsupport.Ptr(int64(10)), 100},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item := &catalog.QueueItem{ProgressCurrent: tc.current, ProgressTotal: tc.total}
			if got := item.ProgressPercent(); got != tc.want {
				t.Fatalf("expected %v%%, got %v%%", tc.want, got)
			}
		})
	}
}
