package display_test

import (
	"strconv"
	"testing"
	"time"

	"mangadoctor/internal/display"
	"mangadoctor/internal/testsupport"
)

func TestMillisNil(t *testing.T) {
	if got := display.Millis(nil); got != display.NotAvailable {
		t.Fatalf("expected %q, got %q", display.NotAvailable, got)
	}
}

func TestMillisKnownInstant(t *testing.T) {
	millis := int64(1700000000000)
	want := time.UnixMilli(millis).Local().Format("2006-01-02 15:04:05")
	if got := display.Millis(&millis); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMillisOutOfRange(t *testing.T) {
	tests := []int64{
		-99999999999999999,
		300000000000000000,
	}
	for _, millis := range tests {
		want := strconv.FormatInt(millis, 10)
		if got := display.Millis(testsupport.Ptr(millis)); got != want {
			t.Fatalf("millis %d: expected raw %q, got %q", millis, want, got)
		}
	}
}

func TestMillisValue(t *testing.T) {
	millis := int64(1700000000000)
	if got, want := display.MillisValue(millis), display.Millis(&millis); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestBytes(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 bytes"},
		{999, "999 bytes"},
		{1048576, "1,048,576 bytes"},
	}
	for _, tc := range tests {
		if got := display.Bytes(tc.n); got != tc.want {
			t.Fatalf("Bytes(%d): expected %q, got %q", tc.n, tc.want, got)
		}
	}
}

func TestTotalBytes(t *testing.T) {
	if got, want := display.TotalBytes(1048576), "1,048,576 bytes (1.00 MB)"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
	if got, want := display.TotalBytes(0), "0 bytes (0.00 MB)"; got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}
