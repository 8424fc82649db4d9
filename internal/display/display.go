// Package display formats catalog values for human-readable output:
// epoch-millisecond timestamps as local wall-clock time and byte counts
// with thousands separators.
package display

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

// NotAvailable is rendered for NULL timestamps.
const NotAvailable = "not available"

const timestampLayout = "2006-01-02 15:04:05"

// Millis renders an epoch-millisecond timestamp as local wall-clock
// time. A nil value renders as NotAvailable. Values that land outside a
// displayable year fall back to the raw number rather than failing.
func Millis(millis *int64) string {
	if millis == nil {
		return NotAvailable
	}
	t := time.UnixMilli(*millis).Local()
	if t.Year() < 1 || t.Year() > 9999 {
		return strconv.FormatInt(*millis, 10)
	}
	return t.Format(timestampLayout)
}

// MillisValue renders a non-nullable epoch-millisecond timestamp.
func MillisValue(millis int64) string {
	return Millis(&millis)
}

// Bytes renders a byte count with thousands separators, e.g.
// "1,048,576 bytes".
func Bytes(n int64) string {
	return humanize.Comma(n) + " bytes"
}

// TotalBytes renders an aggregate byte count with its megabyte
// equivalent, e.g. "1,048,576 bytes (1.00 MB)".
func TotalBytes(n int64) string {
	return fmt.Sprintf("%s (%.2f MB)", Bytes(n), float64(n)/(1024*1024))
}
