package catalog

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreUnavailable marks a catalog file that is missing or cannot
	// be opened. Fatal: no partial report is produced.
	ErrStoreUnavailable = errors.New("catalog unavailable")

	// ErrQueryFailure marks a read that failed against an open catalog,
	// typically a schema mismatch. Fatal: the run aborts.
	ErrQueryFailure = errors.New("catalog query failed")
)

// wrapQuery tags err with ErrQueryFailure and the failing query's intent
// so fatal output names what the tool was reading when it died.
func wrapQuery(intent string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrQueryFailure, intent, err)
}
