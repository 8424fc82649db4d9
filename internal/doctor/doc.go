// Package doctor evaluates consistency checks against the offline
// download catalog and produces typed findings.
//
// Each check is independent: duplicate queue entries, frozen downloads,
// and empty chapters are detected by separate targeted queries, and a
// check that finds nothing still reports a clean result. The checks
// never mutate the catalog; repairing what they find is the
// downloader's job.
package doctor
