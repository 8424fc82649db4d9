// Package catalog provides read-only access to the offline download
// catalog maintained by the external downloader.
//
// The Store opens the downloader's SQLite database and materializes its
// three tables (offline_manga, offline_chapters, download_queue) into
// in-memory records, aggregate statistics, and per-manga lookups. The
// schema is owned by the downloader; this package never issues DDL or
// writes and treats column names as the wire contract.
//
// Each query is an independent read against the live database. The
// downloader may commit between queries, so values observed in one
// query are not guaranteed consistent with the next. That is accepted:
// the catalog is inspected diagnostically, not transactionally.
package catalog
