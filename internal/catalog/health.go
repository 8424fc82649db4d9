package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// TableHealth captures schema diagnostics for one expected table.
type TableHealth struct {
	Name           string
	Exists         bool
	ColumnsPresent []string
	MissingColumns []string
	RowCount       int
}

// DatabaseHealth captures diagnostic information about the catalog file
// and its schema.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	Tables           []TableHealth
	IntegrityCheck   bool
	Error            string
}

// expectedColumns is the wire contract with the downloader: the column
// sets this tool's queries rely on, per table.
var expectedColumns = map[string][]string{
	"offline_manga": {
		"id", "extension_id", "manga_id", "manga_slug",
		"downloaded_at", "last_updated_at", "total_size_bytes",
	},
	"offline_chapters": {
		"id", "offline_manga_id", "chapter_id", "chapter_number",
		"chapter_title", "total_pages", "downloaded_at", "size_bytes",
	},
	"download_queue": {
		"id", "extension_id", "manga_id", "manga_slug", "chapter_id",
		"chapter_number", "chapter_title", "status", "priority",
		"queued_at", "started_at", "completed_at", "error_message",
		"progress_current", "progress_total",
	},
}

var expectedTables = []string{"offline_manga", "offline_chapters", "download_queue"}

// CheckHealth returns diagnostic information about the catalog database:
// file presence, per-table schema against the expected columns, row
// counts, and the sqlite integrity check.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	health := DatabaseHealth{DBPath: s.path}

	if s.path == "" {
		return health, errors.New("catalog database path is unknown")
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			health.DatabaseExists = false
			return health, nil
		}
		return health, fmt.Errorf("stat catalog database: %w", err)
	}
	if info.IsDir() {
		return health, fmt.Errorf("catalog database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	if s.db == nil {
		return health, errors.New("catalog database connection unavailable")
	}

	connCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(connCtx); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("ping catalog database: %w", err)
	}
	health.DatabaseReadable = true

	for _, table := range expectedTables {
		tableHealth, err := s.checkTable(connCtx, table)
		if err != nil {
			health.Error = err.Error()
			return health, err
		}
		health.Tables = append(health.Tables, tableHealth)
	}

	row := s.db.QueryRowContext(connCtx, "PRAGMA integrity_check")
	var integrityResult string
	if err := row.Scan(&integrityResult); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("integrity check: %w", err)
	}
	health.IntegrityCheck = strings.EqualFold(integrityResult, "ok")

	return health, nil
}

func (s *Store) checkTable(ctx context.Context, table string) (TableHealth, error) {
	health := TableHealth{Name: table}

	var name string
	row := s.db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table)
	if err := row.Scan(&name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return health, nil
		}
		return health, fmt.Errorf("query table info for %s: %w", table, err)
	}
	health.Exists = true

	colsRows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return health, fmt.Errorf("table info for %s: %w", table, err)
	}
	defer colsRows.Close()

	var columns []string
	for colsRows.Next() {
		var (
			cid     int
			colName string
			typeStr string
			notNull int
			dflt    any
			pk      int
		)
		if err := colsRows.Scan(&cid, &colName, &typeStr, &notNull, &dflt, &pk); err != nil {
			return health, fmt.Errorf("scan table info for %s: %w", table, err)
		}
		columns = append(columns, colName)
	}
	if err := colsRows.Err(); err != nil {
		return health, fmt.Errorf("iterate table info for %s: %w", table, err)
	}
	health.ColumnsPresent = columns

	missingMap := make(map[string]struct{}, len(expectedColumns[table]))
	for _, col := range expectedColumns[table] {
		missingMap[col] = struct{}{}
	}
	for _, col := range columns {
		delete(missingMap, col)
	}
	for col := range missingMap {
		health.MissingColumns = append(health.MissingColumns, col)
	}

	row = s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", table))
	if err := row.Scan(&health.RowCount); err != nil {
		return health, fmt.Errorf("count rows in %s: %w", table, err)
	}

	return health, nil
}
