package main

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"mangadoctor/internal/catalog"
	"mangadoctor/internal/display"
	"mangadoctor/internal/doctor"
)

// runInspect produces the full inventory report: tables present,
// downloaded manga, downloaded chapters, queue, statistics, anomalies,
// in that fixed order.
func runInspect(cmd *cobra.Command, ctx *commandContext) error {
	return ctx.withStore(func(store *catalog.Store) error {
		reqCtx := cmd.Context()
		logger := ctx.Logger()

		logger.Debug("building catalog snapshot")
		snapshot, err := store.BuildSnapshot(reqCtx)
		if err != nil {
			return err
		}

		logger.Debug("running consistency checks")
		report, err := doctor.New(store).Run(reqCtx)
		if err != nil {
			return err
		}

		if ctx.JSONMode() {
			return writeJSON(cmd, buildInspectJSON(ctx.runID, store.Path(), snapshot, report))
		}

		out := cmd.OutOrStdout()
		colorize := ctx.colorize(cmd.OutOrStdout())
		printTablesSection(out, snapshot.Tables, colorize)
		printMangaSection(out, snapshot.Manga, colorize)
		printChaptersSection(out, snapshot.ChapterGroups, colorize)
		printQueueSection(out, snapshot.Queue, colorize)
		printStatsSection(out, snapshot.Stats, colorize)
		printAnomaliesSection(out, report, colorize)

		logger.Debug("report complete",
			slog.Int("manga", snapshot.Stats.MangaCount),
			slog.Int("chapters", snapshot.Stats.ChapterCount))
		return nil
	})
}

func printTablesSection(out io.Writer, tables []string, colorize bool) {
	writeSectionHeader(out, "Offline storage tables", colorize)
	if len(tables) == 0 {
		fmt.Fprintln(out, renderStatusLine(statusError, "no offline storage tables found", colorize))
		fmt.Fprintln(out)
		return
	}
	for _, expected := range []string{"download_queue", "offline_chapters", "offline_manga"} {
		if slices.Contains(tables, expected) {
			fmt.Fprintln(out, renderStatusLine(statusOK, expected, colorize))
		} else {
			fmt.Fprintln(out, renderStatusLine(statusWarn, expected+" missing", colorize))
		}
	}
	for _, name := range tables {
		switch name {
		case "download_queue", "offline_chapters", "offline_manga":
		default:
			fmt.Fprintln(out, renderStatusLine(statusInfo, name, colorize))
		}
	}
	fmt.Fprintln(out)
}

func printMangaSection(out io.Writer, manga []*catalog.Manga, colorize bool) {
	writeSectionHeader(out, "Downloaded manga", colorize)
	if len(manga) == 0 {
		fmt.Fprintln(out, statusIndent+"No manga downloaded")
		fmt.Fprintln(out)
		return
	}
	fmt.Fprintln(out, renderTable(mangaHeaders, buildMangaRows(manga), mangaAligns))
	fmt.Fprintln(out)
}

func printChaptersSection(out io.Writer, groups []catalog.MangaChapters, colorize bool) {
	writeSectionHeader(out, "Downloaded chapters", colorize)
	if len(groups) == 0 {
		fmt.Fprintln(out, statusIndent+"No chapters downloaded")
		fmt.Fprintln(out)
		return
	}
	for _, group := range groups {
		fmt.Fprintf(out, "%s%s\n", statusIndent, group.Slug)
		fmt.Fprintln(out, renderTable(chapterHeaders, buildChapterRows(group.Chapters), chapterAligns))
	}
	fmt.Fprintln(out)
}

func printQueueSection(out io.Writer, items []*catalog.QueueItem, colorize bool) {
	writeSectionHeader(out, "Download queue", colorize)
	if len(items) == 0 {
		fmt.Fprintln(out, statusIndent+"Queue is empty")
		fmt.Fprintln(out)
		return
	}
	fmt.Fprintln(out, renderTable(queueHeaders, buildQueueRows(items), queueAligns))
	fmt.Fprintln(out)
}

func printStatsSection(out io.Writer, stats catalog.Statistics, colorize bool) {
	writeSectionHeader(out, "Statistics", colorize)
	fmt.Fprintf(out, "%sDownloaded manga:    %d\n", statusIndent, stats.MangaCount)
	fmt.Fprintf(out, "%sDownloaded chapters: %d\n", statusIndent, stats.ChapterCount)
	fmt.Fprintf(out, "%sTotal size:          %s\n", statusIndent, display.TotalBytes(stats.TotalSizeBytes))
	fmt.Fprintf(out, "%sQueue (queued):      %d\n", statusIndent, stats.QueuedCount)
	fmt.Fprintf(out, "%sQueue (downloading): %d\n", statusIndent, stats.DownloadingCount)
	fmt.Fprintf(out, "%sQueue (failed):      %d\n", statusIndent, stats.FailedCount)
	fmt.Fprintln(out)
}

func printAnomaliesSection(out io.Writer, report *doctor.Report, colorize bool) {
	writeSectionHeader(out, "Anomalies", colorize)
	for _, result := range report.Results {
		if result.Clean() {
			fmt.Fprintln(out, renderStatusLine(statusOK, cleanLine(result.Kind), colorize))
			continue
		}
		fmt.Fprintln(out, renderStatusLine(statusWarn, result.Kind.Title(), colorize))
		for _, finding := range result.Findings {
			fmt.Fprintf(out, "%s%s- %s\n", statusIndent, statusIndent, findingLine(finding))
		}
	}
}
