package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"mangadoctor/internal/catalog"
	"mangadoctor/internal/display"
)

// runLookup reports on one manga identified by its business key.
// Not-found is a normal outcome rendered as such, not an error.
func runLookup(cmd *cobra.Command, ctx *commandContext, extensionID, mangaID string) error {
	return ctx.withStore(func(store *catalog.Store) error {
		ctx.Logger().Debug("looking up manga",
			slog.String("extension_id", extensionID),
			slog.String("manga_id", mangaID))

		detail, err := store.Lookup(cmd.Context(), extensionID, mangaID)
		if err != nil {
			return err
		}

		if ctx.JSONMode() {
			return writeJSON(cmd, buildLookupJSON(ctx.runID, extensionID, mangaID, detail))
		}

		out := cmd.OutOrStdout()
		colorize := ctx.colorize(cmd.OutOrStdout())
		writeSectionHeader(out, fmt.Sprintf("Manga check: %s", mangaID), colorize)

		if detail == nil {
			fmt.Fprintln(out, renderStatusLine(statusWarn,
				fmt.Sprintf("manga %s not found in the offline catalog (no downloaded chapters)", mangaID), colorize))
			return nil
		}

		printLookupManga(out, detail.Manga, colorize)
		printLookupChapters(out, detail.Chapters)
		printLookupQueue(out, detail.Queue)
		return nil
	})
}

func printLookupManga(out io.Writer, manga *catalog.Manga, colorize bool) {
	fmt.Fprintln(out, renderStatusLine(statusOK, "manga found in catalog", colorize))
	fmt.Fprintf(out, "%sDB ID:        %d\n", statusIndent, manga.ID)
	fmt.Fprintf(out, "%sSlug:         %s\n", statusIndent, manga.Slug)
	fmt.Fprintf(out, "%sExtension:    %s\n", statusIndent, manga.ExtensionID)
	fmt.Fprintf(out, "%sDownloaded:   %s\n", statusIndent, display.MillisValue(manga.DownloadedAt))
	fmt.Fprintf(out, "%sLast updated: %s\n", statusIndent, display.Millis(manga.LastUpdatedAt))
	fmt.Fprintf(out, "%sTotal size:   %s\n", statusIndent, display.TotalBytes(manga.TotalSizeBytes))
	fmt.Fprintln(out)
}

func printLookupChapters(out io.Writer, chapters []*catalog.Chapter) {
	fmt.Fprintf(out, "Downloaded chapters: %d\n", len(chapters))
	if len(chapters) > 0 {
		fmt.Fprintln(out, renderTable(chapterHeaders, buildChapterRows(chapters), chapterAligns))
	}
	fmt.Fprintln(out)
}

func printLookupQueue(out io.Writer, items []*catalog.QueueItem) {
	fmt.Fprintf(out, "Queue entries: %d\n", len(items))
	if len(items) > 0 {
		fmt.Fprintln(out, renderTable(queueHeaders, buildQueueRows(items), queueAligns))
	}
}
