package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	var dbFlag string
	var jsonFlag bool

	ctx := newCommandContext(&configFlag, &dbFlag, &jsonFlag)

	rootCmd := &cobra.Command{
		Use:   "mangadoctor [manga_id [extension_id]]",
		Short: "Inspect the offline manga download catalog",
		Long: `mangadoctor reads the downloader's catalog database and reports its
state: downloaded manga and chapters, the download queue, summary
statistics, and detected anomalies (already-downloaded chapters still
in the queue, frozen downloads, chapters with zero pages).

With no arguments it prints the full inventory report. With a manga id
(and optionally an extension id) it reports on that one manga. The
catalog is never modified.`,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return runInspect(cmd, ctx)
			}
			mangaID := args[0]
			extensionID := ctx.defaultExtension()
			if len(args) > 1 {
				extensionID = args[1]
			}
			return runLookup(cmd, ctx, extensionID, mangaID)
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&dbFlag, "db", "", "Catalog database path (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "Emit machine-readable JSON")

	rootCmd.AddCommand(newHealthCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
