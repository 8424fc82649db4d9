package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"mangadoctor/internal/catalog"
)

func newHealthCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check catalog database health (schema, integrity, columns)",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *catalog.Store) error {
				health, err := store.CheckHealth(cmd.Context())
				if err != nil {
					return err
				}
				if ctx.JSONMode() {
					return writeJSON(cmd, health)
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Database path: %s\n", health.DBPath)
				fmt.Fprintf(out, "Database exists: %s\n", yesNo(health.DatabaseExists))
				fmt.Fprintf(out, "Readable: %s\n", yesNo(health.DatabaseReadable))
				for _, table := range health.Tables {
					fmt.Fprintf(out, "\nTable %s present: %s\n", table.Name, yesNo(table.Exists))
					if !table.Exists {
						continue
					}
					if len(table.ColumnsPresent) > 0 {
						cols := append([]string(nil), table.ColumnsPresent...)
						sort.Strings(cols)
						fmt.Fprintf(out, "  Columns: %s\n", strings.Join(cols, ", "))
					}
					if len(table.MissingColumns) > 0 {
						missing := append([]string(nil), table.MissingColumns...)
						sort.Strings(missing)
						fmt.Fprintf(out, "  Missing columns: %s\n", strings.Join(missing, ", "))
					} else {
						fmt.Fprintln(out, "  Missing columns: none")
					}
					fmt.Fprintf(out, "  Rows: %d\n", table.RowCount)
				}
				fmt.Fprintf(out, "\nIntegrity check: %s\n", yesNo(health.IntegrityCheck))
				if health.Error != "" {
					fmt.Fprintf(out, "Error: %s\n", health.Error)
				}
				return nil
			})
		},
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
