package cmd

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/clear-code/cutter-doc/internal/output"
	"github.com/clear-code/cutter-doc/internal/snippet"
)

var scanCmd = &cobra.Command{
	Use:         "scan <xml-dir>",
	Short:       "List RD snippets found in DocBook files",
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationReport: ""},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd.Context())

		dir, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolving %s: %w", args[0], err)
		}
		entries, err := snippet.Scan(ctx, newFilesystem(dir), ".")
		if err != nil {
			return err
		}

		switch GetOutputFormat() {
		case output.FormatTable:
			return printStructured(ctx, scanTable(entries, output.LimitFromContext(ctx)))
		case output.FormatText:
		default:
			return printStructured(ctx, entries)
		}
		out := stdoutFromContext(ctx)
		for _, e := range entries {
			if e.Error != "" {
				fmt.Fprintf(out, "%s: error: %s\n", e.File, e.Error)
				continue
			}
			fmt.Fprintf(out, "%s: %d snippets\n", e.File, e.Snippets)
		}
		return nil
	},
}

// scanTable lists at most limit files and closes with a total over every
// scanned file.
func scanTable(entries []snippet.ScanEntry, limit int) output.Table {
	table := output.Table{Headers: []string{"FILE", "SNIPPETS", "STATUS"}}
	total := 0
	for i, e := range entries {
		total += e.Snippets
		if limit > 0 && i >= limit {
			continue
		}
		status := "ok"
		if e.Error != "" {
			status = "error: " + e.Error
		}
		table.Rows = append(table.Rows, []string{e.File, strconv.Itoa(e.Snippets), status})
	}
	table.Rows = append(table.Rows, []string{"TOTAL", strconv.Itoa(total), ""})
	return table
}

func init() {
	rootCmd.AddCommand(scanCmd)
}
