package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clear-code/cutter-doc/internal/output"
	"github.com/clear-code/cutter-doc/internal/rd"
)

var outlineCmd = &cobra.Command{
	Use:         "outline [file|-]",
	Short:       "Show the headline outline of an RD document",
	Args:        cobra.MaximumNArgs(1),
	Annotations: map[string]string{annotationReport: ""},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := commandContext(cmd.Context())

		src, err := readInputSource(sourceArg(args), stdinFromContext(ctx))
		if err != nil {
			return err
		}
		doc, err := rd.Parse(src)
		if err != nil {
			return err
		}
		entries := rd.Outline(doc)

		if GetOutputFormat() != output.FormatText {
			return printStructured(ctx, entries)
		}
		out := stdoutFromContext(ctx)
		for _, e := range entries {
			fmt.Fprintf(out, "%s%s\n", strings.Repeat("  ", e.Level-1), e.Title)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(outlineCmd)
}
