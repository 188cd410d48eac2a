package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/clear-code/cutter-doc/internal/docbook"
	"github.com/clear-code/cutter-doc/internal/logging"
)

var (
	renderRefEntry bool
	renderID       string
	renderMiscInfo string
	renderCheck    bool
)

var renderCmd = &cobra.Command{
	Use:   "render [file|-]",
	Short: "Render RD as DocBook",
	Long: `Render an RD document as DocBook XML.

By default the input is treated as a snippet: headlines become nested
refsectN elements and inline DocBook tags are kept. With --refentry the
whole document becomes a refentry page whose first headline, written
"name --- purpose", fills the page header.`,
	Example: `  cutter-doc render doc/cutter.rd --refentry
  echo '== Usage' | cutter-doc render -`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRender,
}

type renderResult struct {
	ID     string `json:"id,omitempty" yaml:"id,omitempty"`
	Source string `json:"source" yaml:"source"`
	Output string `json:"output" yaml:"output"`
}

func init() {
	renderCmd.Flags().BoolVar(&renderRefEntry, "refentry", false, "Render a complete refentry page")
	renderCmd.Flags().StringVar(&renderID, "id", "", "refentry id (default: input file base name)")
	renderCmd.Flags().StringVar(&renderMiscInfo, "misc-info", "", "refmiscinfo text (default: misc_info config or \"CUTTER Library\")")
	renderCmd.Flags().BoolVar(&renderCheck, "check", false, "Verify that the output is well-formed XML")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd.Context())
	cfg := configFromContext(ctx)
	logger := logging.FromContext(ctx)

	source := sourceArg(args)
	src, err := readInputSource(source, stdinFromContext(ctx))
	if err != nil {
		return err
	}

	result := renderResult{Source: source}
	if renderRefEntry {
		id := strings.TrimSpace(renderID)
		if id == "" {
			if source == "-" {
				return fmt.Errorf("--id is required when rendering a refentry from stdin")
			}
			id = docbook.EntryID(source)
		}
		result.ID = id
		result.Output, err = docbook.RenderRefEntry(id, src, docbook.Options{MiscInfo: miscInfo(cfg, renderMiscInfo)})
	} else {
		result.Output, err = docbook.RenderSnippet(src)
	}
	if err != nil {
		return err
	}
	logger.Debug("rendered document", "source", source, "refentry", renderRefEntry, "bytes", len(result.Output))

	if checkEnabled(cmd, cfg, renderCheck) {
		if err := docbook.CheckWellFormed(result.Output); err != nil {
			return fmt.Errorf("%s: %w", source, err)
		}
		logger.Debug("output is well formed", "source", source)
	}

	if structuredOutputRequested() {
		return printStructured(ctx, result)
	}
	return printDocument(ctx, result.Output)
}
