package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/clear-code/cutter-doc/internal/docbook"
	"github.com/clear-code/cutter-doc/internal/logging"
	"github.com/clear-code/cutter-doc/internal/output"
	"github.com/clear-code/cutter-doc/internal/snippet"
)

var (
	expandDryRun bool
	expandCheck  bool
)

var expandCmd = &cobra.Command{
	Use:   "expand <xml-dir>",
	Short: "Expand RD snippets in DocBook files",
	Long: `Replace every <para><rd>...</rd></para> block in the *.xml files of a
directory with its DocBook rendering.

Only files whose content changes are rewritten. When anything changed the
stamp file (stamp_name config, default sgml.stamp) next to the directory
is touched so that make knows the DocBook sources are up to date.`,
	Args:        cobra.ExactArgs(1),
	Annotations: map[string]string{annotationReport: ""},
	RunE:        runExpand,
}

func init() {
	expandCmd.Flags().BoolVar(&expandDryRun, "dry-run", false, "Report changes without writing files")
	expandCmd.Flags().BoolVar(&expandCheck, "check", false, "Verify that every rendered snippet is well-formed XML")
	rootCmd.AddCommand(expandCmd)
}

func runExpand(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd.Context())
	cfg := configFromContext(ctx)

	dir, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving %s: %w", args[0], err)
	}

	render := snippet.RenderFunc(docbook.RenderSnippet)
	if checkEnabled(cmd, cfg, expandCheck) {
		render = checkedRender(render)
	}

	exp := &snippet.Expander{
		FS:        newFilesystem(filepath.Dir(dir)),
		Dir:       filepath.Base(dir),
		StampName: stampName(cfg),
		Render:    render,
		DryRun:    expandDryRun,
		Logger:    logging.FromContext(ctx),
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	switch GetOutputFormat() {
	case output.FormatText:
	case output.FormatTable:
		return printStructured(ctx, result.Files)
	default:
		return printStructured(ctx, result)
	}

	verb := "expanded"
	if expandDryRun {
		verb = "would expand"
	}
	for _, f := range result.Files {
		if f.Changed {
			printStatus(ctx, "%s %s (%d snippets)", verb, f.File, f.Snippets)
		}
	}
	switch {
	case !result.Changed:
		printStatus(ctx, "no changes")
	case expandDryRun:
		printStatus(ctx, "would touch %s", result.Stamp)
	default:
		printStatus(ctx, "touched %s", result.Stamp)
	}
	return nil
}

func checkedRender(render snippet.RenderFunc) snippet.RenderFunc {
	return func(body string) (string, error) {
		out, err := render(body)
		if err != nil {
			return "", err
		}
		if err := docbook.CheckWellFormed(out); err != nil {
			return "", err
		}
		return out, nil
	}
}
