package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/clear-code/cutter-doc/internal/config"
	"github.com/clear-code/cutter-doc/internal/logging"
	"github.com/clear-code/cutter-doc/internal/output"
)

var (
	// Version is set at build time
	version = "dev"
	// Commit is set at build time
	commit = "none"
	// Date is set at build time
	date = "unknown"
)

// SetVersionInfo sets the version information from build flags
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = v
	rootCmd.SetVersionTemplate(versionTemplate())
}

// Global flags
var (
	outputFmt   string
	outputType  output.Format
	debug       bool
	configFile  string
	queryExpr   string
	queryFile   string
	errorFmt    string
	quietFlag   bool
	resultLimit int
)

var rootCmd = &cobra.Command{
	Use:   "cutter-doc",
	Short: "Convert RD documentation to DocBook",
	Long: `cutter-doc converts RD documentation into DocBook XML.

It renders RD snippets and reference pages, expands RD snippets embedded
in DocBook files, and reports document outlines.

Environment Variables:
  CUTTER_DOC_OUTPUT_FORMAT  Default output format
  CUTTER_DOC_MISC_INFO      refmiscinfo text of generated pages`,
	Version: version,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceErrors = true

		skipConfigLoad := cmd.Name() == "config" || (cmd.Parent() != nil && cmd.Parent().Name() == "config")
		cfg := &config.Config{}
		if !skipConfigLoad {
			loadedCfg, err := loadConfigFromFlag()
			if err != nil {
				return formatConfigLoadError(err)
			}
			cfg = loadedCfg
		}

		// Output format selection: --output > config/env > non-TTY json > default
		formatStr := outputFmt
		explicit := flagChanged(cmd, "output") || flagChanged(cmd, "format")
		if !explicit && strings.TrimSpace(cfg.OutputFormat) != "" {
			formatStr = strings.TrimSpace(cfg.OutputFormat)
		} else if !explicit && !isTerminal(cmd.OutOrStdout()) && reportsData(cmd) {
			formatStr = string(output.FormatJSON)
		}
		format, err := output.ParseFormat(formatStr)
		if err != nil {
			return err
		}
		outputType = format
		outputFmt = string(format)

		if queryExpr != "" && queryFile != "" {
			return fmt.Errorf("use only one of --query or --query-file")
		}
		if queryFile != "" {
			loaded, err := readInputSource(queryFile, cmd.InOrStdin())
			if err != nil {
				return err
			}
			queryExpr = strings.TrimSpace(loaded)
		}

		// Default quiet mode for non-interactive structured output
		if !flagChanged(cmd, "quiet") && !isTerminal(cmd.OutOrStdout()) && output.IsStructured(outputType) {
			quietFlag = true
		}

		if err := validateErrorFormat(errorFmt); err != nil {
			return err
		}

		ctx := cmd.Context()
		ctx = withIO(ctx, cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		ctx = output.WithFormat(ctx, outputType)
		ctx = output.WithQuery(ctx, queryExpr)
		ctx = output.WithLimit(ctx, resultLimit)
		ctx = output.WithQuiet(ctx, quietFlag)
		ctx = WithErrorFormat(ctx, errorFmt)
		ctx = withConfig(ctx, cfg)
		ctx = logging.WithLogger(ctx, newLogger(cmd.ErrOrStderr(), effectiveErrorFormat(ctx)))
		cmd.SetContext(ctx)

		if effectiveErrorFormat(ctx) != "text" {
			cmd.SilenceUsage = true
		}

		logging.FromContext(ctx).Debug("starting command",
			"command", cmd.CommandPath(),
			"output", outputFmt,
			"config", configFile)
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	cmd, err := rootCmd.ExecuteC()
	if err != nil {
		ctx := rootCmd.Context()
		if cmd != nil && cmd.Context() != nil {
			ctx = cmd.Context()
		}
		printCommandError(ctx, err)
		return err
	}
	return nil
}

// GetOutputFormat returns the configured output format
func GetOutputFormat() output.Format {
	if outputType != "" {
		return outputType
	}
	parsed, err := output.ParseFormat(outputFmt)
	if err != nil {
		return output.FormatText
	}
	return parsed
}

func init() {
	rootCmd.SetVersionTemplate(versionTemplate())

	rootCmd.PersistentFlags().StringVarP(&outputFmt, "output", "o", "text", "Output format (text|json|ndjson|table|yaml)")
	rootCmd.PersistentFlags().StringVar(&outputFmt, "format", "text", "Alias for --output")
	rootCmd.PersistentFlags().StringVar(&queryExpr, "query", "", "jq expression to filter JSON output")
	rootCmd.PersistentFlags().StringVar(&queryFile, "query-file", "", "Read jq expression from file (use - for stdin)")
	rootCmd.PersistentFlags().StringVar(&errorFmt, "error-format", "auto", "Error output format (auto|text|json|yaml)")
	rootCmd.PersistentFlags().BoolVar(&quietFlag, "quiet", false, "Suppress non-essential output")
	rootCmd.PersistentFlags().IntVar(&resultLimit, "result-limit", 0, "Limit number of results in output (0 = unlimited)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: ~/.config/cutter-doc/config.yaml)")
}

func versionTemplate() string {
	return fmt.Sprintf("cutter-doc version %s (commit: %s, built: %s)\n", version, commit, date)
}

// reportsData reports whether cmd prints a data report rather than
// generated markup. Only those switch to JSON when piped.
func reportsData(cmd *cobra.Command) bool {
	_, ok := cmd.Annotations[annotationReport]
	return ok
}

const annotationReport = "report"

func newLogger(w io.Writer, errorFormat string) *slog.Logger {
	if quietFlag && !debug {
		return logging.Discard()
	}
	format := logging.FormatText
	if errorFormat == "json" {
		format = logging.FormatJSON
	}
	return logging.New(w, debug, format)
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
