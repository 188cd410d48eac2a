package cmd

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type cliResult struct {
	out *bytes.Buffer
	err *bytes.Buffer
}

// runCLI executes the root command with args and stdin, isolated from the
// user's environment and config file.
func runCLI(t *testing.T, stdin string, args ...string) (cliResult, error) {
	t.Helper()
	restore := snapshotCLIState()
	resetCLIState()
	t.Cleanup(restore)

	prevEnvGet := envGet
	prevLoadDotEnv := loadDotEnv
	envGet = func(string) string { return "" }
	loadDotEnv = func(...string) error { return nil }
	t.Cleanup(func() {
		envGet = prevEnvGet
		loadDotEnv = prevLoadDotEnv
	})

	res := cliResult{out: &bytes.Buffer{}, err: &bytes.Buffer{}}
	in := bytes.NewBufferString(stdin)
	rootCmd.SetOut(res.out)
	rootCmd.SetErr(res.err)
	rootCmd.SetIn(in)
	rootCmd.SetContext(context.Background())

	if !hasFlag(args, "--config") {
		args = append([]string{"--config", t.TempDir() + "/config.yaml"}, args...)
	}
	rootCmd.SetArgs(args)
	return res, Execute()
}

func hasFlag(args []string, name string) bool {
	for _, a := range args {
		if a == name {
			return true
		}
	}
	return false
}

func snapshotCLIState() func() {
	prevOut := rootCmd.OutOrStdout()
	prevErr := rootCmd.ErrOrStderr()
	prevIn := rootCmd.InOrStdin()

	return func() {
		resetCLIState()
		rootCmd.SetOut(prevOut)
		rootCmd.SetErr(prevErr)
		rootCmd.SetIn(prevIn)
	}
}

// resetCLIState puts flag variables and command state back to defaults.
func resetCLIState() {
	outputFmt = "text"
	outputType = ""
	debug = false
	configFile = ""
	queryExpr = ""
	queryFile = ""
	errorFmt = "auto"
	quietFlag = false
	resultLimit = 0

	renderRefEntry = false
	renderID = ""
	renderMiscInfo = ""
	renderCheck = false
	expandDryRun = false
	expandCheck = false

	rootCmd.SetArgs(nil)
	resetCommandState(rootCmd)
}

func resetCommandState(cmd *cobra.Command) {
	cmd.SetContext(nil)
	cmd.SilenceUsage = false
	cmd.SilenceErrors = false
	reset := func(f *pflag.Flag) { f.Changed = false }
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, child := range cmd.Commands() {
		resetCommandState(child)
	}
}
