package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/clear-code/cutter-doc/internal/config"
	"github.com/clear-code/cutter-doc/internal/output"
	"github.com/clear-code/cutter-doc/internal/rd"
	"github.com/clear-code/cutter-doc/internal/section"
)

func TestValidateErrorFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"", false},
		{"auto", false},
		{"TEXT", false},
		{" json ", false},
		{"yaml", false},
		{"ndjson", true},
		{"xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			err := validateErrorFormat(tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateErrorFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
			}
		})
	}
}

func TestEffectiveErrorFormat(t *testing.T) {
	tests := []struct {
		name         string
		errorFormat  string
		outputFormat output.Format
		want         string
	}{
		{"empty defaults to text", "", output.FormatText, "text"},
		{"auto with json output", "auto", output.FormatJSON, "json"},
		{"auto with ndjson output", "auto", output.FormatNDJSON, "json"},
		{"auto with yaml output", "auto", output.FormatYAML, "yaml"},
		{"auto with table output", "auto", output.FormatTable, "text"},
		{"explicit json overrides", "json", output.FormatText, "json"},
		{"explicit text overrides", "text", output.FormatJSON, "text"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := WithErrorFormat(context.Background(), tt.errorFormat)
			ctx = output.WithFormat(ctx, tt.outputFormat)
			if got := effectiveErrorFormat(ctx); got != tt.want {
				t.Errorf("effectiveErrorFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestBuildErrorEnvelope(t *testing.T) {
	tests := []struct {
		name         string
		err          error
		wantType     string
		wantCategory string
	}{
		{"generic error", errors.New("boom"), "error", "system"},
		{"parse error", fmt.Errorf("parse snippet: %w", rd.ParseError{Line: 4, Message: "unterminated"}), "parse", "user"},
		{"validation error", fmt.Errorf("render: %w", section.ValidationError{Message: "invalid heading level -1"}), "validation", "user"},
		{"invariant error", section.InvariantError{Message: "root frame missing"}, "internal", "system"},
		{"missing file", fmt.Errorf("reading: %w", fs.ErrNotExist), "not_found", "user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := buildErrorEnvelope(tt.err)
			errMap, ok := result["error"].(map[string]interface{})
			if !ok {
				t.Fatal("expected 'error' map in result")
			}
			if errMap["message"] != tt.err.Error() {
				t.Errorf("message = %v, want %v", errMap["message"], tt.err.Error())
			}
			if errMap["type"] != tt.wantType {
				t.Errorf("type = %v, want %v", errMap["type"], tt.wantType)
			}
			if errMap["category"] != tt.wantCategory {
				t.Errorf("category = %v, want %v", errMap["category"], tt.wantCategory)
			}
		})
	}
}

func TestPrintCommandError(t *testing.T) {
	var stderr bytes.Buffer
	ctx := withIO(context.Background(), nil, &bytes.Buffer{}, &stderr)

	printCommandError(WithErrorFormat(ctx, "text"), errors.New("plain failure"))
	if stderr.String() != "plain failure\n" {
		t.Fatalf("unexpected text error %q", stderr.String())
	}

	stderr.Reset()
	printCommandError(WithErrorFormat(ctx, "yaml"), section.ValidationError{Message: "bad level"})
	var decoded map[string]map[string]interface{}
	if err := yaml.Unmarshal(stderr.Bytes(), &decoded); err != nil {
		t.Fatalf("parse yaml: %v", err)
	}
	if decoded["error"]["type"] != "validation" {
		t.Fatalf("unexpected yaml envelope %v", decoded)
	}

	stderr.Reset()
	printCommandError(ctx, nil)
	if stderr.Len() != 0 {
		t.Fatalf("nil error must print nothing, got %q", stderr.String())
	}
}

func TestIOFromContext(t *testing.T) {
	in := strings.NewReader("input")
	out := &bytes.Buffer{}
	errBuf := &bytes.Buffer{}
	ctx := withIO(context.Background(), in, out, errBuf)

	if stdinFromContext(ctx) != in || stdoutFromContext(ctx) != out || stderrFromContext(ctx) != errBuf {
		t.Fatal("expected the provided streams")
	}

	empty := context.Background()
	if stdinFromContext(empty) != os.Stdin || stdoutFromContext(empty) != os.Stdout || stderrFromContext(empty) != os.Stderr {
		t.Fatal("expected process streams by default")
	}
}

func TestConfigFromContext(t *testing.T) {
	if cfg := configFromContext(context.Background()); cfg == nil || *cfg != (config.Config{}) {
		t.Fatalf("expected empty default config, got %+v", cfg)
	}
	want := &config.Config{MiscInfo: "x"}
	if got := configFromContext(withConfig(context.Background(), want)); got != want {
		t.Fatal("expected stored config")
	}
}

func TestReadInputSource(t *testing.T) {
	if _, err := readInputSource("  ", nil); err == nil || !strings.Contains(err.Error(), "empty input source") {
		t.Fatalf("expected empty source error, got %v", err)
	}

	got, err := readInputSource("-", strings.NewReader("  indented\n"))
	if err != nil {
		t.Fatalf("read stdin: %v", err)
	}
	if got != "  indented\n" {
		t.Fatalf("stdin content must be kept verbatim, got %q", got)
	}

	path := filepath.Join(t.TempDir(), "doc.rd")
	if err := os.WriteFile(path, []byte("= Title\n"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	got, err = readInputSource(" "+path+" ", nil)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if got != "= Title\n" {
		t.Fatalf("unexpected file content %q", got)
	}

	if _, err := readInputSource(filepath.Join(t.TempDir(), "missing.rd"), nil); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestSourceArg(t *testing.T) {
	if sourceArg(nil) != "-" || sourceArg([]string{"a.rd"}) != "a.rd" {
		t.Fatal("unexpected source argument")
	}
}

func TestConfigApplyAndClear(t *testing.T) {
	cfg := &config.Config{}

	for key, value := range map[string]string{
		"output_format": "JSON",
		"misc_info":     "Tools",
		"stamp_name":    "docs.stamp",
		"check_output":  "true",
	} {
		if err := applyConfigValue(cfg, key, value); err != nil {
			t.Fatalf("apply %s: %v", key, err)
		}
	}
	want := config.Config{OutputFormat: "json", MiscInfo: "Tools", StampName: "docs.stamp", CheckOutput: true}
	if *cfg != want {
		t.Fatalf("got %+v, want %+v", *cfg, want)
	}

	for _, key := range supportedConfigKeys() {
		if err := clearConfigValue(cfg, key); err != nil {
			t.Fatalf("clear %s: %v", key, err)
		}
	}
	if *cfg != (config.Config{}) {
		t.Fatalf("expected cleared config, got %+v", *cfg)
	}

	invalid := []struct{ key, value string }{
		{"unknown", "x"},
		{"output_format", "xml"},
		{"stamp_name", "../sgml.stamp"},
		{"check_output", "maybe"},
	}
	for _, tt := range invalid {
		if err := applyConfigValue(cfg, tt.key, tt.value); err == nil {
			t.Errorf("expected error for %s=%s", tt.key, tt.value)
		}
	}
	if err := clearConfigValue(cfg, "unknown"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestConfigCommands(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")

	if _, err := runCLI(t, "", "--config", cfgPath, "config", "set", "misc_info", "My Library"); err != nil {
		t.Fatalf("config set: %v", err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.MiscInfo != "My Library" {
		t.Fatalf("expected misc_info saved, got %+v", cfg)
	}

	res, err := runCLI(t, "", "--config", cfgPath, "--output", "json", "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(res.out.String(), `"misc_info": "My Library"`) {
		t.Fatalf("unexpected config show output %q", res.out.String())
	}

	if _, err := runCLI(t, "", "--config", cfgPath, "config", "unset", "misc_info"); err != nil {
		t.Fatalf("config unset: %v", err)
	}
	cfg, err = config.Load(cfgPath)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.MiscInfo != "" {
		t.Fatalf("expected misc_info cleared, got %+v", cfg)
	}

	res, err = runCLI(t, "", "--output", "text", "config", "keys")
	if err != nil {
		t.Fatalf("config keys: %v", err)
	}
	if !strings.Contains(res.out.String(), "  stamp_name\n") {
		t.Fatalf("unexpected keys output %q", res.out.String())
	}
}

func TestResolveHelpers(t *testing.T) {
	cfg := &config.Config{}
	if miscInfo(cfg, "") != "CUTTER Library" || miscInfo(cfg, " Flag ") != "Flag" {
		t.Fatal("unexpected misc info resolution")
	}
	cfg.MiscInfo = "Config"
	if miscInfo(cfg, "") != "Config" {
		t.Fatal("expected config misc info")
	}
	if stampName(cfg) != "sgml.stamp" {
		t.Fatal("expected default stamp name")
	}
	cfg.StampName = "docs.stamp"
	if stampName(cfg) != "docs.stamp" {
		t.Fatal("expected configured stamp name")
	}
}

func TestSetVersionInfo(t *testing.T) {
	origVersion, origCommit, origDate := version, commit, date
	defer SetVersionInfo(origVersion, origCommit, origDate)

	SetVersionInfo("1.2.3", "abc123", "2026-01-01")
	if version != "1.2.3" || commit != "abc123" || date != "2026-01-01" {
		t.Fatalf("unexpected version info %s %s %s", version, commit, date)
	}
	if rootCmd.Version != "1.2.3" {
		t.Fatalf("rootCmd.Version = %q", rootCmd.Version)
	}
	if !strings.Contains(versionTemplate(), "cutter-doc version 1.2.3 (commit: abc123") {
		t.Fatalf("unexpected version template %q", versionTemplate())
	}
}
