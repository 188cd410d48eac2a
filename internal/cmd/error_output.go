package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/clear-code/cutter-doc/internal/output"
	"github.com/clear-code/cutter-doc/internal/rd"
	"github.com/clear-code/cutter-doc/internal/section"
)

func validateErrorFormat(format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "auto", "text", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("invalid --error-format %q (expected auto|text|json|yaml)", format)
	}
}

func effectiveErrorFormat(ctx context.Context) string {
	format := strings.ToLower(strings.TrimSpace(ErrorFormatFromContext(ctx)))
	if format == "" || format == "auto" {
		switch output.FormatFromContext(ctx) {
		case output.FormatJSON, output.FormatNDJSON:
			return "json"
		case output.FormatYAML:
			return "yaml"
		default:
			return "text"
		}
	}
	return format
}

func printCommandError(ctx context.Context, err error) {
	if err == nil {
		return
	}
	ctx = commandContext(ctx)

	switch effectiveErrorFormat(ctx) {
	case "json":
		enc := json.NewEncoder(stderrFromContext(ctx))
		enc.SetEscapeHTML(false)
		_ = enc.Encode(buildErrorEnvelope(err))
		return
	case "yaml":
		enc := yaml.NewEncoder(stderrFromContext(ctx))
		enc.SetIndent(2)
		_ = enc.Encode(buildErrorEnvelope(err))
		_ = enc.Close()
		return
	}

	_, _ = fmt.Fprintln(stderrFromContext(ctx), err)
}

func buildErrorEnvelope(err error) map[string]interface{} {
	errMap := map[string]interface{}{
		"message":  err.Error(),
		"type":     "error",
		"category": "system",
	}

	var parseErr rd.ParseError
	var validationErr section.ValidationError
	var invariantErr section.InvariantError
	switch {
	case errors.As(err, &parseErr):
		errMap["type"] = "parse"
		errMap["category"] = "user"
		errMap["line"] = parseErr.Line
	case errors.As(err, &validationErr):
		errMap["type"] = "validation"
		errMap["category"] = "user"
	case errors.As(err, &invariantErr):
		errMap["type"] = "internal"
	case errors.Is(err, fs.ErrNotExist):
		errMap["type"] = "not_found"
		errMap["category"] = "user"
	}

	return map[string]interface{}{"error": errMap}
}
