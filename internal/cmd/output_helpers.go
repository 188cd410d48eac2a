package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/clear-code/cutter-doc/internal/output"
)

func structuredOutputRequested() bool {
	return output.IsStructured(GetOutputFormat())
}

func printStructured(ctx context.Context, data interface{}) error {
	printer := output.NewPrinter(stdoutFromContext(ctx), GetOutputFormat())
	return printer.Print(ctx, data)
}

// printDocument writes generated markup, ending it with a newline.
func printDocument(ctx context.Context, doc string) error {
	if doc != "" && !strings.HasSuffix(doc, "\n") {
		doc += "\n"
	}
	_, err := fmt.Fprint(stdoutFromContext(ctx), doc)
	return err
}

// printStatus writes a human-readable status line unless --quiet is set.
func printStatus(ctx context.Context, format string, args ...interface{}) {
	if output.QuietFromContext(ctx) {
		return
	}
	_, _ = fmt.Fprintf(stdoutFromContext(ctx), format+"\n", args...)
}

func commandContext(ctx context.Context) context.Context {
	if ctx != nil {
		return ctx
	}
	return context.Background()
}
