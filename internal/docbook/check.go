package docbook

import (
	"fmt"
	"strings"

	"github.com/antchfx/xmlquery"
)

// CheckWellFormed parses rendered output and reports malformed markup.
// Fragments without an XML declaration are checked inside a wrapper
// element so several top-level elements are allowed.
func CheckWellFormed(output string) error {
	src := strings.TrimSpace(output)
	if !strings.HasPrefix(src, "<?xml") {
		src = "<fragment>" + src + "</fragment>"
	}
	if _, err := xmlquery.Parse(strings.NewReader(src)); err != nil {
		return fmt.Errorf("malformed DocBook output: %w", err)
	}
	return nil
}
