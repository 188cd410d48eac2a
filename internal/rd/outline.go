package rd

import "strings"

// OutlineEntry is one headline of a document with its ancestry.
type OutlineEntry struct {
	Level int    `json:"level" yaml:"level"`
	Title string `json:"title" yaml:"title"`
	Path  string `json:"path" yaml:"path"`
	Line  int    `json:"line" yaml:"line"`
}

// Outline lists the document headlines in order. Path joins the titles of
// the enclosing headlines with " > ".
func Outline(doc *Document) []OutlineEntry {
	if doc == nil {
		return nil
	}

	type open struct {
		level int
		title string
	}
	var stack []open
	var entries []OutlineEntry
	for _, b := range doc.Blocks {
		h, ok := b.(Headline)
		if !ok {
			continue
		}
		title := strings.TrimSpace(PlainText(h.Title))
		// Same closing rule as section.Builder: a headline ends every open
		// headline at its level or deeper.
		for len(stack) > 0 && stack[len(stack)-1].level >= h.Level {
			stack = stack[:len(stack)-1]
		}
		stack = append(stack, open{level: h.Level, title: title})

		parts := make([]string, 0, len(stack))
		for _, o := range stack {
			parts = append(parts, o.title)
		}
		entries = append(entries, OutlineEntry{
			Level: h.Level,
			Title: title,
			Path:  strings.Join(parts, " > "),
			Line:  h.Line,
		})
	}
	return entries
}
