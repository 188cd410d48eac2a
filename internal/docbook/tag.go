// Package docbook renders parsed RD documents as DocBook XML.
package docbook

import (
	"html"
	"regexp"
	"strings"
)

// Attr is one XML attribute. Attributes render in slice order.
type Attr struct {
	Name  string
	Value string
}

// Tag renders an element. A single content without markup stays on the
// element line; otherwise every content goes on its own line indented by
// two spaces. An element without content is self-closing.
func Tag(name string, attrs []Attr, contents ...string) string {
	var b strings.Builder
	b.WriteString("<")
	b.WriteString(name)
	for _, a := range attrs {
		b.WriteString(" ")
		b.WriteString(a.Name)
		b.WriteString(`="`)
		b.WriteString(Escape(a.Value))
		b.WriteString(`"`)
	}

	if len(contents) == 0 || (len(contents) == 1 && contents[0] == "") {
		b.WriteString("/>")
		return b.String()
	}
	b.WriteString(">")

	if len(contents) == 1 && !strings.Contains(contents[0], "<") {
		b.WriteString(contents[0])
	} else {
		b.WriteString("\n")
		for i, c := range contents {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString("  ")
			b.WriteString(c)
		}
		b.WriteString("\n")
	}

	b.WriteString("</")
	b.WriteString(name)
	b.WriteString(">")
	return b.String()
}

// Escape escapes text for use in XML content and attribute values.
func Escape(s string) string {
	return html.EscapeString(s)
}

var inlineTagPattern = regexp.MustCompile(`<[^<>\s][^<>]*>`)

// escapeKeepingTags escapes text while passing "<...>" tags through
// untouched, so DocBook markup written inside a snippet survives.
func escapeKeepingTags(s string) string {
	var b strings.Builder
	for s != "" {
		loc := inlineTagPattern.FindStringIndex(s)
		if loc == nil {
			b.WriteString(Escape(s))
			break
		}
		b.WriteString(Escape(s[:loc[0]]))
		b.WriteString(s[loc[0]:loc[1]])
		s = s[loc[1]:]
	}
	return b.String()
}
