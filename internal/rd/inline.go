package rd

import (
	"fmt"
	"strings"
)

type inlineMarkup struct {
	open  string
	close string
	build func([]Inline) Inline
}

var inlineMarkups = []inlineMarkup{
	{"((*", "*))", func(c []Inline) Inline { return Emphasis{Children: c} }},
	{"(({", "}))", func(c []Inline) Inline { return Code{Children: c} }},
	{"((|", "|))", func(c []Inline) Inline { return Var{Children: c} }},
	{"((%", "%))", func(c []Inline) Inline { return Keyboard{Children: c} }},
	{"((-", "-))", func(c []Inline) Inline { return Footnote{Children: c} }},
}

const (
	referenceOpen  = "((<"
	referenceClose = ">))"
)

type inlineParser struct {
	src  string
	pos  int
	line int
}

func parseInline(src string, line int) ([]Inline, error) {
	p := &inlineParser{src: src, line: line}
	return p.parse("")
}

func (p *inlineParser) parse(closer string) ([]Inline, error) {
	var out []Inline
	var text strings.Builder
	start := p.pos
	flush := func() {
		if text.Len() > 0 {
			out = append(out, Text(text.String()))
			text.Reset()
		}
	}

	for p.pos < len(p.src) {
		rest := p.src[p.pos:]
		if closer != "" && strings.HasPrefix(rest, closer) {
			p.pos += len(closer)
			flush()
			return out, nil
		}

		if strings.HasPrefix(rest, referenceOpen) {
			flush()
			end := strings.Index(rest[len(referenceOpen):], referenceClose)
			if end < 0 {
				return nil, p.errorAt(p.pos, "unterminated reference")
			}
			body := rest[len(referenceOpen) : len(referenceOpen)+end]
			ref, err := parseReference(body)
			if err != nil {
				return nil, p.errorAt(p.pos, err.Error())
			}
			out = append(out, ref)
			p.pos += len(referenceOpen) + end + len(referenceClose)
			continue
		}

		if m, ok := matchMarkup(rest); ok {
			flush()
			p.pos += len(m.open)
			children, err := p.parse(m.close)
			if err != nil {
				return nil, err
			}
			out = append(out, m.build(children))
			continue
		}

		text.WriteByte(p.src[p.pos])
		p.pos++
	}

	if closer != "" {
		return nil, p.errorAt(start, fmt.Sprintf("unterminated markup, missing %q", closer))
	}
	flush()
	return out, nil
}

func (p *inlineParser) errorAt(pos int, msg string) error {
	if pos > len(p.src) {
		pos = len(p.src)
	}
	return ParseError{Line: p.line + strings.Count(p.src[:pos], "\n"), Message: msg}
}

func matchMarkup(s string) (inlineMarkup, bool) {
	for _, m := range inlineMarkups {
		if strings.HasPrefix(s, m.open) {
			return m, true
		}
	}
	return inlineMarkup{}, false
}

func parseReference(body string) (Reference, error) {
	label, target, hasLabel := strings.Cut(body, "|")
	if !hasLabel {
		target = label
		label = ""
	}
	label = strings.TrimSpace(label)
	target = strings.TrimSpace(target)
	if target == "" {
		return Reference{}, fmt.Errorf("empty reference target")
	}
	if strings.HasPrefix(target, `"`) {
		return Reference{}, fmt.Errorf("reference to a file label is unsupported: %s", target)
	}
	if url, ok := strings.CutPrefix(target, "URL:"); ok {
		return Reference{Label: label, Target: url, URL: true}, nil
	}
	return Reference{Label: label, Target: target}, nil
}

// PlainText flattens inline markup into its text content.
func PlainText(inlines []Inline) string {
	var b strings.Builder
	for _, in := range inlines {
		switch v := in.(type) {
		case Text:
			b.WriteString(string(v))
		case Emphasis:
			b.WriteString(PlainText(v.Children))
		case Code:
			b.WriteString(PlainText(v.Children))
		case Var:
			b.WriteString(PlainText(v.Children))
		case Keyboard:
			b.WriteString(PlainText(v.Children))
		case Footnote:
			// footnotes are not part of the running text
		case Reference:
			if v.Label != "" {
				b.WriteString(v.Label)
			} else {
				b.WriteString(v.Target)
			}
		}
	}
	return b.String()
}
