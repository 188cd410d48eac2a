package rd

import (
	"regexp"
	"strings"
)

type line struct {
	no   int
	text string
}

var (
	headlinePattern = regexp.MustCompile(`^(={1,4}|\+{1,2})\s+(.*?)\s*$`)
	bulletPattern   = regexp.MustCompile(`^\*\s+`)
	enumPattern     = regexp.MustCompile(`^\(\d+\)\s+`)
	descPattern     = regexp.MustCompile(`^:\s+`)
)

type listKind int

const (
	notList listKind = iota
	bulletList
	enumList
	descList
)

// Parse parses RD source. When the source contains a "=begin" line only the
// lines up to the matching "=end" are read.
func Parse(src string) (*Document, error) {
	lines := extractBody(splitLines(src))
	blocks, err := parseBlocks(lines, true)
	if err != nil {
		return nil, err
	}
	return &Document{Blocks: blocks}, nil
}

func splitLines(src string) []line {
	src = strings.ReplaceAll(src, "\r\n", "\n")
	raw := strings.Split(src, "\n")
	lines := make([]line, 0, len(raw))
	for i, text := range raw {
		lines = append(lines, line{no: i + 1, text: strings.TrimRight(expandTabs(text), " ")})
	}
	return lines
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := 8 - col%8
			b.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

func extractBody(lines []line) []line {
	start := -1
	for i, l := range lines {
		if l.text == "=begin" || strings.HasPrefix(l.text, "=begin ") {
			start = i
			break
		}
	}
	if start >= 0 {
		end := len(lines)
		for i := start + 1; i < len(lines); i++ {
			if lines[i].text == "=end" || strings.HasPrefix(lines[i].text, "=end ") {
				end = i
				break
			}
		}
		lines = lines[start+1 : end]
	}

	body := make([]line, 0, len(lines))
	for _, l := range lines {
		if strings.HasPrefix(l.text, "#") {
			continue
		}
		body = append(body, l)
	}
	return body
}

func parseBlocks(lines []line, top bool) ([]Block, error) {
	var blocks []Block
	i := 0
	for i < len(lines) {
		l := lines[i]
		switch {
		case isBlank(l.text):
			i++
		case top && headlinePattern.MatchString(l.text):
			m := headlinePattern.FindStringSubmatch(l.text)
			level := len(m[1])
			if m[1][0] == '+' {
				level += 4
			}
			title, err := parseInline(m[2], l.no)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, Headline{Level: level, Title: title, Line: l.no})
			i++
		case indentOf(l.text) > 0:
			block, n := parseVerbatim(lines[i:])
			blocks = append(blocks, block)
			i += n
		case listStart(l.text) != notList:
			block, n, err := parseList(lines[i:], listStart(l.text))
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, block)
			i += n
		default:
			block, n, err := parseTextBlock(lines[i:], top)
			if err != nil {
				return nil, err
			}
			blocks = append(blocks, block)
			i += n
		}
	}
	return blocks, nil
}

func parseTextBlock(lines []line, top bool) (Block, int, error) {
	var texts []string
	n := 0
	for n < len(lines) {
		text := lines[n].text
		if isBlank(text) || indentOf(text) > 0 {
			break
		}
		if n > 0 && (listStart(text) != notList || (top && headlinePattern.MatchString(text))) {
			break
		}
		texts = append(texts, text)
		n++
	}
	content, err := parseInline(strings.Join(texts, "\n"), lines[0].no)
	if err != nil {
		return nil, 0, err
	}
	return TextBlock{Content: content}, n, nil
}

func parseVerbatim(lines []line) (Block, int) {
	body, n := collectIndented(lines, 0)
	minIndent := minIndentOf(body)
	out := make([]string, 0, len(body))
	for _, l := range body {
		out = append(out, dedent(l.text, minIndent))
	}
	return Verbatim{Lines: out}, n
}

func parseList(lines []line, kind listKind) (Block, int, error) {
	var items []ListItem
	var descItems []DescItem
	i := 0
	for i < len(lines) {
		if isBlank(lines[i].text) {
			j := skipBlank(lines, i)
			if j < len(lines) && listStart(lines[j].text) == kind {
				i = j
				continue
			}
			break
		}
		if listStart(lines[i].text) != kind {
			break
		}

		first := lines[i]
		width := markerWidth(first.text, kind)
		rest, n := collectIndented(lines[i+1:], 0)
		i += 1 + n

		if kind == descList {
			term, err := parseInline(first.text[width:], first.no)
			if err != nil {
				return nil, 0, err
			}
			blocks, err := parseBlocks(dedentAll(rest, minIndentOf(rest)), false)
			if err != nil {
				return nil, 0, err
			}
			descItems = append(descItems, DescItem{Term: term, Blocks: blocks})
			continue
		}

		shift := width
		if m := minIndentOf(rest); m < shift {
			shift = m
		}
		body := append([]line{{no: first.no, text: first.text[width:]}}, dedentAll(rest, shift)...)
		blocks, err := parseBlocks(body, false)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, ListItem{Blocks: blocks})
	}

	switch kind {
	case bulletList:
		return ItemList{Items: items}, i, nil
	case enumList:
		return EnumList{Items: items}, i, nil
	default:
		return DescList{Items: descItems}, i, nil
	}
}

// collectIndented gathers the leading run of lines indented deeper than
// indent. Blank lines are kept only when more indented lines follow.
func collectIndented(lines []line, indent int) ([]line, int) {
	var body []line
	j := 0
	for j < len(lines) {
		if isBlank(lines[j].text) {
			k := skipBlank(lines, j)
			if k < len(lines) && indentOf(lines[k].text) > indent {
				body = append(body, lines[j:k]...)
				j = k
				continue
			}
			break
		}
		if indentOf(lines[j].text) <= indent {
			break
		}
		body = append(body, lines[j])
		j++
	}
	return body, j
}

func listStart(text string) listKind {
	switch {
	case bulletPattern.MatchString(text):
		return bulletList
	case enumPattern.MatchString(text):
		return enumList
	case descPattern.MatchString(text):
		return descList
	default:
		return notList
	}
}

func markerWidth(text string, kind listKind) int {
	switch kind {
	case bulletList:
		return len(bulletPattern.FindString(text))
	case enumList:
		return len(enumPattern.FindString(text))
	case descList:
		return len(descPattern.FindString(text))
	}
	return 0
}

func skipBlank(lines []line, i int) int {
	for i < len(lines) && isBlank(lines[i].text) {
		i++
	}
	return i
}

func isBlank(text string) bool {
	return strings.TrimSpace(text) == ""
}

func indentOf(text string) int {
	return len(text) - len(strings.TrimLeft(text, " "))
}

func minIndentOf(lines []line) int {
	least := -1
	for _, l := range lines {
		if isBlank(l.text) {
			continue
		}
		if n := indentOf(l.text); least < 0 || n < least {
			least = n
		}
	}
	if least < 0 {
		return 0
	}
	return least
}

func dedent(text string, n int) string {
	if indentOf(text) < n {
		return strings.TrimLeft(text, " ")
	}
	return text[n:]
}

func dedentAll(lines []line, n int) []line {
	out := make([]line, 0, len(lines))
	for _, l := range lines {
		out = append(out, line{no: l.no, text: dedent(l.text, n)})
	}
	return out
}
