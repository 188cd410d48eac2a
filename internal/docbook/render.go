package docbook

import (
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/clear-code/cutter-doc/internal/rd"
	"github.com/clear-code/cutter-doc/internal/section"
)

// DefaultMiscInfo is the refmiscinfo text of generated reference pages.
const DefaultMiscInfo = "CUTTER Library"

const (
	xmlDecl     = `<?xml version="1.0" encoding="utf-8"?>`
	doctypeDecl = "<!DOCTYPE refentry \n" +
		"  PUBLIC \"-//OASIS//DTD DocBook XML V4.1.2//EN\"\n" +
		"  \"http://www.oasis-open.org/docbook/xml/4.1.2/docbookx.dtd\">"
)

var (
	purposeSeparator    = regexp.MustCompile(`\s*\B---\B\s*`)
	htmlAnchorPattern   = regexp.MustCompile(`\.html#[a-zA-Z\-_]+$`)
	langSuffixPattern   = regexp.MustCompile(`\.[a-z]{2}$`)
	referenceURLPattern = regexp.MustCompile(`^http://cutter\.(?:sf|sourceforge)\.net/reference/`)
)

// Options tune reference page rendering.
type Options struct {
	// MiscInfo is the refmiscinfo text. Empty means DefaultMiscInfo.
	MiscInfo string
}

// RenderSnippet renders an RD snippet embedded in a DocBook file. Text is
// escaped but inline DocBook tags written in the snippet are kept.
func RenderSnippet(src string) (string, error) {
	doc, err := rd.Parse(src)
	if err != nil {
		return "", fmt.Errorf("parse snippet: %w", err)
	}

	v := &visitor{keepTags: true}
	blocks, err := section.Build(sectionRenderer{}, v.items(doc))
	if err != nil {
		return "", fmt.Errorf("render snippet: %w", err)
	}
	return joinBlocks(blocks, "\n\n"), nil
}

// RenderRefEntry renders a complete RD document as a DocBook refentry
// page. The first level 1 headline, written "name --- purpose", supplies
// the page name and purpose and is not repeated in the body.
func RenderRefEntry(id, src string, opts Options) (string, error) {
	doc, err := rd.Parse(src)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", id, err)
	}
	if opts.MiscInfo == "" {
		opts.MiscInfo = DefaultMiscInfo
	}

	v := &visitor{pageHeadline: true}
	blocks, err := section.Build(sectionRenderer{}, v.items(doc))
	if err != nil {
		return "", fmt.Errorf("render %s: %w", id, err)
	}

	title := v.title
	if !v.hasTitle {
		title = Escape(id)
	}

	var b strings.Builder
	b.WriteString(xmlDecl + "\n")
	b.WriteString(doctypeDecl + "\n")
	b.WriteString(`<refentry id="` + Escape(id) + "\">\n")
	b.WriteString(Tag("refmeta", nil,
		Tag("refentrytitle", []Attr{
			{Name: "role", Value: "top_of_page"},
			{Name: "id", Value: id + ".top_of_page"},
		}, title),
		Tag("refmiscinfo", nil, Escape(opts.MiscInfo))) + "\n")

	nameDiv := []string{Tag("refname", nil, title)}
	if v.purpose != "" {
		nameDiv = append(nameDiv, Tag("refpurpose", nil, v.purpose))
	}
	b.WriteString(Tag("refnamediv", nil, nameDiv...) + "\n")

	if body := joinBlocks(blocks, "\n\n"); body != "" {
		b.WriteString(body + "\n")
	}
	b.WriteString("</refentry>\n")
	return b.String(), nil
}

// EntryID derives a refentry id from a source file name.
func EntryID(name string) string {
	base := filepath.Base(name)
	return strings.ToLower(strings.TrimSuffix(base, filepath.Ext(base)))
}

// sectionRenderer wraps closed sections in refsectN elements. Headings
// without a title contribute no title block.
type sectionRenderer struct{}

func (r sectionRenderer) Title(h section.Heading) string {
	if h.Title == "" {
		return ""
	}
	return Tag("title", nil, h.Title)
}

func (r sectionRenderer) Section(level int, id string, body []string) string {
	var attrs []Attr
	if id != "" {
		attrs = append(attrs, Attr{Name: "id", Value: id})
	}
	return Tag("refsect"+strconv.Itoa(level), attrs, nonEmpty(body)...)
}

func (r sectionRenderer) Join(blocks []string) string {
	return joinBlocks(blocks, "\n\n")
}

type visitor struct {
	keepTags bool
	// pageHeadline drops the title of the headline that names the page.
	pageHeadline bool
	footnoteID   int
	title        string
	purpose      string
	hasTitle     bool
}

func (v *visitor) items(doc *rd.Document) []section.Item {
	items := make([]section.Item, 0, len(doc.Blocks))
	for _, b := range doc.Blocks {
		if h, ok := b.(rd.Headline); ok {
			title := v.inlines(h.Title)
			if h.Level == 1 && !v.hasTitle {
				parts := purposeSeparator.Split(title, 2)
				v.title = parts[0]
				if len(parts) == 2 {
					v.purpose = parts[1]
				}
				v.hasTitle = true
				if v.pageHeadline {
					title = ""
				}
			}
			items = append(items, section.Heading{Level: h.Level - 1, Title: title})
			continue
		}
		items = append(items, section.Content(v.block(b)))
	}
	return items
}

func (v *visitor) block(b rd.Block) string {
	switch b := b.(type) {
	case rd.TextBlock:
		return Tag("para", nil, v.inlines(b.Content))
	case rd.Verbatim:
		lines := make([]string, 0, len(b.Lines))
		for _, l := range b.Lines {
			lines = append(lines, Escape(l))
		}
		return Tag("programlisting", nil, strings.Join(lines, "\n"))
	case rd.ItemList:
		return Tag("itemizedlist", nil, v.listItems(b.Items)...)
	case rd.EnumList:
		return Tag("orderedlist", nil, v.listItems(b.Items)...)
	case rd.DescList:
		entries := make([]string, 0, len(b.Items))
		for _, item := range b.Items {
			entries = append(entries, Tag("varlistentry", nil,
				Tag("term", nil, v.inlines(item.Term)),
				Tag("listitem", nil, v.blocks(item.Blocks)...)))
		}
		return Tag("variablelist", nil, entries...)
	default:
		return ""
	}
}

func (v *visitor) blocks(bs []rd.Block) []string {
	out := make([]string, 0, len(bs))
	for _, b := range bs {
		out = append(out, v.block(b))
	}
	return out
}

func (v *visitor) listItems(items []rd.ListItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, Tag("listitem", nil, v.blocks(item.Blocks)...))
	}
	return out
}

func (v *visitor) inlines(in []rd.Inline) string {
	var b strings.Builder
	for _, i := range in {
		b.WriteString(v.inline(i))
	}
	return b.String()
}

func (v *visitor) inline(i rd.Inline) string {
	switch i := i.(type) {
	case rd.Text:
		return v.text(string(i))
	case rd.Emphasis:
		return Tag("emphasis", nil, v.inlines(i.Children))
	case rd.Code:
		return Tag("literal", nil, v.inlines(i.Children))
	case rd.Var:
		return Tag("replaceable", nil, v.inlines(i.Children))
	case rd.Keyboard:
		return Tag("userinput", nil, v.inlines(i.Children))
	case rd.Footnote:
		v.footnoteID++
		return Tag("footnote", []Attr{{Name: "id", Value: strconv.Itoa(v.footnoteID)}}, v.inlines(i.Children))
	case rd.Reference:
		return v.reference(i)
	default:
		return ""
	}
}

func (v *visitor) text(s string) string {
	if v.keepTags {
		return escapeKeepingTags(s)
	}
	return Escape(s)
}

func (v *visitor) reference(r rd.Reference) string {
	url := r.Target
	rawLabel := r.Label

	if r.URL {
		if loc := referenceURLPattern.FindStringIndex(url); loc != nil {
			url = path.Base(url[loc[1]:])
		}
		if rawLabel == "" {
			rawLabel = url
		}
		return Tag("ulink", []Attr{{Name: "url", Value: url}}, v.text(rawLabel))
	}

	if rawLabel == "" {
		rawLabel = url
	}
	switch {
	case strings.HasSuffix(url, ".html"):
		if name, ok := strings.CutSuffix(rawLabel, "()"); ok {
			url += "#" + strings.ReplaceAll(name, "_", "-")
		}
	case htmlAnchorPattern.MatchString(url):
	case strings.HasSuffix(url, ".png"):
		return Tag("inlinegraphic", []Attr{{Name: "fileref", Value: url}, {Name: "format", Value: "PNG"}})
	default:
		url = removeLangSuffix(strings.ToLower(url)) + ".html"
	}
	return Tag("ulink", []Attr{{Name: "url", Value: url}}, v.text(removeLangSuffix(rawLabel)))
}

func removeLangSuffix(s string) string {
	return langSuffixPattern.ReplaceAllString(s, "")
}

func nonEmpty(blocks []string) []string {
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b != "" {
			out = append(out, b)
		}
	}
	return out
}

func joinBlocks(blocks []string, sep string) string {
	return strings.Join(nonEmpty(blocks), sep)
}
