package rd

import (
	"errors"
	"reflect"
	"testing"
)

func TestParse_Headlines(t *testing.T) {
	doc, err := Parse("= cutter --- xUnit\n\n== NAME\n\n=== Sub\n\n==== Deep\n\n+ Five\n\n++ Six\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []Block{
		Headline{Level: 1, Title: []Inline{Text("cutter --- xUnit")}, Line: 1},
		Headline{Level: 2, Title: []Inline{Text("NAME")}, Line: 3},
		Headline{Level: 3, Title: []Inline{Text("Sub")}, Line: 5},
		Headline{Level: 4, Title: []Inline{Text("Deep")}, Line: 7},
		Headline{Level: 5, Title: []Inline{Text("Five")}, Line: 9},
		Headline{Level: 6, Title: []Inline{Text("Six")}, Line: 11},
	}
	if !reflect.DeepEqual(doc.Blocks, want) {
		t.Fatalf("Parse() blocks = %#v, want %#v", doc.Blocks, want)
	}
}

func TestParse_BeginEnd(t *testing.T) {
	doc, err := Parse("ignored\n=begin\n# comment\nkept\n=end\nalso ignored\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := []Block{TextBlock{Content: []Inline{Text("kept")}}}
	if !reflect.DeepEqual(doc.Blocks, want) {
		t.Fatalf("Parse() blocks = %#v, want %#v", doc.Blocks, want)
	}
}

func TestParse_TextAndVerbatim(t *testing.T) {
	src := "first line\nsecond line\n\n  int\n  main (void)\n\n    {}\n\nafter\n"
	doc, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []Block{
		TextBlock{Content: []Inline{Text("first line\nsecond line")}},
		Verbatim{Lines: []string{"int", "main (void)", "", "  {}"}},
		TextBlock{Content: []Inline{Text("after")}},
	}
	if !reflect.DeepEqual(doc.Blocks, want) {
		t.Fatalf("Parse() blocks = %#v, want %#v", doc.Blocks, want)
	}
}

func TestParse_Tabs(t *testing.T) {
	doc, err := Parse("\tcode\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	want := []Block{Verbatim{Lines: []string{"code"}}}
	if !reflect.DeepEqual(doc.Blocks, want) {
		t.Fatalf("Parse() blocks = %#v, want %#v", doc.Blocks, want)
	}
}

func TestParse_ItemList(t *testing.T) {
	src := "* one\n  continued\n* two\n\n    verbatim\n\n* three\n\nafter\n"
	doc, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []Block{
		ItemList{Items: []ListItem{
			{Blocks: []Block{TextBlock{Content: []Inline{Text("one\ncontinued")}}}},
			{Blocks: []Block{
				TextBlock{Content: []Inline{Text("two")}},
				Verbatim{Lines: []string{"verbatim"}},
			}},
			{Blocks: []Block{TextBlock{Content: []Inline{Text("three")}}}},
		}},
		TextBlock{Content: []Inline{Text("after")}},
	}
	if !reflect.DeepEqual(doc.Blocks, want) {
		t.Fatalf("Parse() blocks = %#v, want %#v", doc.Blocks, want)
	}
}

func TestParse_NestedList(t *testing.T) {
	doc, err := Parse("* outer\n  * inner\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []Block{
		ItemList{Items: []ListItem{
			{Blocks: []Block{
				TextBlock{Content: []Inline{Text("outer")}},
				ItemList{Items: []ListItem{
					{Blocks: []Block{TextBlock{Content: []Inline{Text("inner")}}}},
				}},
			}},
		}},
	}
	if !reflect.DeepEqual(doc.Blocks, want) {
		t.Fatalf("Parse() blocks = %#v, want %#v", doc.Blocks, want)
	}
}

func TestParse_EnumAndDescList(t *testing.T) {
	src := "(1) first\n(2) second\n\n: --verbose\n   Print more.\n: --help\n   Show help.\n"
	doc, err := Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []Block{
		EnumList{Items: []ListItem{
			{Blocks: []Block{TextBlock{Content: []Inline{Text("first")}}}},
			{Blocks: []Block{TextBlock{Content: []Inline{Text("second")}}}},
		}},
		DescList{Items: []DescItem{
			{Term: []Inline{Text("--verbose")}, Blocks: []Block{TextBlock{Content: []Inline{Text("Print more.")}}}},
			{Term: []Inline{Text("--help")}, Blocks: []Block{TextBlock{Content: []Inline{Text("Show help.")}}}},
		}},
	}
	if !reflect.DeepEqual(doc.Blocks, want) {
		t.Fatalf("Parse() blocks = %#v, want %#v", doc.Blocks, want)
	}
}

func TestParse_HeadlineOnlyAtTopLevel(t *testing.T) {
	doc, err := Parse("* item\n  == not a headline\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	list, ok := doc.Blocks[0].(ItemList)
	if !ok {
		t.Fatalf("expected ItemList, got %T", doc.Blocks[0])
	}
	want := []Block{TextBlock{Content: []Inline{Text("item\n== not a headline")}}}
	if !reflect.DeepEqual(list.Items[0].Blocks, want) {
		t.Fatalf("item blocks = %#v, want %#v", list.Items[0].Blocks, want)
	}
}

func TestParseInline(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []Inline
	}{
		{
			name: "plain",
			src:  "just text",
			want: []Inline{Text("just text")},
		},
		{
			name: "emphasis",
			src:  "a ((*b*)) c",
			want: []Inline{Text("a "), Emphasis{Children: []Inline{Text("b")}}, Text(" c")},
		},
		{
			name: "nested",
			src:  "((*x (({y})) z*))",
			want: []Inline{Emphasis{Children: []Inline{
				Text("x "), Code{Children: []Inline{Text("y")}}, Text(" z"),
			}}},
		},
		{
			name: "var keyboard footnote",
			src:  "((|n|))((%ls%))((-note-))",
			want: []Inline{
				Var{Children: []Inline{Text("n")}},
				Keyboard{Children: []Inline{Text("ls")}},
				Footnote{Children: []Inline{Text("note")}},
			},
		},
		{
			name: "label reference",
			src:  "see ((<cut_assert()|cutter-cut-assertions.html>))",
			want: []Inline{Text("see "), Reference{Label: "cut_assert()", Target: "cutter-cut-assertions.html"}},
		},
		{
			name: "url reference",
			src:  "((<URL:http://example.com/>))",
			want: []Inline{Reference{Target: "http://example.com/", URL: true}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseInline(tt.src, 1)
			if err != nil {
				t.Fatalf("parseInline() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("parseInline() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestParseInline_Errors(t *testing.T) {
	tests := []struct {
		name     string
		src      string
		wantLine int
	}{
		{"unterminated emphasis", "a ((*b", 3},
		{"unterminated reference", "x\n((<nowhere", 4},
		{"empty reference", "((<>))", 3},
		{"file label", `((<"file"/x>))`, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseInline(tt.src, 3)
			var parseErr ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("expected ParseError, got %T: %v", err, err)
			}
			if parseErr.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", parseErr.Line, tt.wantLine)
			}
		})
	}
}

func TestParse_ErrorLine(t *testing.T) {
	_, err := Parse("fine\n\nbroken ((*here\n")
	var parseErr ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %T: %v", err, err)
	}
	if parseErr.Line != 3 {
		t.Errorf("Line = %d, want 3", parseErr.Line)
	}
}

func TestPlainText(t *testing.T) {
	inlines := []Inline{
		Text("a "),
		Emphasis{Children: []Inline{Text("b")}},
		Footnote{Children: []Inline{Text("dropped")}},
		Reference{Target: "t.html"},
		Reference{Label: "L", Target: "x.html"},
	}
	if got := PlainText(inlines); got != "a bt.htmlL" {
		t.Fatalf("PlainText() = %q", got)
	}
}

func TestOutline(t *testing.T) {
	doc, err := Parse("= Top\n== A\n=== A1\n==== A1x\n== B\n=== B1\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	got := Outline(doc)
	wantPaths := []string{
		"Top",
		"Top > A",
		"Top > A > A1",
		"Top > A > A1 > A1x",
		"Top > B",
		"Top > B > B1",
	}
	if len(got) != len(wantPaths) {
		t.Fatalf("expected %d entries, got %d", len(wantPaths), len(got))
	}
	for i, want := range wantPaths {
		if got[i].Path != want {
			t.Errorf("entry %d path = %q, want %q", i, got[i].Path, want)
		}
	}
	if got[2].Level != 3 || got[2].Line != 3 {
		t.Errorf("entry 2 = %+v", got[2])
	}
}

func TestOutline_ClosesDeeperHeadlines(t *testing.T) {
	doc, err := Parse("== A\n==== deep\n=== mid\n== B\n")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	got := Outline(doc)
	wantPaths := []string{"A", "A > deep", "A > mid", "B"}
	if len(got) != len(wantPaths) {
		t.Fatalf("expected %d entries, got %d", len(wantPaths), len(got))
	}
	for i, want := range wantPaths {
		if got[i].Path != want {
			t.Errorf("entry %d path = %q, want %q", i, got[i].Path, want)
		}
	}
}
