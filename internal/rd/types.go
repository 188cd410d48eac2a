// Package rd parses the subset of RD markup used in reference manual
// sources and DocBook snippets.
package rd

import "fmt"

// Document is a parsed RD source.
type Document struct {
	Blocks []Block
}

// Block is a block level element.
type Block interface {
	block()
}

// Headline is a "=" to "====" or "+"/"++" heading. Level runs from 1 to 6.
type Headline struct {
	Level int
	Title []Inline
	Line  int
}

// TextBlock is a paragraph.
type TextBlock struct {
	Content []Inline
}

// Verbatim is an indented literal block with the common indent removed.
type Verbatim struct {
	Lines []string
}

// ItemList is a "*" bullet list.
type ItemList struct {
	Items []ListItem
}

// EnumList is a "(1)" numbered list.
type EnumList struct {
	Items []ListItem
}

// DescList is a ":" description list.
type DescList struct {
	Items []DescItem
}

// ListItem holds the blocks of one bullet or numbered item.
type ListItem struct {
	Blocks []Block
}

// DescItem is one term and its description.
type DescItem struct {
	Term   []Inline
	Blocks []Block
}

func (Headline) block()  {}
func (TextBlock) block() {}
func (Verbatim) block()  {}
func (ItemList) block()  {}
func (EnumList) block()  {}
func (DescList) block()  {}

// Inline is an inline element.
type Inline interface {
	inline()
}

// Text is plain text.
type Text string

// Emphasis is ((*...*)).
type Emphasis struct{ Children []Inline }

// Code is (({...})).
type Code struct{ Children []Inline }

// Var is ((|...|)).
type Var struct{ Children []Inline }

// Keyboard is ((%...%)).
type Keyboard struct{ Children []Inline }

// Footnote is ((-...-)).
type Footnote struct{ Children []Inline }

// Reference is ((<label|target>)). URL is set when the target was written
// as "URL:...".
type Reference struct {
	Label  string
	Target string
	URL    bool
}

func (Text) inline()      {}
func (Emphasis) inline()  {}
func (Code) inline()      {}
func (Var) inline()       {}
func (Keyboard) inline()  {}
func (Footnote) inline()  {}
func (Reference) inline() {}

// ParseError reports malformed markup.
type ParseError struct {
	Line    int
	Message string
}

func (e ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}
