// Package section rebuilds nested document sections from a flat stream of
// rendered content and heading markers.
package section

import (
	"fmt"
	"iter"
)

// Item is either Content or a Heading.
type Item interface {
	item()
}

// Content is an already rendered unit of output.
type Content string

// Heading opens a new section. Level is zero-based: a level-1 markup
// heading has Level 0.
type Heading struct {
	Level int
	Title string
	ID    string
}

func (Content) item() {}
func (Heading) item() {}

// Renderer turns closed frames into output blocks.
type Renderer interface {
	// Title renders the title block of a heading.
	Title(h Heading) string
	// Section wraps a closed section of the given level (always >= 1).
	// body holds the rendered title followed by the section children.
	Section(level int, id string, body []string) string
	// Join concatenates untagged blocks.
	Join(blocks []string) string
}

// Error types for builder failures
type (
	// ValidationError indicates malformed input
	ValidationError struct{ Message string }
	// InvariantError indicates the section stack reached an impossible state
	InvariantError struct{ Message string }
)

func (e ValidationError) Error() string { return e.Message }
func (e InvariantError) Error() string  { return "section stack: " + e.Message }

type frame struct {
	root     bool
	level    int
	id       string
	children []string
}

// Builder accumulates items for one document. A Builder must not be shared
// between renders.
type Builder struct {
	renderer Renderer
	stack    []*frame
	out      []string
	err      error
	done     bool
}

// NewBuilder returns a builder holding only the synthetic root frame.
func NewBuilder(r Renderer) *Builder {
	return &Builder{
		renderer: r,
		stack:    []*frame{{root: true}},
	}
}

// Add ingests the next item of the document.
func (b *Builder) Add(it Item) error {
	if b.err != nil {
		return b.err
	}
	if b.done {
		return fmt.Errorf("section builder already finished")
	}

	switch v := it.(type) {
	case Content:
		top := b.stack[len(b.stack)-1]
		top.children = append(top.children, string(v))
	case Heading:
		if v.Level < 0 {
			return b.fail(ValidationError{Message: fmt.Sprintf("invalid heading level %d for %q", v.Level, v.Title)})
		}
		for {
			top := b.stack[len(b.stack)-1]
			if top.root || top.level < v.Level {
				break
			}
			if err := b.closeTop(); err != nil {
				return b.fail(err)
			}
		}
		b.stack = append(b.stack, &frame{
			level:    v.Level,
			id:       v.ID,
			children: []string{b.renderer.Title(v)},
		})
	case nil:
		return b.fail(ValidationError{Message: "nil item"})
	default:
		return b.fail(ValidationError{Message: fmt.Sprintf("unsupported item type %T", it)})
	}
	return nil
}

// Finish runs the drain pass and returns the top-level blocks in document
// order.
func (b *Builder) Finish() ([]string, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.done {
		return nil, fmt.Errorf("section builder already finished")
	}
	b.done = true

	for len(b.stack) > 1 {
		if err := b.closeTop(); err != nil {
			b.err = err
			return nil, err
		}
	}
	if len(b.stack) != 1 || !b.stack[0].root {
		b.err = InvariantError{Message: "root frame missing after drain"}
		return nil, b.err
	}
	b.flushRoot()
	return b.out, nil
}

// closeTop pops the top frame and hands its rendering to the new top.
func (b *Builder) closeTop() error {
	n := len(b.stack)
	if n < 2 {
		return InvariantError{Message: "attempted to close the root frame"}
	}
	closed := b.stack[n-1]
	b.stack = b.stack[:n-1]
	parent := b.stack[n-2]

	if closed.root {
		return InvariantError{Message: "root frame found above the bottom of the stack"}
	}
	if !parent.root && parent.level >= closed.level {
		return InvariantError{Message: fmt.Sprintf("level %d frame nested under level %d", closed.level, parent.level)}
	}

	if closed.level == 0 {
		if !parent.root {
			return InvariantError{Message: "level 0 frame not directly under root"}
		}
		b.flushRoot()
		b.out = append(b.out, b.renderer.Join(closed.children))
		return nil
	}

	rendered := b.renderer.Section(closed.level, closed.id, closed.children)
	if parent.root {
		b.flushRoot()
		b.out = append(b.out, rendered)
		return nil
	}
	parent.children = append(parent.children, rendered)
	return nil
}

// flushRoot emits content collected directly under the root as one block.
func (b *Builder) flushRoot() {
	root := b.stack[0]
	if len(root.children) == 0 {
		return
	}
	b.out = append(b.out, b.renderer.Join(root.children))
	root.children = nil
}

func (b *Builder) fail(err error) error {
	b.err = err
	return err
}

// Build renders a complete item slice with a fresh builder.
func Build(r Renderer, items []Item) ([]string, error) {
	b := NewBuilder(r)
	for _, it := range items {
		if err := b.Add(it); err != nil {
			return nil, err
		}
	}
	return b.Finish()
}

// BuildSeq is Build over a lazily produced sequence.
func BuildSeq(r Renderer, items iter.Seq[Item]) ([]string, error) {
	b := NewBuilder(r)
	for it := range items {
		if err := b.Add(it); err != nil {
			return nil, err
		}
	}
	return b.Finish()
}
