// Package rewrites provides the rules that turn syntax trees into edits.
package rewrites

import (
	"bytes"
	"errors"
	"fmt"
	"sort"

	"github.com/mouse-blink/polaris-migrator/internal/adapter"
	m "github.com/mouse-blink/polaris-migrator/internal/model"
)

// ErrOverlappingEdits is returned when a rule edits the same bytes twice.
var ErrOverlappingEdits = errors.New("overlapping edits")

// Rule decides, node by node, what to replace. Visit returns false to skip
// the node's children.
type Rule interface {
	Visit(n *m.Node, c *Cursor) bool
}

// Option configures a rewrite pass.
type Option func(*Cursor)

// WithLineFilter drops edits and skips starting on lines for which ignored
// returns true.
func WithLineFilter(ignored func(line int) bool) Option {
	return func(c *Cursor) {
		c.ignored = ignored
	}
}

// Rewrite walks tree with rule and applies the collected edits to the
// original source in one pass.
func Rewrite(tree *m.Tree, subject string, rule Rule, opts ...Option) (m.Outcome, error) {
	c := newCursor(tree, subject)
	for _, opt := range opts {
		opt(c)
	}

	c.walk(tree.Root, rule)

	output, err := Apply(tree.Source, c.edits)
	if err != nil {
		return m.Outcome{}, fmt.Errorf("%s: %w", tree.Path, err)
	}

	return m.Outcome{
		Output:  output,
		Changed: !bytes.Equal(output, tree.Source),
		Edits:   c.edits,
		Skips:   c.skips,
	}, nil
}

// Apply replaces every edit span of src. Without edits src is returned as is.
func Apply(src []byte, edits []m.Edit) ([]byte, error) {
	if len(edits) == 0 {
		return src, nil
	}

	sorted := append([]m.Edit(nil), edits...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	size := len(src)
	prev := 0

	for _, e := range sorted {
		if e.Start < prev || e.End < e.Start || e.End > len(src) {
			return nil, fmt.Errorf("%w: [%d,%d)", ErrOverlappingEdits, e.Start, e.End)
		}

		prev = e.End
		size += len(e.Text) - (e.End - e.Start)
	}

	out := make([]byte, 0, size)
	last := 0

	for _, e := range sorted {
		out = append(out, src[last:e.Start]...)
		out = append(out, e.Text...)
		last = e.End
	}

	return append(out, src[last:]...), nil
}

// Cursor carries the state of one rewrite pass. Rules use it to inspect
// the source and to record edits and skips.
type Cursor struct {
	tree      *m.Tree
	subject   string
	ancestors []*m.Node
	edits     []m.Edit
	skips     []m.Skip
	ignored   func(line int) bool
	// interpolation boundaries, by offset
	boundaries map[int]struct{}
}

func newCursor(tree *m.Tree, subject string) *Cursor {
	c := &Cursor{tree: tree, subject: subject, boundaries: make(map[int]struct{})}

	m.Walk(tree.Root, func(n *m.Node) bool {
		if n.Kind == m.KindInterpolation {
			c.boundaries[n.Start] = struct{}{}
			c.boundaries[n.End] = struct{}{}
		}

		return true
	})

	return c
}

func (c *Cursor) walk(n *m.Node, rule Rule) {
	if n == nil || !rule.Visit(n, c) {
		return
	}

	c.ancestors = append(c.ancestors, n)
	for _, child := range n.Children {
		c.walk(child, rule)
	}
	c.ancestors = c.ancestors[:len(c.ancestors)-1]
}

// Subject is the selector subject of the file being rewritten.
func (c *Cursor) Subject() string {
	return c.subject
}

// Text returns the source text of n.
func (c *Cursor) Text(n *m.Node) string {
	return n.Text(c.tree.Source)
}

// Parent returns the closest ancestor of the visited node, or nil at the root.
func (c *Cursor) Parent() *m.Node {
	if len(c.ancestors) == 0 {
		return nil
	}

	return c.ancestors[len(c.ancestors)-1]
}

// Within reports whether an ancestor of the visited node has the given kind.
func (c *Cursor) Within(kind m.NodeKind) bool {
	for _, a := range c.ancestors {
		if a.Kind == kind {
			return true
		}
	}

	return false
}

// Touches reports whether n starts or ends exactly where an interpolation
// ends or starts, so its full text is only known at runtime.
func (c *Cursor) Touches(n *m.Node) bool {
	_, before := c.boundaries[n.Start]
	_, after := c.boundaries[n.End]

	return before || after
}

// Replace records an edit replacing n as a whole.
func (c *Cursor) Replace(n *m.Node, text string) {
	c.ReplaceSpan(n.Start, n.End, text)
}

// ReplaceSpan records an edit replacing Source[start:end]. Edits that would
// not change the source are dropped.
func (c *Cursor) ReplaceSpan(start, end int, text string) {
	if string(c.tree.Source[start:end]) == text || c.isIgnored(start) {
		return
	}

	c.edits = append(c.edits, m.Edit{Start: start, End: end, Text: text})
}

// Skip reports n as a match that was left untouched.
func (c *Cursor) Skip(n *m.Node, reason string) {
	if c.isIgnored(n.Start) {
		return
	}

	line, col := adapter.LineColumn(c.tree.Source, n.Start)
	c.skips = append(c.skips, m.Skip{Line: line, Column: col, Text: c.Text(n), Reason: reason})
}

func (c *Cursor) isIgnored(offset int) bool {
	if c.ignored == nil {
		return false
	}

	line, _ := adapter.LineColumn(c.tree.Source, offset)

	return c.ignored(line)
}
