package rewrites

import (
	"strings"

	m "github.com/mouse-blink/polaris-migrator/internal/model"
	"github.com/mouse-blink/polaris-migrator/internal/replacement"
)

// ReasonIncludeWithoutBlock is reported for matching mixin includes that
// have no content block to move under a media query.
const ReasonIncludeWithoutBlock = "include without a content block"

// BreakpointRule turns `@include [ns.]mixin(args) { ... }` into
// `@media <query> { ... }`. The replacement map is keyed by the mixin call
// with all whitespace removed, e.g. "breakpoint-after(768px)". When a
// namespace is set, only calls through that module namespace match.
type BreakpointRule struct {
	Map       *replacement.Map
	Namespace string
}

// NewBreakpointRule constructs a BreakpointRule.
func NewBreakpointRule(rm *replacement.Map, namespace string) *BreakpointRule {
	return &BreakpointRule{Map: rm, Namespace: namespace}
}

// Visit implements Rule.
func (r *BreakpointRule) Visit(n *m.Node, c *Cursor) bool {
	if n.Kind != m.KindAtRule || n.Name != "include" {
		return true
	}

	prefix, call, rest := splitInclude(n, c)
	if call == nil {
		return true
	}

	want := ""
	if r.Namespace != "" {
		want = r.Namespace + "."
	}

	if prefix != want {
		return true
	}

	value, ok := r.Map.Resolve(c.Subject(), compact(c.Text(call)))
	if !ok {
		return true
	}

	if !hasBlock(rest, c) {
		c.Skip(n, ReasonIncludeWithoutBlock)
		return true
	}

	c.ReplaceSpan(n.Start, call.End, "@media "+value)

	return true
}

// splitInclude separates an include into the module prefix before the mixin
// call, the call itself and the nodes after it.
func splitInclude(n *m.Node, c *Cursor) (string, *m.Node, []*m.Node) {
	var prefix strings.Builder

	// The first child is the @include keyword.
	for i := 1; i < len(n.Children); i++ {
		child := n.Children[i]

		switch {
		case child.IsTrivia(c.tree.Source):
			continue
		case child.Kind == m.KindFunction:
			return prefix.String(), child, n.Children[i+1:]
		case child.Kind == m.KindToken:
			prefix.WriteString(c.Text(child))
		default:
			return "", nil, nil
		}
	}

	return "", nil, nil
}

func hasBlock(rest []*m.Node, c *Cursor) bool {
	for _, child := range rest {
		if child.IsTrivia(c.tree.Source) {
			continue
		}

		return child.Kind == m.KindBlock
	}

	return false
}

func compact(s string) string {
	return strings.Join(strings.Fields(s), "")
}
