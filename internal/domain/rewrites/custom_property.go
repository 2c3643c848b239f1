package rewrites

import (
	"strings"

	m "github.com/mouse-blink/polaris-migrator/internal/model"
	"github.com/mouse-blink/polaris-migrator/internal/replacement"
)

// Skip reasons reported by CustomPropertyRule.
const (
	ReasonAmbiguous       = "adjacent to an interpolation"
	ReasonLiteralName     = "literal replacement for a declaration name"
	ReasonLiteralValue    = "literal replacement outside var()"
	ReasonLiteralInterpol = "literal replacement inside an interpolation"
)

// CustomPropertyRule renames custom properties according to a replacement
// map. Identifier replacements apply everywhere. Replacements that are not
// custom properties themselves (literals) only apply to a var() reference,
// which is replaced as a whole, and are reported as skips elsewhere.
type CustomPropertyRule struct {
	Map *replacement.Map
}

// NewCustomPropertyRule constructs a CustomPropertyRule for rm.
func NewCustomPropertyRule(rm *replacement.Map) *CustomPropertyRule {
	return &CustomPropertyRule{Map: rm}
}

// Visit implements Rule.
func (r *CustomPropertyRule) Visit(n *m.Node, c *Cursor) bool {
	switch n.Kind {
	case m.KindFunction:
		if n.Name == "var" {
			return r.visitVar(n, c)
		}
	case m.KindCustomProperty:
		r.visitProperty(n, c)
		return false
	}

	return true
}

func (r *CustomPropertyRule) visitVar(n *m.Node, c *Cursor) bool {
	ref := varReference(n, c)
	if ref == nil {
		return true
	}

	value, ok := r.Map.Resolve(c.Subject(), c.Text(ref))
	if !ok || IsIdentifier(value) {
		return true
	}

	if c.Touches(ref) {
		c.Skip(ref, ReasonAmbiguous)
		return false
	}

	c.Replace(n, value)

	return false
}

func (r *CustomPropertyRule) visitProperty(n *m.Node, c *Cursor) {
	value, ok := r.Map.Resolve(c.Subject(), c.Text(n))
	if !ok {
		return
	}

	if c.Touches(n) {
		c.Skip(n, ReasonAmbiguous)
		return
	}

	if IsIdentifier(value) {
		c.Replace(n, value)
		return
	}

	switch {
	case c.Within(m.KindInterpolation):
		c.Skip(n, ReasonLiteralInterpol)
	case c.Parent() != nil && c.Parent().Kind == m.KindProperty:
		c.Skip(n, ReasonLiteralName)
	default:
		c.Skip(n, ReasonLiteralValue)
	}
}

// varReference returns the custom property a var() call refers to: the
// first meaningful node after the opening token.
func varReference(n *m.Node, c *Cursor) *m.Node {
	if len(n.Children) < 2 {
		return nil
	}

	for _, child := range n.Children[1:] {
		if child.IsTrivia(c.tree.Source) {
			continue
		}

		if child.Kind == m.KindCustomProperty {
			return child
		}

		return nil
	}

	return nil
}

// IsIdentifier reports whether a replacement value is a custom property
// name rather than a literal.
func IsIdentifier(value string) bool {
	return strings.HasPrefix(value, "--")
}
