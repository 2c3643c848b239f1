package model

// NodeKind classifies a node of the uniform syntax tree.
type NodeKind string

const (
	KindRoot           NodeKind = "root"
	KindBlock          NodeKind = "block"
	KindPrelude        NodeKind = "prelude"
	KindDeclaration    NodeKind = "declaration"
	KindProperty       NodeKind = "property"
	KindAtRule         NodeKind = "at-rule"
	KindFunction       NodeKind = "function"
	KindGroup          NodeKind = "group"
	KindInterpolation  NodeKind = "interpolation"
	KindCustomProperty NodeKind = "custom-property"
	KindString         NodeKind = "string"
	KindComment        NodeKind = "comment"
	KindToken          NodeKind = "token"
)

// Node is a span of the source with a syntactic role. Offsets are byte
// offsets into Tree.Source; End is exclusive.
type Node struct {
	Kind NodeKind
	// Name holds the lower-cased function or at-rule name.
	Name     string
	Start    int
	End      int
	Children []*Node
}

// Text returns the node's source text.
func (n *Node) Text(src []byte) string {
	if n == nil || n.Start < 0 || n.End > len(src) || n.Start > n.End {
		return ""
	}

	return string(src[n.Start:n.End])
}

// IsTrivia reports whether the node carries no meaning for rewrites.
func (n *Node) IsTrivia(src []byte) bool {
	if n.Kind == KindComment {
		return true
	}

	if n.Kind != KindToken {
		return false
	}

	for _, b := range src[n.Start:n.End] {
		if b != ' ' && b != '\t' && b != '\n' && b != '\r' && b != '\f' {
			return false
		}
	}

	return true
}

// Tree is the parsed form of one file. It is owned by a single rewrite pass.
type Tree struct {
	Path    Path
	Dialect Dialect
	Source  []byte
	Root    *Node
}

// Walk visits nodes depth-first in pre-order. Children are skipped when fn
// returns false.
func Walk(n *Node, fn func(*Node) bool) {
	if n == nil || !fn(n) {
		return
	}

	for _, child := range n.Children {
		Walk(child, fn)
	}
}
