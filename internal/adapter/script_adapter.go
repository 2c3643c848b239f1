package adapter

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	m "github.com/mouse-blink/polaris-migrator/internal/model"
)

// ScriptAdapter parses TypeScript, TSX and JavaScript with tree-sitter and
// keeps only what style migrations care about: comments, and string literals
// whose contents are re-parsed as stylesheet fragments. Template
// substitutions become interpolation nodes.
type ScriptAdapter struct {
	fragments *StylesheetAdapter
}

// NewScriptAdapter constructs a ScriptAdapter that parses string contents
// with the given stylesheet adapter.
func NewScriptAdapter(fragments *StylesheetAdapter) *ScriptAdapter {
	return &ScriptAdapter{fragments: fragments}
}

func languageFor(path m.Path) *sitter.Language {
	switch path.Ext() {
	case ".ts":
		return typescript.GetLanguage()
	case ".tsx":
		return tsx.GetLanguage()
	default:
		return javascript.GetLanguage()
	}
}

// Parse builds a tree for path/src. Any syntax error reported by tree-sitter
// fails the parse with the position of the first error.
func (a *ScriptAdapter) Parse(path m.Path, src []byte) (*m.Tree, error) {
	// A parser per call keeps the adapter safe for concurrent use.
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(languageFor(path))

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, path, err)
	}

	defer tree.Close()

	root := tree.RootNode()
	if root == nil {
		return nil, fmt.Errorf("%w: %s: empty syntax tree", ErrParse, path)
	}

	if root.HasError() {
		if bad := firstError(root); bad != nil {
			return nil, parseError(path, src, &posError{offset: int(bad.StartByte()), msg: "syntax error"})
		}
	}

	out := &m.Node{Kind: m.KindRoot, Start: 0, End: len(src)}
	out.Children = a.collect(root, src)

	return &m.Tree{Path: path, Dialect: m.DialectScript, Source: src, Root: out}, nil
}

func firstError(n *sitter.Node) *sitter.Node {
	if n.IsMissing() || n.Type() == "ERROR" {
		return n
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || !child.HasError() && !child.IsMissing() {
			continue
		}

		if bad := firstError(child); bad != nil {
			return bad
		}
	}

	return nil
}

// collect gathers the style-relevant nodes below n in source order.
func (a *ScriptAdapter) collect(n *sitter.Node, src []byte) []*m.Node {
	var out []*m.Node

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}

		switch child.Type() {
		case "comment":
			out = append(out, &m.Node{Kind: m.KindComment, Start: int(child.StartByte()), End: int(child.EndByte())})
		case "string":
			out = append(out, a.stringNode(child, src))
		case "template_string":
			out = append(out, a.templateNode(child, src))
		default:
			out = append(out, a.collect(child, src)...)
		}
	}

	return out
}

func (a *ScriptAdapter) stringNode(n *sitter.Node, src []byte) *m.Node {
	start, end := int(n.StartByte()), int(n.EndByte())
	node := &m.Node{Kind: m.KindString, Start: start, End: end}

	if end-start >= 2 {
		node.Children = a.fragment(src, start+1, end-1)
	}

	return node
}

func (a *ScriptAdapter) templateNode(n *sitter.Node, src []byte) *m.Node {
	start, end := int(n.StartByte()), int(n.EndByte())
	node := &m.Node{Kind: m.KindString, Start: start, End: end}

	if end-start < 2 {
		return node
	}

	cursor := start + 1

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil || child.Type() != "template_substitution" {
			continue
		}

		subStart, subEnd := int(child.StartByte()), int(child.EndByte())
		node.Children = append(node.Children, a.fragment(src, cursor, subStart)...)
		node.Children = append(node.Children, &m.Node{
			Kind:     m.KindInterpolation,
			Start:    subStart,
			End:      subEnd,
			Children: a.collect(child, src),
		})
		cursor = subEnd
	}

	node.Children = append(node.Children, a.fragment(src, cursor, end-1)...)

	return node
}

func (a *ScriptAdapter) fragment(src []byte, start, end int) []*m.Node {
	if end <= start {
		return nil
	}

	return a.fragments.ParseFragment(src[start:end], start).Children
}
