package adapter

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	m "github.com/mouse-blink/polaris-migrator/internal/model"
)

// StylesheetAdapter builds uniform trees for CSS and SCSS sources from the
// tdewolff CSS lexer. The lexer is lossless, so every byte of the source is
// covered by exactly one leaf.
type StylesheetAdapter struct{}

// NewStylesheetAdapter constructs a StylesheetAdapter.
func NewStylesheetAdapter() *StylesheetAdapter {
	return &StylesheetAdapter{}
}

// Parse builds a tree for path/src. Unbalanced blocks, parentheses and
// interpolations are parse errors.
func (a *StylesheetAdapter) Parse(path m.Path, src []byte) (*m.Tree, error) {
	root, err := buildStylesheet(src, false)
	if err != nil {
		return nil, parseError(path, src, err)
	}

	return &m.Tree{Path: path, Dialect: m.DialectStylesheet, Source: src, Root: root}, nil
}

// ParseFragment builds a tree for style text embedded in another language.
// Fragment parsing never fails: unbalanced brackets are closed at the end of
// the fragment and stray closers are kept as plain tokens.
func (a *StylesheetAdapter) ParseFragment(src []byte, offset int) *m.Node {
	root, err := buildStylesheet(src, true)
	if err != nil || root == nil {
		return &m.Node{Kind: m.KindRoot, Start: offset, End: offset + len(src)}
	}

	shift(root, offset)

	return root
}

func shift(n *m.Node, offset int) {
	n.Start += offset
	n.End += offset

	for _, child := range n.Children {
		shift(child, offset)
	}
}

type token struct {
	tt    css.TokenType
	text  string
	start int
	end   int
}

// lexStylesheet tokenizes src. SCSS line comments are cut out before the
// CSS lexer runs, so their text can never open a block comment, string or
// url() that swallows the following lines.
func lexStylesheet(src []byte) ([]token, error) {
	var tokens []token

	pos := 0

	for _, c := range lineComments(src) {
		segment, err := lexSegment(src[pos:c.start], pos)
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, segment...)
		tokens = append(tokens, token{tt: css.CommentToken, text: string(src[c.start:c.end]), start: c.start, end: c.end})
		pos = c.end
	}

	rest, err := lexSegment(src[pos:], pos)
	if err != nil {
		return nil, err
	}

	return append(tokens, rest...), nil
}

func lexSegment(src []byte, base int) ([]token, error) {
	if len(src) == 0 {
		return nil, nil
	}

	// The lexer may append a NUL to its input buffer, so it gets a private copy.
	lexer := css.NewLexer(parse.NewInputBytes(bytes.Clone(src)))

	var tokens []token

	offset := base

	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			if err := lexer.Err(); err != nil && err != io.EOF {
				return nil, &posError{offset: offset, msg: err.Error()}
			}

			break
		}

		tokens = append(tokens, token{tt: tt, text: string(data), start: offset, end: offset + len(data)})
		offset += len(data)
	}

	if offset != base+len(src) {
		return nil, &posError{offset: offset, msg: "unexpected character"}
	}

	return tokens, nil
}

type span struct {
	start int
	end   int
}

// lineComments returns the // comments of src, each ending before its
// newline. Slashes inside strings, block comments and unquoted url()
// arguments are not comments.
func lineComments(src []byte) []span {
	var spans []span

	for i := 0; i < len(src); {
		c := src[i]

		switch {
		case c == '\\':
			i += 2
		case c == '"' || c == '\'':
			i = skipString(src, i)
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			end := bytes.Index(src[i+2:], []byte("*/"))
			if end < 0 {
				return spans
			}

			i += 2 + end + 2
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			end := len(src)
			if nl := bytes.IndexByte(src[i:], '\n'); nl >= 0 {
				end = i + nl
			}

			spans = append(spans, span{start: i, end: end})
			i = end
		case isURLStart(src, i):
			i = skipURL(src, i)
		default:
			i++
		}
	}

	return spans
}

// skipString returns the offset after the string opened at src[i]. An
// unterminated string ends at the newline, as in CSS.
func skipString(src []byte, i int) int {
	quote := src[i]

	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		case '\n':
			return j
		}
	}

	return len(src)
}

func isURLStart(src []byte, i int) bool {
	if i+4 > len(src) || !bytes.EqualFold(src[i:i+4], []byte("url(")) {
		return false
	}

	return i == 0 || !isNameByte(src[i-1])
}

func isNameByte(c byte) bool {
	return c == '-' || c == '_' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

// skipURL returns the offset after an unquoted url() argument starting at
// src[i]. Quoted arguments are left to the string scanner.
func skipURL(src []byte, i int) int {
	j := i + 4
	for j < len(src) && (src[j] == ' ' || src[j] == '\t') {
		j++
	}

	if j < len(src) && (src[j] == '"' || src[j] == '\'') {
		return j
	}

	for ; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case ')':
			return j + 1
		case '\n':
			return j
		}
	}

	return len(src)
}

type posError struct {
	offset int
	msg    string
}

func (e *posError) Error() string {
	return e.msg
}

type treeBuilder struct {
	src     []byte
	tokens  []token
	stack   []*m.Node
	lenient bool
}

func buildStylesheet(src []byte, lenient bool) (*m.Node, error) {
	tokens, err := lexStylesheet(src)
	if err != nil {
		return nil, err
	}

	root := &m.Node{Kind: m.KindRoot, Start: 0, End: len(src)}
	b := &treeBuilder{src: src, tokens: tokens, stack: []*m.Node{root}, lenient: lenient}

	for i := 0; i < len(tokens); i++ {
		next, err := b.consume(i)
		if err != nil {
			return nil, err
		}

		i = next
	}

	if err := b.finish(); err != nil {
		return nil, err
	}

	return root, nil
}

func (b *treeBuilder) top() *m.Node {
	return b.stack[len(b.stack)-1]
}

func (b *treeBuilder) push(n *m.Node) {
	b.top().Children = append(b.top().Children, n)
	b.stack = append(b.stack, n)
}

func (b *treeBuilder) pop(end int) *m.Node {
	n := b.top()
	n.End = end
	b.stack = b.stack[:len(b.stack)-1]

	return n
}

func (b *treeBuilder) leaf(kind m.NodeKind, tok token) {
	b.top().Children = append(b.top().Children, &m.Node{Kind: kind, Start: tok.start, End: tok.end})
}

func isStatement(kind m.NodeKind) bool {
	return kind == m.KindDeclaration || kind == m.KindAtRule || kind == m.KindPrelude
}

func (b *treeBuilder) atStatementStart() bool {
	kind := b.top().Kind

	return kind == m.KindRoot || kind == m.KindBlock
}

// consume handles tokens[i] and returns the index of the last token used.
//
//nolint:cyclop // one case per token class keeps the grammar readable
func (b *treeBuilder) consume(i int) (int, error) {
	tok := b.tokens[i]

	switch tok.tt {
	case css.WhitespaceToken:
		b.leaf(m.KindToken, tok)
		return i, nil
	case css.CommentToken:
		b.leaf(m.KindComment, tok)
		return i, nil
	case css.SemicolonToken:
		b.leaf(m.KindToken, tok)

		if isStatement(b.top().Kind) {
			b.pop(tok.end)
		}

		return i, nil
	case css.LeftBraceToken:
		b.openBrace(i)
		return i, nil
	case css.RightBraceToken:
		return i, b.closeBrace(tok)
	case css.RightParenthesisToken, css.RightBracketToken:
		return i, b.closeGroup(tok)
	}

	if b.atStatementStart() {
		b.openStatement(i)

		if b.consumedAsProperty(tok) {
			return i, nil
		}
	}

	switch tok.tt {
	case css.FunctionToken:
		fn := &m.Node{Kind: m.KindFunction, Name: strings.ToLower(strings.TrimSuffix(tok.text, "(")), Start: tok.start}
		b.push(fn)
		b.leaf(m.KindToken, tok)
	case css.LeftParenthesisToken, css.LeftBracketToken:
		b.push(&m.Node{Kind: m.KindGroup, Start: tok.start})
		b.leaf(m.KindToken, tok)
	case css.CustomPropertyNameToken:
		b.leaf(m.KindCustomProperty, tok)
	case css.IdentToken:
		if strings.HasPrefix(tok.text, "--") {
			b.leaf(m.KindCustomProperty, tok)
		} else {
			b.leaf(m.KindToken, tok)
		}
	case css.StringToken, css.BadStringToken:
		b.leaf(m.KindString, tok)
	default:
		b.leaf(m.KindToken, tok)
	}

	return i, nil
}

func (b *treeBuilder) openStatement(i int) {
	tok := b.tokens[i]

	switch {
	case tok.tt == css.AtKeywordToken:
		b.push(&m.Node{Kind: m.KindAtRule, Name: strings.ToLower(strings.TrimPrefix(tok.text, "@")), Start: tok.start})
	case (tok.tt == css.IdentToken || tok.tt == css.CustomPropertyNameToken) && b.colonFollows(i):
		decl := &m.Node{Kind: m.KindDeclaration, Start: tok.start}
		b.push(decl)
		// The property node only ever holds the name token.
		kind := m.KindToken
		if strings.HasPrefix(tok.text, "--") {
			kind = m.KindCustomProperty
		}

		decl.Children = append(decl.Children, &m.Node{
			Kind:     m.KindProperty,
			Start:    tok.start,
			End:      tok.end,
			Children: []*m.Node{{Kind: kind, Start: tok.start, End: tok.end}},
		})
	default:
		b.push(&m.Node{Kind: m.KindPrelude, Start: tok.start})
	}
}

func (b *treeBuilder) colonFollows(i int) bool {
	for j := i + 1; j < len(b.tokens); j++ {
		switch b.tokens[j].tt {
		case css.WhitespaceToken, css.CommentToken:
			continue
		case css.ColonToken:
			return true
		default:
			return false
		}
	}

	return false
}

// consumedAsProperty reports whether openStatement already stored tok as the
// name of a new declaration.
func (b *treeBuilder) consumedAsProperty(tok token) bool {
	top := b.top()
	if top.Kind != m.KindDeclaration || len(top.Children) != 1 {
		return false
	}

	return top.Children[0].Start == tok.start
}

func (b *treeBuilder) openBrace(i int) {
	tok := b.tokens[i]
	parent := b.top()

	if n := len(parent.Children); n > 0 && i > 0 {
		prev := b.tokens[i-1]
		last := parent.Children[n-1]

		if prev.tt == css.DelimToken && prev.text == "#" && prev.end == tok.start && last.Start == prev.start {
			parent.Children = parent.Children[:n-1]
			b.push(&m.Node{Kind: m.KindInterpolation, Start: prev.start})
			b.leaf(m.KindToken, prev)
			b.leaf(m.KindToken, tok)

			return
		}
	}

	if b.atStatementStart() {
		// A block without prelude, e.g. a stray "{" inside a block.
		b.push(&m.Node{Kind: m.KindPrelude, Start: tok.start})
	}

	if b.top().Kind == m.KindDeclaration {
		demote(b.top())
	}

	b.push(&m.Node{Kind: m.KindBlock, Start: tok.start})
	b.leaf(m.KindToken, tok)
}

// demote turns a declaration that turned out to be a selector, such as
// "a:hover {", into a prelude.
func demote(n *m.Node) {
	n.Kind = m.KindPrelude

	for _, child := range n.Children {
		if child.Kind == m.KindProperty {
			child.Kind = m.KindPrelude
		}
	}
}

func (b *treeBuilder) closeBrace(tok token) error {
	if isStatement(b.top().Kind) {
		b.pop(tok.start)
	}

	top := b.top()
	if top.Kind != m.KindBlock && top.Kind != m.KindInterpolation {
		if b.lenient {
			b.leaf(m.KindToken, tok)
			return nil
		}

		return &posError{offset: tok.start, msg: fmt.Sprintf("unexpected %q", tok.text)}
	}

	b.leaf(m.KindToken, tok)
	b.pop(tok.end)

	if top.Kind == m.KindBlock && isStatement(b.top().Kind) {
		b.pop(tok.end)
	}

	return nil
}

func (b *treeBuilder) closeGroup(tok token) error {
	top := b.top()
	if top.Kind != m.KindFunction && top.Kind != m.KindGroup {
		if b.lenient {
			b.leaf(m.KindToken, tok)
			return nil
		}

		return &posError{offset: tok.start, msg: fmt.Sprintf("unexpected %q", tok.text)}
	}

	b.leaf(m.KindToken, tok)
	b.pop(tok.end)

	return nil
}

func (b *treeBuilder) finish() error {
	end := len(b.src)

	for len(b.stack) > 1 {
		top := b.top()
		if !isStatement(top.Kind) && !b.lenient {
			return &posError{offset: top.Start, msg: fmt.Sprintf("unclosed %s", top.Kind)}
		}

		b.pop(end)
	}

	return nil
}
