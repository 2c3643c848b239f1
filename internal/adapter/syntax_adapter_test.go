package adapter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/polaris-migrator/internal/model"
)

func collectKind(root *m.Node, kind m.NodeKind) []*m.Node {
	var out []*m.Node

	m.Walk(root, func(n *m.Node) bool {
		if n.Kind == kind {
			out = append(out, n)
		}

		return true
	})

	return out
}

func leafText(root *m.Node, src []byte) string {
	var b strings.Builder

	m.Walk(root, func(n *m.Node) bool {
		if len(n.Children) == 0 {
			b.WriteString(n.Text(src))
		}

		return true
	})

	return b.String()
}

func TestStylesheetAdapter_Parse(t *testing.T) {
	t.Parallel()

	t.Run("leaves cover the whole source", func(t *testing.T) {
		t.Parallel()

		sources := []string{
			"a { color: var(--p-duration-100, 10ms); }\n",
			":root {\n  --p-border-radius-base: 4px;\n}\n",
			"// note {\n@include breakpoint-after(768px) {\n  .x { margin: 0 }\n}\n",
			"@media #{$p-breakpoints-md-up} { a { b: c } }",
			"/* c */ a:hover, b[data-x=\"1\"] { transition: opacity calc(var(--p-duration-0) * 2) ease }",
			"",
		}

		a := NewStylesheetAdapter()
		for _, src := range sources {
			tree, err := a.Parse("style.scss", []byte(src))
			require.NoError(t, err, src)
			assert.Equal(t, src, leafText(tree.Root, tree.Source))
			assert.Equal(t, m.DialectStylesheet, tree.Dialect)
		}
	})

	t.Run("var call holds its custom property", func(t *testing.T) {
		t.Parallel()

		src := []byte("a { transition-duration: var(--p-duration-1-0-0); }")
		tree, err := NewStylesheetAdapter().Parse("a.css", src)
		require.NoError(t, err)

		fns := collectKind(tree.Root, m.KindFunction)
		require.Len(t, fns, 1)
		assert.Equal(t, "var", fns[0].Name)
		assert.Equal(t, "var(--p-duration-1-0-0)", fns[0].Text(src))

		props := collectKind(fns[0], m.KindCustomProperty)
		require.Len(t, props, 1)
		assert.Equal(t, "--p-duration-1-0-0", props[0].Text(src))

		decls := collectKind(tree.Root, m.KindDeclaration)
		require.Len(t, decls, 1)
		assert.Equal(t, "transition-duration: var(--p-duration-1-0-0);", decls[0].Text(src))
	})

	t.Run("custom property declaration name", func(t *testing.T) {
		t.Parallel()

		src := []byte(":root { --p-border-radius-base: 4px }")
		tree, err := NewStylesheetAdapter().Parse("a.css", src)
		require.NoError(t, err)

		decls := collectKind(tree.Root, m.KindDeclaration)
		require.Len(t, decls, 1)

		property := decls[0].Children[0]
		require.Equal(t, m.KindProperty, property.Kind)
		require.Len(t, property.Children, 1)
		assert.Equal(t, m.KindCustomProperty, property.Children[0].Kind)
		assert.Equal(t, "--p-border-radius-base", property.Children[0].Text(src))
	})

	t.Run("selector with pseudo class is a prelude", func(t *testing.T) {
		t.Parallel()

		src := []byte("a:hover { color: red }")
		tree, err := NewStylesheetAdapter().Parse("a.css", src)
		require.NoError(t, err)

		require.Len(t, tree.Root.Children, 1)
		rule := tree.Root.Children[0]
		assert.Equal(t, m.KindPrelude, rule.Kind)
		assert.Equal(t, m.KindPrelude, rule.Children[0].Kind)

		blocks := collectKind(rule, m.KindBlock)
		require.Len(t, blocks, 1)
		assert.Equal(t, "{ color: red }", blocks[0].Text(src))
		assert.Len(t, collectKind(blocks[0], m.KindDeclaration), 1)
	})

	t.Run("include at-rule with namespaced mixin", func(t *testing.T) {
		t.Parallel()

		src := []byte("@include legacy.breakpoint-after(768px) {\n  a { b: c; }\n}")
		tree, err := NewStylesheetAdapter().Parse("a.scss", src)
		require.NoError(t, err)

		rules := collectKind(tree.Root, m.KindAtRule)
		require.Len(t, rules, 1)
		assert.Equal(t, "include", rules[0].Name)
		assert.Equal(t, string(src), rules[0].Text(src))

		var fn, block *m.Node
		for _, child := range rules[0].Children {
			switch child.Kind {
			case m.KindFunction:
				fn = child
			case m.KindBlock:
				block = child
			}
		}

		require.NotNil(t, fn)
		require.NotNil(t, block)
		assert.Equal(t, "breakpoint-after", fn.Name)
		assert.Equal(t, "breakpoint-after(768px)", fn.Text(src))
	})

	t.Run("scss interpolation", func(t *testing.T) {
		t.Parallel()

		src := []byte("a { margin: #{$gap}; --p-#{$name}: 1px; }")
		tree, err := NewStylesheetAdapter().Parse("a.scss", src)
		require.NoError(t, err)

		interps := collectKind(tree.Root, m.KindInterpolation)
		require.Len(t, interps, 2)
		assert.Equal(t, "#{$gap}", interps[0].Text(src))
		assert.Equal(t, "#{$name}", interps[1].Text(src))
	})

	t.Run("line comments may hold braces", func(t *testing.T) {
		t.Parallel()

		src := []byte("// legacy { breakpoints\na { b: c }")
		tree, err := NewStylesheetAdapter().Parse("a.scss", src)
		require.NoError(t, err)

		comments := collectKind(tree.Root, m.KindComment)
		require.Len(t, comments, 1)
		assert.Equal(t, "// legacy { breakpoints", comments[0].Text(src))
	})

	t.Run("line comments hide block comment openers and urls", func(t *testing.T) {
		t.Parallel()

		sources := map[string]string{
			"// old: /* legacy\n.a { transition: var(--p-duration-1-0-0); }\n": "// old: /* legacy",
			"// see url(foo\n.a { transition: var(--p-duration-1-0-0); }\n":   "// see url(foo",
			"// it's \"quoted\n.a { transition: var(--p-duration-1-0-0); }\n":  "// it's \"quoted",
		}

		for src, comment := range sources {
			tree, err := NewStylesheetAdapter().Parse("a.scss", []byte(src))
			require.NoError(t, err, src)
			assert.Equal(t, src, leafText(tree.Root, tree.Source))

			comments := collectKind(tree.Root, m.KindComment)
			require.Len(t, comments, 1, src)
			assert.Equal(t, comment, comments[0].Text(tree.Source))

			props := collectKind(tree.Root, m.KindCustomProperty)
			require.Len(t, props, 1, src)
			assert.Equal(t, "--p-duration-1-0-0", props[0].Text(tree.Source))
		}
	})

	t.Run("slashes in strings, urls and block comments are not line comments", func(t *testing.T) {
		t.Parallel()

		src := []byte("@import \"//cdn.example.com/a.css\";\n" +
			"a { background: url(//cdn.example.com/a.png); b: URL( 'x//y' ) }\n" +
			"/* see // here */ c { d: var(--p-duration-0) }\n")

		tree, err := NewStylesheetAdapter().Parse("a.scss", src)
		require.NoError(t, err)
		assert.Equal(t, string(src), leafText(tree.Root, tree.Source))

		comments := collectKind(tree.Root, m.KindComment)
		require.Len(t, comments, 1)
		assert.Equal(t, "/* see // here */", comments[0].Text(src))
		assert.Len(t, collectKind(tree.Root, m.KindCustomProperty), 1)
	})

	t.Run("unbalanced input reports position", func(t *testing.T) {
		t.Parallel()

		cases := map[string]string{
			"a {\n  color: red;\n":  "a.css:1:3",
			"a { color: red; }\n}": "a.css:2:1",
			"a { b: var(--x; }":    "a.css:1:17",
		}

		for src, want := range cases {
			_, err := NewStylesheetAdapter().Parse("a.css", []byte(src))
			require.ErrorIs(t, err, ErrParse, src)
			assert.Contains(t, err.Error(), want, src)
		}
	})
}

func TestStylesheetAdapter_ParseFragment(t *testing.T) {
	t.Parallel()

	src := []byte(`const x = "var(--p-duration-0";`)
	start := strings.Index(string(src), "var")
	end := strings.LastIndex(string(src), `"`)

	root := NewStylesheetAdapter().ParseFragment(src[start:end], start)
	require.NotNil(t, root)

	props := collectKind(root, m.KindCustomProperty)
	require.Len(t, props, 1)
	assert.Equal(t, "--p-duration-0", props[0].Text(src))

	stray := NewStylesheetAdapter().ParseFragment([]byte("a) }"), 10)
	assert.Equal(t, 10, stray.Start)
	assert.Equal(t, 14, stray.End)
}

func TestScriptAdapter_Parse(t *testing.T) {
	t.Parallel()

	t.Run("string literals carry stylesheet nodes", func(t *testing.T) {
		t.Parallel()

		src := []byte("const styles = {\n  transition: 'opacity var(--p-duration-0) ease',\n};\n")
		tree, err := NewLocalSyntaxAdapter().Parse("styles.ts", src)
		require.NoError(t, err)
		assert.Equal(t, m.DialectScript, tree.Dialect)

		strs := collectKind(tree.Root, m.KindString)
		require.Len(t, strs, 1)
		assert.Equal(t, "'opacity var(--p-duration-0) ease'", strs[0].Text(src))

		fns := collectKind(strs[0], m.KindFunction)
		require.Len(t, fns, 1)
		assert.Equal(t, "var(--p-duration-0)", fns[0].Text(src))
	})

	t.Run("template substitutions become interpolations", func(t *testing.T) {
		t.Parallel()

		src := []byte("const v = `var(--p-border-radius-${size})`;\nconst w = `${'--p-border-radius-base'}`;\n")
		tree, err := NewLocalSyntaxAdapter().Parse("v.js", src)
		require.NoError(t, err)

		interps := collectKind(tree.Root, m.KindInterpolation)
		require.Len(t, interps, 2)
		assert.Equal(t, "${size}", interps[0].Text(src))

		props := collectKind(tree.Root, m.KindCustomProperty)
		require.Len(t, props, 2)
		assert.Equal(t, "--p-border-radius-", props[0].Text(src))
		assert.Equal(t, interps[0].Start, props[0].End)
		assert.Equal(t, "--p-border-radius-base", props[1].Text(src))
	})

	t.Run("tsx attributes and comments", func(t *testing.T) {
		t.Parallel()

		src := []byte("// migrator:ignore\nexport const A = () => <div style={{ borderRadius: 'var(--p-border-radius-large)' }} />;\n")
		tree, err := NewLocalSyntaxAdapter().Parse("a.tsx", src)
		require.NoError(t, err)

		comments := collectKind(tree.Root, m.KindComment)
		require.Len(t, comments, 1)
		assert.Equal(t, "// migrator:ignore", comments[0].Text(src))

		props := collectKind(tree.Root, m.KindCustomProperty)
		require.Len(t, props, 1)
		assert.Equal(t, "--p-border-radius-large", props[0].Text(src))
	})

	t.Run("syntax errors fail the parse", func(t *testing.T) {
		t.Parallel()

		_, err := NewLocalSyntaxAdapter().Parse("broken.ts", []byte("const = ;\n"))
		require.ErrorIs(t, err, ErrParse)
		assert.Contains(t, err.Error(), "broken.ts:1:")
	})
}

func TestLocalSyntaxAdapter_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	_, err := NewLocalSyntaxAdapter().Parse("README.md", []byte("# hi"))
	require.ErrorIs(t, err, ErrParse)
}

func TestLineColumn(t *testing.T) {
	t.Parallel()

	src := []byte("ab\ncd\n")

	cases := []struct {
		offset     int
		line, col int
	}{
		{0, 1, 1},
		{1, 1, 2},
		{3, 2, 1},
		{4, 2, 2},
		{100, 3, 1},
	}

	for _, c := range cases {
		line, col := LineColumn(src, c.offset)
		assert.Equal(t, c.line, line, "offset %d", c.offset)
		assert.Equal(t, c.col, col, "offset %d", c.offset)
	}
}
