package domain

import (
	"strings"
	"unicode"

	"github.com/mouse-blink/polaris-migrator/internal/adapter"
	m "github.com/mouse-blink/polaris-migrator/internal/model"
)

const ignoreDirective = "migrator:ignore"

type ignoreRule struct {
	all   bool
	names map[string]struct{}
}

func (r ignoreRule) ignores(migration string) bool {
	if r.all {
		return true
	}

	if len(r.names) == 0 {
		return false
	}

	_, ok := r.names[strings.ToLower(migration)]

	return ok
}

func mergeIgnoreRule(dst *ignoreRule, src ignoreRule) {
	if src.all {
		dst.all = true
		dst.names = nil

		return
	}

	if dst.all || len(src.names) == 0 {
		return
	}

	if dst.names == nil {
		dst.names = make(map[string]struct{}, len(src.names))
	}

	for name := range src.names {
		dst.names[name] = struct{}{}
	}
}

func parseIgnoreDirective(commentText string) (ignoreRule, bool) {
	s := strings.TrimSpace(commentText)
	if strings.HasPrefix(s, "//") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "//"))
	} else if strings.HasPrefix(s, "/*") {
		s = strings.TrimSpace(strings.TrimPrefix(s, "/*"))
		s = strings.TrimSpace(strings.TrimSuffix(s, "*/"))
	}

	if !strings.HasPrefix(s, ignoreDirective) {
		return ignoreRule{}, false
	}

	rest := strings.TrimSpace(strings.TrimPrefix(s, ignoreDirective))
	if rest == "" {
		return ignoreRule{all: true}, true
	}

	parts := strings.Split(rest, ",")
	rule := ignoreRule{names: make(map[string]struct{}, len(parts))}

	for _, part := range parts {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}

		rule.names[name] = struct{}{}
	}

	if len(rule.names) == 0 {
		rule.all = true
		rule.names = nil
	}

	return rule, true
}

type ignoreIndex struct {
	file ignoreRule
	line map[int]ignoreRule
}

// lineFilter returns the predicate rewrites use to drop edits on ignored
// lines, or nil when no line is ignored for migration.
func (idx ignoreIndex) lineFilter(migration string) func(line int) bool {
	if len(idx.line) == 0 {
		return nil
	}

	return func(line int) bool {
		rule, ok := idx.line[line]
		return ok && rule.ignores(migration)
	}
}

// buildIgnoreIndex collects directives from comment nodes. Comments that
// precede any other content apply to the whole file; other comments apply
// to their own line when they trail code, or to the next line when they
// stand alone.
func buildIgnoreIndex(tree *m.Tree) ignoreIndex {
	content := tree.Source
	lineStarts := computeLineStarts(content)
	idx := ignoreIndex{line: make(map[int]ignoreRule)}

	var comments []*m.Node

	m.Walk(tree.Root, func(n *m.Node) bool {
		if n.Kind == m.KindComment {
			comments = append(comments, n)
			return false
		}

		return true
	})

	header := true
	prevEnd := 0

	for _, c := range comments {
		if header && !isBlank(content[prevEnd:c.Start]) {
			header = false
		}

		prevEnd = c.End

		r, ok := parseIgnoreDirective(c.Text(content))
		if !ok {
			continue
		}

		if header {
			mergeIgnoreRule(&idx.file, r)
			continue
		}

		startLine, _ := adapter.LineColumn(content, c.Start)
		endLine, _ := adapter.LineColumn(content, c.End)

		targetLine := startLine
		if isLeadingComment(startLine, c.Start, lineStarts, content) {
			targetLine = endLine + 1
		}

		current := idx.line[targetLine]
		mergeIgnoreRule(&current, r)
		idx.line[targetLine] = current
	}

	return idx
}

func isBlank(b []byte) bool {
	for _, r := range string(b) {
		if !unicode.IsSpace(r) {
			return false
		}
	}

	return true
}

func computeLineStarts(content []byte) []int {
	starts := []int{0}

	for i, b := range content {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}

	return starts
}

func isLeadingComment(line int, slashOffset int, lineStarts []int, content []byte) bool {
	if line <= 0 || line > len(lineStarts) {
		return false
	}

	start := lineStarts[line-1]
	if slashOffset < start || slashOffset > len(content) {
		return false
	}

	for _, b := range content[start:slashOffset] {
		if !unicode.IsSpace(rune(b)) {
			return false
		}
	}

	return true
}
