package adapter

import (
	"bytes"
	"errors"
	"fmt"

	m "github.com/mouse-blink/polaris-migrator/internal/model"
)

// ErrParse marks source files that could not be turned into a tree.
var ErrParse = errors.New("parse error")

// SyntaxAdapter turns source bytes into the uniform tree the rewrite rules
// walk. Printing is the caller's concern: rules emit edits against the
// original bytes, so adapters never need to serialize a tree.
type SyntaxAdapter interface {
	Parse(path m.Path, src []byte) (*m.Tree, error)
}

// LocalSyntaxAdapter dispatches on the file extension to the stylesheet or
// script adapter.
type LocalSyntaxAdapter struct {
	stylesheet *StylesheetAdapter
	script     *ScriptAdapter
}

// NewLocalSyntaxAdapter constructs a LocalSyntaxAdapter.
func NewLocalSyntaxAdapter() *LocalSyntaxAdapter {
	stylesheet := NewStylesheetAdapter()

	return &LocalSyntaxAdapter{
		stylesheet: stylesheet,
		script:     NewScriptAdapter(stylesheet),
	}
}

// Parse builds a tree for path/src.
func (a *LocalSyntaxAdapter) Parse(path m.Path, src []byte) (*m.Tree, error) {
	switch m.DialectOf(path) {
	case m.DialectStylesheet:
		return a.stylesheet.Parse(path, src)
	case m.DialectScript:
		return a.script.Parse(path, src)
	default:
		return nil, fmt.Errorf("%w: %s: unsupported file type %q", ErrParse, path, path.Ext())
	}
}

func parseError(path m.Path, src []byte, err error) error {
	var pe *posError
	if errors.As(err, &pe) {
		line, col := LineColumn(src, pe.offset)
		return fmt.Errorf("%w: %s:%d:%d: %s", ErrParse, path, line, col, pe.msg)
	}

	return fmt.Errorf("%w: %s: %w", ErrParse, path, err)
}

// LineColumn converts a byte offset into a 1-based line and column.
func LineColumn(src []byte, offset int) (int, int) {
	if offset > len(src) {
		offset = len(src)
	}

	if offset < 0 {
		offset = 0
	}

	before := src[:offset]
	line := bytes.Count(before, []byte{'\n'}) + 1
	col := offset - bytes.LastIndexByte(before, '\n')

	return line, col
}
