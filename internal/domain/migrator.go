// Package domain contains the migration registry, the per-file migrator and
// the batch workflow.
package domain

import (
	"github.com/mouse-blink/polaris-migrator/internal/adapter"
	"github.com/mouse-blink/polaris-migrator/internal/domain/rewrites"
	m "github.com/mouse-blink/polaris-migrator/internal/model"
	"github.com/mouse-blink/polaris-migrator/internal/replacement"
)

// Migrator applies one prepared rule to one source.
type Migrator interface {
	Migrate(source m.Source, migration string, rule rewrites.Rule, opts m.Options) (m.Outcome, error)
}

type migrator struct {
	syntax adapter.SyntaxAdapter
}

// NewMigrator creates a Migrator that parses sources with syntax.
func NewMigrator(syntax adapter.SyntaxAdapter) Migrator {
	return &migrator{syntax: syntax}
}

// Migrate parses the source, honors ignore directives for migration and
// rewrites it. The returned Output is the source content itself when
// nothing changed.
func (mg *migrator) Migrate(source m.Source, migration string, rule rewrites.Rule, opts m.Options) (m.Outcome, error) {
	tree, err := mg.syntax.Parse(source.Path, source.Content)
	if err != nil {
		return m.Outcome{}, err
	}

	ignores := buildIgnoreIndex(tree)
	if ignores.file.ignores(migration) {
		return m.Outcome{Output: source.Content, Ignored: true}, nil
	}

	subject := replacement.SelectSubject(source.Path, opts)

	return rewrites.Rewrite(tree, subject, rule, rewrites.WithLineFilter(ignores.lineFilter(migration)))
}
