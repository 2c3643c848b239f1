// Package harness verifies migrations against golden fixture directories.
//
// A fixture is a directory holding input.<ext> and output.<ext>. The input
// is migrated through the same registry and migrator the CLI uses and the
// result is compared with the output file.
package harness

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/mouse-blink/polaris-migrator/internal/adapter"
	"github.com/mouse-blink/polaris-migrator/internal/domain"
	m "github.com/mouse-blink/polaris-migrator/internal/model"
)

// ErrFixtureMissing is returned when a fixture lacks its input or output file.
var ErrFixtureMissing = errors.New("fixture file missing")

// namespaceMarker in a fixture name makes Cases run it with the namespace.
const namespaceMarker = "with-namespace"

// Case is one fixture run.
type Case struct {
	Fixture   string
	Migration string
	// Extension of the fixture files, including the dot.
	Extension string
	Options   m.Options
	// Exact compares byte for byte instead of ignoring surrounding whitespace.
	Exact bool
}

// Cases builds a case per fixture. Fixtures whose name contains
// "with-namespace" get namespace as their Options.Namespace.
func Cases(migration, ext string, fixtures []string, namespace string) []Case {
	cases := make([]Case, 0, len(fixtures))

	for _, fixture := range fixtures {
		c := Case{Fixture: fixture, Migration: migration, Extension: ext}
		if strings.Contains(fixture, namespaceMarker) {
			c.Options.Namespace = namespace
		}

		cases = append(cases, c)
	}

	return cases
}

// Runner verifies cases with a registry and adapters.
type Runner struct {
	registry *domain.Registry
	fs       adapter.SourceFSAdapter
	migrator domain.Migrator
}

// NewRunner creates a Runner over registry using the local filesystem and
// syntax adapters.
func NewRunner(registry *domain.Registry) *Runner {
	return &Runner{
		registry: registry,
		fs:       adapter.NewLocalSourceFSAdapter(),
		migrator: domain.NewMigrator(adapter.NewLocalSyntaxAdapter()),
	}
}

var defaultRunner = NewRunner(domain.DefaultRegistry())

// Fixtures lists the fixture directories under baseDir that hold an input
// file with ext.
func (r *Runner) Fixtures(baseDir, ext string) ([]string, error) {
	dirs, err := r.fs.ListDirs(m.Path(baseDir))
	if err != nil {
		return nil, fmt.Errorf("list fixtures: %w", err)
	}

	var fixtures []string

	for _, dir := range dirs {
		if _, err := r.fs.FileInfo(m.Path(filepath.Join(string(dir), "input"+ext))); err != nil {
			continue
		}

		fixtures = append(fixtures, filepath.Base(string(dir)))
	}

	return fixtures, nil
}

// Verify runs c and compares the result with its output file. Configuration
// problems (missing fixture files, unknown migration, unusable options) are
// returned as errors; a mismatch is a failed result carrying a diff.
func (r *Runner) Verify(baseDir string, c Case) (m.CheckResult, error) {
	result := m.CheckResult{Migration: c.Migration, Fixture: c.Fixture}

	dir := filepath.Join(baseDir, c.Fixture)
	inputPath := m.Path(filepath.Join(dir, "input"+c.Extension))
	outputPath := m.Path(filepath.Join(dir, "output"+c.Extension))

	source, err := r.load(inputPath)
	if err != nil {
		return result, err
	}

	expected, err := r.load(outputPath)
	if err != nil {
		return result, err
	}

	migration, err := r.registry.Get(c.Migration)
	if err != nil {
		return result, err
	}

	rule, err := migration.Prepare(c.Options)
	if err != nil {
		return result, fmt.Errorf("prepare %s: %w", c.Migration, err)
	}

	outcome, err := r.migrator.Migrate(source, migration.Name, rule, c.Options)
	if err != nil {
		return result, err
	}

	want, got := string(expected.Content), string(outcome.Output)
	if !c.Exact {
		want, got = strings.TrimSpace(want), strings.TrimSpace(got)
	}

	if want == got {
		result.Passed = true
		return result, nil
	}

	result.Diff = unifiedDiff(want, got)

	return result, nil
}

// VerifyAll runs every fixture of migration under baseDir.
func (r *Runner) VerifyAll(baseDir, migration, ext, namespace string) ([]m.CheckResult, error) {
	fixtures, err := r.Fixtures(baseDir, ext)
	if err != nil {
		return nil, err
	}

	if len(fixtures) == 0 {
		return nil, fmt.Errorf("%w: no input%s under %s", ErrFixtureMissing, ext, baseDir)
	}

	results := make([]m.CheckResult, 0, len(fixtures))

	for _, c := range Cases(migration, ext, fixtures, namespace) {
		res, err := r.Verify(baseDir, c)
		if err != nil {
			res.Error = err.Error()
		}

		results = append(results, res)
	}

	return results, nil
}

func (r *Runner) load(path m.Path) (m.Source, error) {
	source, err := r.fs.Load(path)
	if errors.Is(err, os.ErrNotExist) {
		return m.Source{}, fmt.Errorf("%w: %s", ErrFixtureMissing, path)
	}

	return source, err
}

// Verify runs c with the built-in migrations.
func Verify(baseDir string, c Case) (m.CheckResult, error) {
	return defaultRunner.Verify(baseDir, c)
}

func unifiedDiff(expected, actual string) string {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(actual),
		FromFile: "expected",
		ToFile:   "actual",
		Context:  3,
	})
	if err != nil {
		return fmt.Sprintf("--- expected\n%s\n+++ actual\n%s\n", expected, actual)
	}

	return diff
}
