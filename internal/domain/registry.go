package domain

import (
	"embed"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/mouse-blink/polaris-migrator/internal/domain/rewrites"
	"github.com/mouse-blink/polaris-migrator/internal/logging"
	m "github.com/mouse-blink/polaris-migrator/internal/model"
	"github.com/mouse-blink/polaris-migrator/internal/replacement"
)

// ErrUnknownMigration is returned for migration names that are not registered.
var ErrUnknownMigration = errors.New("unknown migration")

// ErrMissingReplacementMaps is returned when a migration that takes its
// rules from the caller is run without a replacement-map file.
var ErrMissingReplacementMaps = errors.New("replacement maps required")

//go:embed maps/*.yaml
var builtinMaps embed.FS

var (
	stylesheetExts = []string{".css", ".scss"}
	scssExts       = []string{".scss"}
	allExts        = []string{".css", ".scss", ".ts", ".tsx", ".js", ".jsx", ".mjs"}
)

// Migration is a named transform and the files it applies to.
type Migration struct {
	Name        string
	Description string
	Extensions  []string
	prepare     func(opts m.Options) (rewrites.Rule, error)
}

// Supports reports whether the migration applies to path.
func (mg Migration) Supports(path m.Path) bool {
	ext := path.Ext()

	for _, e := range mg.Extensions {
		if e == ext {
			return true
		}
	}

	return false
}

// Prepare builds the rule for one run. Configuration problems such as an
// unreadable replacement-map file surface here, before any file is touched.
func (mg Migration) Prepare(opts m.Options) (rewrites.Rule, error) {
	if mg.prepare == nil {
		return nil, fmt.Errorf("migration %s has no rule", mg.Name)
	}

	return mg.prepare(opts)
}

// Registry holds the migrations the CLI knows by name.
type Registry struct {
	byName map[string]Migration
}

// NewRegistry builds a registry from migrations. Later duplicates win.
func NewRegistry(migrations ...Migration) *Registry {
	r := &Registry{byName: make(map[string]Migration, len(migrations))}
	for _, mg := range migrations {
		r.byName[mg.Name] = mg
	}

	return r
}

// DefaultRegistry returns the built-in migrations.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Migration{
			Name:        "styles-replace-custom-property",
			Description: "Replace custom properties using a replacement-map file",
			Extensions:  allExts,
			prepare: func(opts m.Options) (rewrites.Rule, error) {
				if opts.ReplacementMaps == "" {
					return nil, ErrMissingReplacementMaps
				}

				rm, err := replacement.LoadFile(string(opts.ReplacementMaps))
				if err != nil {
					return nil, err
				}

				logHazards("styles-replace-custom-property", rm)

				return rewrites.NewCustomPropertyRule(rm), nil
			},
		},
		customPropertyMigration(
			"styles-replace-custom-property-motion",
			"Replace deprecated motion custom properties",
		),
		customPropertyMigration(
			"v11-styles-replace-custom-property-border",
			"Replace deprecated border-radius custom properties",
		),
		Migration{
			Name:        "v9-scss-replace-breakpoints",
			Description: "Replace breakpoint mixins with media query variables",
			Extensions:  scssExts,
			prepare: func(opts m.Options) (rewrites.Rule, error) {
				return rewrites.NewBreakpointRule(builtinMap("v9-scss-replace-breakpoints"), opts.Namespace), nil
			},
		},
	)
}

func customPropertyMigration(name, description string) Migration {
	rm := builtinMap(name)

	return Migration{
		Name:        name,
		Description: description,
		Extensions:  allExts,
		prepare: func(m.Options) (rewrites.Rule, error) {
			return rewrites.NewCustomPropertyRule(rm), nil
		},
	}
}

// builtinMap loads an embedded map. The maps ship with the binary, so a
// broken one is a programming error.
func builtinMap(name string) *replacement.Map {
	data, err := builtinMaps.ReadFile("maps/" + name + ".yaml")
	if err != nil {
		panic(fmt.Sprintf("builtin replacement map %s: %v", name, err))
	}

	rm, err := replacement.LoadYAML(data)
	if err != nil {
		panic(fmt.Sprintf("builtin replacement map %s: %v", name, err))
	}

	return rm
}

func logHazards(migration string, rm *replacement.Map) {
	logger := logging.GetLogger("registry")

	for _, h := range rm.Chains() {
		logger.Warn().Str("migration", migration).Str("hazard", h.String()).Msg("Replacement chain is not idempotent")
	}
}

// Get returns the named migration. Unknown names produce an error that
// suggests the closest registered names.
func (r *Registry) Get(name string) (Migration, error) {
	if mg, ok := r.byName[name]; ok {
		return mg, nil
	}

	if suggestions := r.suggest(name); len(suggestions) > 0 {
		return Migration{}, fmt.Errorf("%w %q, did you mean %s?", ErrUnknownMigration, name, strings.Join(suggestions, " or "))
	}

	return Migration{}, fmt.Errorf("%w %q", ErrUnknownMigration, name)
}

func (r *Registry) suggest(name string) []string {
	if name == "" {
		return nil
	}

	ranks := fuzzy.RankFindFold(name, r.names())
	sort.Sort(ranks)

	var out []string

	for i, rank := range ranks {
		if i == 2 {
			break
		}

		out = append(out, rank.Target)
	}

	if len(out) > 0 {
		return out
	}

	// Typos rarely form a subsequence, fall back to shared words.
	for _, candidate := range r.names() {
		for _, word := range strings.Split(name, "-") {
			if len(word) > 3 && strings.Contains(candidate, word) {
				out = append(out, candidate)
				break
			}
		}
	}

	if len(out) > 2 {
		out = out[:2]
	}

	return out
}

func (r *Registry) names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}

	sort.Strings(names)

	return names
}

// List returns the registered migrations sorted by name.
func (r *Registry) List() []Migration {
	out := make([]Migration, 0, len(r.byName))
	for _, name := range r.names() {
		out = append(out, r.byName[name])
	}

	return out
}
