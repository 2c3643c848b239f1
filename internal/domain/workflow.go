package domain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mouse-blink/polaris-migrator/internal/adapter"
	"github.com/mouse-blink/polaris-migrator/internal/controller"
	"github.com/mouse-blink/polaris-migrator/internal/domain/rewrites"
	"github.com/mouse-blink/polaris-migrator/internal/logging"
	m "github.com/mouse-blink/polaris-migrator/internal/model"
)

// ErrFilesFailed is returned by Run when at least one file could not be
// migrated. The other files are still processed and reported.
var ErrFilesFailed = errors.New("migration failed")

// RunArgs holds the arguments for a batch run.
type RunArgs struct {
	Migration string
	Patterns  []string
	Exclude   []string
	Options   m.Options
	Threads   int
	DryRun    bool
	// Reports is the directory run reports are saved to. Empty disables
	// persistence.
	Reports m.Path
}

// Workflow defines the operations the CLI exposes.
type Workflow interface {
	Run(ctx context.Context, args RunArgs) (m.Report, error)
	List() error
	View(reports m.Path) error
}

type workflow struct {
	fsAdapter   adapter.SourceFSAdapter
	reportStore adapter.ReportStore
	ui          controller.UI
	migrator    Migrator
	registry    *Registry
	now         func() time.Time
}

// NewWorkflow creates a new Workflow instance with the provided adapters.
func NewWorkflow(
	fsAdapter adapter.SourceFSAdapter,
	reportStore adapter.ReportStore,
	syntax adapter.SyntaxAdapter,
	ui controller.UI,
	registry *Registry,
) Workflow {
	return &workflow{
		fsAdapter:   fsAdapter,
		reportStore: reportStore,
		ui:          ui,
		migrator:    NewMigrator(syntax),
		registry:    registry,
		now:         time.Now,
	}
}

// Run migrates every file matched by args.Patterns. Configuration errors
// abort before any file is touched; per-file failures are reported and
// turn into ErrFilesFailed once the batch is done.
func (w *workflow) Run(ctx context.Context, args RunArgs) (m.Report, error) {
	logger := logging.GetLogger("workflow")
	defer logging.LogOperationStart(logger, "run")()

	migration, err := w.registry.Get(args.Migration)
	if err != nil {
		return m.Report{}, err
	}

	rule, err := migration.Prepare(args.Options)
	if err != nil {
		return m.Report{}, fmt.Errorf("prepare %s: %w", migration.Name, err)
	}

	paths, err := w.fsAdapter.Get(args.Patterns, args.Exclude)
	if err != nil {
		return m.Report{}, fmt.Errorf("expand patterns: %w", err)
	}

	paths = filterSupported(migration, paths)

	threads := args.Threads
	if threads <= 0 {
		threads = 1
	}

	logger.Info().
		Str("migration", migration.Name).
		Int("files", len(paths)).
		Int("threads", threads).
		Bool("dryRun", args.DryRun).
		Msg("Starting migration run")

	if err := w.ui.Start(controller.WithRunMode()); err != nil {
		return m.Report{}, err
	}

	w.ui.DisplayRunInfo(controller.RunInfo{
		Migration: migration.Name,
		Files:     len(paths),
		Threads:   threads,
		DryRun:    args.DryRun,
	})

	startedAt := w.now()
	results := w.processAll(ctx, migration.Name, rule, paths, args, threads)

	report := m.Report{
		Migration: migration.Name,
		Options:   args.Options,
		DryRun:    args.DryRun,
		StartedAt: startedAt,
		Duration:  w.now().Sub(startedAt).Round(time.Millisecond).String(),
		Files:     results,
	}

	for _, r := range results {
		report.Summary.Add(r)
	}

	w.ui.DisplaySummary(report)
	w.ui.Close()
	w.ui.Wait()

	if args.Reports != "" {
		if err := w.saveReport(args.Reports, report); err != nil {
			return report, err
		}
	}

	if err := ctx.Err(); err != nil {
		return report, err
	}

	if report.Summary.Failed > 0 {
		return report, fmt.Errorf("%w for %d of %d file(s)", ErrFilesFailed, report.Summary.Failed, report.Summary.Total())
	}

	return report, nil
}

// processAll runs the migration over paths with at most threads files in
// flight. Results keep the order of paths; files not started before ctx is
// canceled are left out.
func (w *workflow) processAll(ctx context.Context, name string, rule rewrites.Rule, paths []m.Path, args RunArgs, threads int) []m.FileResult {
	results := make([]m.FileResult, len(paths))
	done := make([]bool, len(paths))

	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)

	for i, path := range paths {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			result := w.processFile(path, name, rule, args)

			mu.Lock()
			defer mu.Unlock()

			results[i] = result
			done[i] = true
			w.ui.DisplayFileResult(result)

			return nil
		})
	}

	// Workers never return errors; failures live in the results.
	_ = g.Wait()

	out := make([]m.FileResult, 0, len(paths))

	for i, r := range results {
		if done[i] {
			out = append(out, r)
		}
	}

	return out
}

func (w *workflow) processFile(path m.Path, name string, rule rewrites.Rule, args RunArgs) m.FileResult {
	logger := logging.GetLogger("workflow").With().Str("path", string(path)).Logger()

	result := m.FileResult{Path: path}

	source, err := w.fsAdapter.Load(path)
	if err != nil {
		return failed(result, err)
	}

	outcome, err := w.migrator.Migrate(source, name, rule, args.Options)
	if err != nil {
		logger.Error().Err(err).Msg("Migration failed")
		return failed(result, err)
	}

	result.Edits = len(outcome.Edits)
	result.Skips = outcome.Skips

	for _, skip := range outcome.Skips {
		logger.Warn().
			Int("line", skip.Line).
			Int("column", skip.Column).
			Str("text", skip.Text).
			Msg(skip.Reason)
	}

	switch {
	case outcome.Ignored:
		result.Status = m.StatusSkipped
	case outcome.Changed:
		result.Status = m.StatusChanged

		if !args.DryRun {
			if err := w.fsAdapter.WriteFile(path, outcome.Output); err != nil {
				return failed(result, err)
			}
		}
	default:
		result.Status = m.StatusUnmodified
	}

	logger.Debug().Str("status", string(result.Status)).Int("edits", result.Edits).Msg("File processed")

	return result
}

func failed(result m.FileResult, err error) m.FileResult {
	result.Status = m.StatusFailed
	result.Edits = 0
	result.Error = err.Error()

	return result
}

func filterSupported(migration Migration, paths []m.Path) []m.Path {
	out := make([]m.Path, 0, len(paths))

	for _, p := range paths {
		if migration.Supports(p) {
			out = append(out, p)
		}
	}

	return out
}

func (w *workflow) saveReport(dir m.Path, report m.Report) error {
	file, err := w.reportStore.SaveReport(dir, report)
	if err != nil {
		return fmt.Errorf("save report: %w", err)
	}

	if err := w.reportStore.RegenerateIndex(dir); err != nil {
		return fmt.Errorf("regenerate report index: %w", err)
	}

	logger := logging.GetLogger("workflow")
	logger.Debug().Str("report", string(file)).Msg("Report saved")

	return nil
}

// List shows the registered migrations.
func (w *workflow) List() error {
	migrations := w.registry.List()

	infos := make([]m.MigrationInfo, 0, len(migrations))
	for _, mg := range migrations {
		infos = append(infos, m.MigrationInfo{
			Name:        mg.Name,
			Description: mg.Description,
			Extensions:  mg.Extensions,
		})
	}

	if err := w.ui.Start(); err != nil {
		return err
	}
	defer w.ui.Close()

	w.ui.DisplayMigrations(infos)

	return nil
}

// View shows the reports saved under dir.
func (w *workflow) View(dir m.Path) error {
	reports, err := w.reportStore.LoadReports(dir)
	if err != nil {
		return fmt.Errorf("load reports: %w", err)
	}

	if err := w.ui.Start(); err != nil {
		return err
	}
	defer w.ui.Close()

	w.ui.DisplayReports(reports)

	return nil
}
