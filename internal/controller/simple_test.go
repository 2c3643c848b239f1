package controller

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	m "github.com/mouse-blink/polaris-migrator/internal/model"
)

func newTestSimpleUI() (*SimpleUI, *bytes.Buffer) {
	var buf bytes.Buffer

	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	return NewSimpleUI(cmd), &buf
}

func assertContains(t *testing.T, output string, wants ...string) {
	t.Helper()

	for _, want := range wants {
		if !strings.Contains(output, want) {
			t.Fatalf("output missing %q\noutput:\n%s", want, output)
		}
	}
}

func TestSimpleUI_LifecycleIsNoop(t *testing.T) {
	ui, buf := newTestSimpleUI()

	if err := ui.Start(WithRunMode()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	ui.Close()
	ui.Wait()

	if buf.Len() != 0 {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestSimpleUI_DisplayRunInfo(t *testing.T) {
	ui, buf := newTestSimpleUI()

	ui.DisplayRunInfo(RunInfo{Migration: "styles-replace-custom-property-motion", Files: 3, Threads: 2, DryRun: true})

	assertContains(t, buf.String(), "Running styles-replace-custom-property-motion on 3 file(s) with 2 worker(s) (dry run)")
}

func TestSimpleUI_DisplayFileResult(t *testing.T) {
	ui, buf := newTestSimpleUI()

	ui.DisplayFileResult(m.FileResult{Path: "quiet.css", Status: m.StatusUnmodified})

	if buf.Len() != 0 {
		t.Fatalf("unmodified file printed %q", buf.String())
	}

	ui.DisplayFileResult(m.FileResult{
		Path:   "a.scss",
		Status: m.StatusChanged,
		Edits:  2,
		Skips:  []m.Skip{{Line: 4, Column: 7, Text: "--p-duration-0", Reason: "literal replacement outside var()"}},
	})
	ui.DisplayFileResult(m.FileResult{Path: "b.css", Status: m.StatusFailed, Error: "parse error: b.css:1:3: unexpected }"})
	ui.DisplayFileResult(m.FileResult{Path: "c.css", Status: m.StatusSkipped})

	assertContains(t, buf.String(),
		"changed    a.scss (2 edits)",
		"warning    a.scss:4:7: --p-duration-0: literal replacement outside var()",
		"failed     b.css: parse error: b.css:1:3: unexpected }",
		"skipped    c.css (ignored)",
	)
}

func TestSimpleUI_DisplaySummary(t *testing.T) {
	ui, buf := newTestSimpleUI()

	ui.DisplaySummary(m.Report{
		DryRun:  true,
		Summary: m.Summary{Changed: 2, Unmodified: 5, Skipped: 1, Failed: 1, Warnings: 3},
	})

	output := buf.String()
	assertContains(t, output, "STATUS", "changed", "unmodified", "TOTAL", "9", "3 warning(s)", "Dry run")
}

func TestSimpleUI_DisplayMigrations(t *testing.T) {
	ui, buf := newTestSimpleUI()

	ui.DisplayMigrations([]m.MigrationInfo{
		{Name: "v9-scss-replace-breakpoints", Description: "Replace breakpoint mixins", Extensions: []string{".scss"}},
		{Name: "styles-replace-custom-property-motion", Description: "Replace motion tokens", Extensions: []string{".css", ".scss"}},
	})

	assertContains(t, buf.String(), "v9-scss-replace-breakpoints", ".css .scss", "Replace motion tokens")
}

func TestSimpleUI_DisplayReports(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		ui, buf := newTestSimpleUI()
		ui.DisplayReports(nil)
		assertContains(t, buf.String(), "No reports found")
	})

	t.Run("totals", func(t *testing.T) {
		ui, buf := newTestSimpleUI()
		started := time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC)

		ui.DisplayReports([]m.Report{
			{Migration: "styles-replace-custom-property-motion", StartedAt: started, Summary: m.Summary{Changed: 2, Unmodified: 1}},
			{Migration: "v9-scss-replace-breakpoints", StartedAt: started.Add(time.Hour), DryRun: true, Summary: m.Summary{Changed: 4, Failed: 1}},
		})

		assertContains(t, buf.String(), "2026-03-01 10:30:00", "v9-scss-replace-breakpoints (dry run)", "RUNS 2", "6")
	})

	t.Run("dry run rows stay on one line", func(t *testing.T) {
		ui, buf := newTestSimpleUI()
		started := time.Date(2026, 3, 1, 11, 30, 0, 0, time.UTC)

		ui.DisplayReports([]m.Report{
			{Migration: "v11-styles-replace-custom-property-border", StartedAt: started, DryRun: true, Summary: m.Summary{Changed: 3}},
		})

		var row string

		for _, line := range strings.Split(buf.String(), "\n") {
			if strings.Contains(line, "2026-03-01 11:30:00") {
				row = line
			}
		}

		if !strings.Contains(row, "v11-styles-replace-custom-property-border (dry run)") {
			t.Errorf("expected the report row to hold the full migration label, got %q in:\n%s", row, buf.String())
		}
	})
}

func TestSimpleUI_DisplayCheckResults(t *testing.T) {
	ui, buf := newTestSimpleUI()

	ui.DisplayCheckResults([]m.CheckResult{
		{Fixture: "custom-properties", Passed: true},
		{Fixture: "with-namespace", Diff: "--- expected\n+++ actual\n"},
		{Fixture: "broken", Error: "fixture missing"},
	})

	assertContains(t, buf.String(),
		"custom-properties", "pass", "fail", "error",
		"PASSED 1", "FAILED 2",
		"+++ actual",
		"broken: fixture missing",
	)
}
