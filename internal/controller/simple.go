package controller

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/mouse-blink/polaris-migrator/internal/model"
)

// SimpleUI implements UI using cobra Command's output writer.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(_ ...StartOption) error {
	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close() {
}

// Wait returns immediately; plain output has nothing to wait for.
func (s *SimpleUI) Wait() {
}

// DisplayRunInfo prints the run header.
func (s *SimpleUI) DisplayRunInfo(info RunInfo) {
	mode := ""
	if info.DryRun {
		mode = " (dry run)"
	}

	s.printf("Running %s on %d file(s) with %d worker(s)%s\n", info.Migration, info.Files, info.Threads, mode)
}

// DisplayFileResult prints one line per file that changed, was skipped or
// failed, followed by its skip warnings. Unmodified files stay quiet.
func (s *SimpleUI) DisplayFileResult(result m.FileResult) {
	switch result.Status {
	case m.StatusChanged:
		s.printf("%-10s %s (%d edits)\n", result.Status, result.Path, result.Edits)
	case m.StatusSkipped:
		s.printf("%-10s %s (ignored)\n", result.Status, result.Path)
	case m.StatusFailed:
		s.printf("%-10s %s: %s\n", result.Status, result.Path, result.Error)
	case m.StatusUnmodified:
	}

	for _, skip := range result.Skips {
		s.printf("warning    %s:%d:%d: %s: %s\n", result.Path, skip.Line, skip.Column, skip.Text, skip.Reason)
	}
}

// DisplaySummary prints per-status counts for a finished run.
func (s *SimpleUI) DisplaySummary(report m.Report) {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Status", "Files"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT})

	sum := report.Summary
	table.Append([]string{string(m.StatusChanged), fmt.Sprintf("%d", sum.Changed)})
	table.Append([]string{string(m.StatusUnmodified), fmt.Sprintf("%d", sum.Unmodified)})
	table.Append([]string{string(m.StatusSkipped), fmt.Sprintf("%d", sum.Skipped)})
	table.Append([]string{string(m.StatusFailed), fmt.Sprintf("%d", sum.Failed)})
	table.SetFooter([]string{"Total", fmt.Sprintf("%d", sum.Total())})

	table.Render()
	s.printf("\n%s", tableBuffer.String())

	if sum.Warnings > 0 {
		s.printf("%d warning(s)\n", sum.Warnings)
	}

	if report.DryRun {
		s.printf("Dry run: no files were written\n")
	}
}

// DisplayMigrations prints the registered migrations.
func (s *SimpleUI) DisplayMigrations(migrations []m.MigrationInfo) {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Migration", "Extensions", "Description"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	for _, mg := range migrations {
		table.Append([]string{mg.Name, strings.Join(mg.Extensions, " "), mg.Description})
	}

	table.Render()
	s.printf("\n%s", tableBuffer.String())
}

// DisplayReports prints one row per saved run report.
func (s *SimpleUI) DisplayReports(reports []m.Report) {
	if len(reports) == 0 {
		s.printf("No reports found\n")
		return
	}

	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Started", "Migration", "Changed", "Unmodified", "Skipped", "Failed", "Warnings"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	var total m.Summary

	for _, r := range reports {
		migration := r.Migration
		if r.DryRun {
			migration += " (dry run)"
		}

		table.Append([]string{
			r.StartedAt.Format("2006-01-02 15:04:05"),
			migration,
			fmt.Sprintf("%d", r.Summary.Changed),
			fmt.Sprintf("%d", r.Summary.Unmodified),
			fmt.Sprintf("%d", r.Summary.Skipped),
			fmt.Sprintf("%d", r.Summary.Failed),
			fmt.Sprintf("%d", r.Summary.Warnings),
		})

		total.Changed += r.Summary.Changed
		total.Unmodified += r.Summary.Unmodified
		total.Skipped += r.Summary.Skipped
		total.Failed += r.Summary.Failed
		total.Warnings += r.Summary.Warnings
	}

	table.SetFooter([]string{
		fmt.Sprintf("Runs %d", len(reports)),
		"",
		fmt.Sprintf("%d", total.Changed),
		fmt.Sprintf("%d", total.Unmodified),
		fmt.Sprintf("%d", total.Skipped),
		fmt.Sprintf("%d", total.Failed),
		fmt.Sprintf("%d", total.Warnings),
	})

	table.Render()
	s.printf("\n%s", tableBuffer.String())
}

// DisplayCheckResults prints pass/fail per fixture and the diff of every
// mismatch.
func (s *SimpleUI) DisplayCheckResults(results []m.CheckResult) {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Fixture", "Result"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)

	passed := 0

	for _, r := range results {
		table.Append([]string{r.Fixture, checkStatus(r)})

		if r.Passed {
			passed++
		}
	}

	table.SetFooter([]string{fmt.Sprintf("Passed %d", passed), fmt.Sprintf("Failed %d", len(results)-passed)})
	table.Render()
	s.printf("\n%s", tableBuffer.String())

	for _, r := range results {
		switch {
		case r.Error != "":
			s.printf("\n%s: %s\n", r.Fixture, r.Error)
		case r.Diff != "":
			s.printf("\n%s\n", r.Diff)
		}
	}
}

func checkStatus(r m.CheckResult) string {
	switch {
	case r.Passed:
		return "pass"
	case r.Error != "":
		return "error"
	default:
		return "fail"
	}
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
