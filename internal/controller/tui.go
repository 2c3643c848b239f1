package controller

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	m "github.com/mouse-blink/polaris-migrator/internal/model"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	nameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	accentColor = lipgloss.Color("6")
)

var statusColors = map[m.FileStatus]lipgloss.Color{
	m.StatusChanged:    lipgloss.Color("2"),
	m.StatusUnmodified: lipgloss.Color("8"),
	m.StatusSkipped:    lipgloss.Color("3"),
	m.StatusFailed:     lipgloss.Color("1"),
}

// TUI implements UI using Bubble Tea for interactive display.
// In run mode a program follows the batch; other displays render once.
type TUI struct {
	output io.Writer

	mu      sync.Mutex
	program *tea.Program
	started bool
	closed  bool
	done    chan struct{}
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start initializes the UI. Only run mode starts an interactive program.
func (t *TUI) Start(options ...StartOption) error {
	cfg := newStartConfig(options)
	if cfg.mode != ModeRun {
		return nil
	}

	model := newRunModel()

	// Get initial terminal size
	if f, ok := t.output.(*os.File); ok {
		width, height, err := term.GetSize(int(f.Fd()))
		if err == nil {
			model = model.handleWindowSize(tea.WindowSizeMsg{Width: width, Height: height})
		}
	}

	return t.startWithModel(model)
}

func (t *TUI) startWithModel(model tea.Model) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.started {
		return nil
	}

	t.program = tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen(), tea.WithMouseCellMotion())
	t.done = make(chan struct{})
	t.started = true

	go func(p *tea.Program, done chan struct{}) {
		defer close(done)

		_, _ = p.Run()
	}(t.program, t.done)

	return nil
}

// send forwards msg to the running program. It is a no-op before Start.
func (t *TUI) send(msg tea.Msg) bool {
	t.mu.Lock()
	p := t.program
	t.mu.Unlock()

	if p == nil {
		return false
	}

	p.Send(msg)

	return true
}

// Close marks the run as finished. The program stays up until the user
// quits so results can be browsed.
func (t *TUI) Close() {
	t.mu.Lock()
	if t.closed || t.program == nil {
		t.closed = true
		t.mu.Unlock()

		return
	}

	t.closed = true
	p := t.program
	t.mu.Unlock()

	p.Send(runFinishedMsg{})
}

// Wait blocks until the user closes the program.
func (t *TUI) Wait() {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()

	if done == nil {
		return
	}

	<-done
}

// DisplayRunInfo shows the run header.
func (t *TUI) DisplayRunInfo(info RunInfo) {
	if t.send(runInfoMsg{info: info}) {
		return
	}

	t.print(renderRunInfo(info) + "\n")
}

// DisplayFileResult adds a processed file to the run view.
func (t *TUI) DisplayFileResult(result m.FileResult) {
	if t.send(fileResultMsg{result: result}) {
		return
	}

	t.print(renderResultLine(result, 0) + "\n")
}

// DisplaySummary shows the final counts of a run.
func (t *TUI) DisplaySummary(report m.Report) {
	if t.send(summaryMsg{report: report}) {
		return
	}

	t.print(renderSummary(report) + "\n")
}

// DisplayMigrations renders the registered migrations.
func (t *TUI) DisplayMigrations(migrations []m.MigrationInfo) {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Migrations"))
	b.WriteString("\n\n")

	width := 0
	for _, mg := range migrations {
		width = max(width, lipgloss.Width(mg.Name))
	}

	for _, mg := range migrations {
		b.WriteString(nameStyle.Width(width + 2).Render(mg.Name))
		b.WriteString(mg.Description)
		b.WriteString("\n")
		b.WriteString(strings.Repeat(" ", width+2))
		b.WriteString(mutedStyle.Render(strings.Join(mg.Extensions, " ")))
		b.WriteString("\n")
	}

	t.print(b.String())
}

// DisplayReports renders saved run reports, newest last.
func (t *TUI) DisplayReports(reports []m.Report) {
	if len(reports) == 0 {
		t.print(mutedStyle.Render("No reports found") + "\n")
		return
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Reports (%d)", len(reports))))
	b.WriteString("\n\n")

	for _, r := range reports {
		name := r.Migration
		if r.DryRun {
			name += " (dry run)"
		}

		b.WriteString(mutedStyle.Render(r.StartedAt.Format("2006-01-02 15:04:05")))
		b.WriteString("  ")
		b.WriteString(nameStyle.Render(name))
		b.WriteString("\n")
		b.WriteString("  ")
		b.WriteString(renderCounts(r.Summary))
		b.WriteString("\n")
	}

	t.print(b.String())
}

// DisplayCheckResults renders fixture results and the diffs of failures.
func (t *TUI) DisplayCheckResults(results []m.CheckResult) {
	var b strings.Builder

	passed := 0

	for _, r := range results {
		status := lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true).Render("PASS")
		if !r.Passed {
			status = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true).Render("FAIL")
		} else {
			passed++
		}

		b.WriteString(fmt.Sprintf("%s  %s\n", status, r.Fixture))

		switch {
		case r.Error != "":
			b.WriteString("      " + mutedStyle.Render(r.Error) + "\n")
		case r.Diff != "":
			for _, line := range strings.Split(strings.TrimRight(r.Diff, "\n"), "\n") {
				b.WriteString("      " + renderDiffLine(line, 0) + "\n")
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(titleStyle.Render(fmt.Sprintf("%d passed, %d failed", passed, len(results)-passed)))
	b.WriteString("\n")

	t.print(b.String())
}

func (t *TUI) print(s string) {
	_, _ = fmt.Fprint(t.output, s)
}

func renderRunInfo(info RunInfo) string {
	header := titleStyle.Render(info.Migration)

	details := fmt.Sprintf("%d file(s) • %d worker(s)", info.Files, info.Threads)
	if info.DryRun {
		details += " • dry run"
	}

	return header + "  " + mutedStyle.Render(details)
}

func renderSummary(report m.Report) string {
	line := renderCounts(report.Summary)
	if report.Duration != "" {
		line += mutedStyle.Render("  in " + report.Duration)
	}

	return line
}

func renderCounts(sum m.Summary) string {
	parts := []string{
		statusStyle(m.StatusChanged).Render(fmt.Sprintf("%d changed", sum.Changed)),
		statusStyle(m.StatusUnmodified).Render(fmt.Sprintf("%d unmodified", sum.Unmodified)),
		statusStyle(m.StatusSkipped).Render(fmt.Sprintf("%d skipped", sum.Skipped)),
		statusStyle(m.StatusFailed).Render(fmt.Sprintf("%d failed", sum.Failed)),
	}

	if sum.Warnings > 0 {
		parts = append(parts, lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Render(fmt.Sprintf("%d warnings", sum.Warnings)))
	}

	return strings.Join(parts, mutedStyle.Render(" • "))
}

func statusStyle(status m.FileStatus) lipgloss.Style {
	color, ok := statusColors[status]
	if !ok {
		color = lipgloss.Color("8")
	}

	return lipgloss.NewStyle().Foreground(color).Bold(true)
}

// renderResultLine renders one file result. width <= 0 disables truncation.
func renderResultLine(result m.FileResult, width int) string {
	path := string(result.Path)
	if width > 0 {
		path = truncateFile(path, width-24)
	}

	line := fmt.Sprintf("%s  %s",
		statusStyle(result.Status).Width(11).Render(string(result.Status)),
		nameStyle.Render(path),
	)

	switch {
	case result.Status == m.StatusFailed:
		line += "  " + mutedStyle.Render(result.Error)
	case result.Edits > 0:
		line += "  " + mutedStyle.Render(fmt.Sprintf("%d edits", result.Edits))
	}

	if len(result.Skips) > 0 {
		line += "  " + lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Render(fmt.Sprintf("%d warnings", len(result.Skips)))
	}

	return line
}

func renderDiffLine(line string, width int) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))

	switch {
	case strings.HasPrefix(line, "+++"):
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	case strings.HasPrefix(line, "---"):
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	case strings.HasPrefix(line, "@@"):
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	case strings.HasPrefix(line, "+"):
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	case strings.HasPrefix(line, "-"):
		style = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	}

	if width > 0 {
		line = truncateFile(line, width)
	}

	return style.Render(line)
}

func truncateFile(text string, width int) string {
	if width <= 0 {
		return ""
	}

	if lipgloss.Width(text) <= width {
		return text
	}

	ellipsis := "…"
	if width <= 1 {
		return ellipsis
	}

	maxWidth := width - lipgloss.Width(ellipsis)
	currentWidth := 0

	result := make([]rune, 0, len(text))
	for _, r := range text {
		rWidth := lipgloss.Width(string(r))
		if currentWidth+rWidth > maxWidth {
			break
		}

		result = append(result, r)
		currentWidth += rWidth
	}

	return string(result) + ellipsis
}
