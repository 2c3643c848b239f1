package controller

import (
	"bytes"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	m "github.com/mouse-blink/polaris-migrator/internal/model"
)

type quitModel struct{}

func (m quitModel) Init() tea.Cmd { return tea.Quit }
func (m quitModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	return m, tea.Quit
}
func (m quitModel) View() string { return "" }

func TestTUI_StartWithModel_WaitAndClose(t *testing.T) {
	var buf bytes.Buffer
	tui := NewTUI(&buf)

	if err := tui.startWithModel(quitModel{}); err != nil {
		t.Fatalf("startWithModel error = %v", err)
	}

	// send while running should go through program.Send
	tui.DisplayRunInfo(RunInfo{Migration: "x", Files: 1, Threads: 1})

	waitDone := make(chan struct{})
	go func() {
		tui.Wait()
		close(waitDone)
	}()

	select {
	case <-waitDone:
	case <-time.After(2 * time.Second):
		t.Fatal("Wait() timed out")
	}

	closeDone := make(chan struct{})
	go func() {
		tui.Close()
		close(closeDone)
	}()

	select {
	case <-closeDone:
	case <-time.After(2 * time.Second):
		t.Fatal("Close() timed out")
	}
}

func TestTUI_StaticStartDoesNotRunProgram(t *testing.T) {
	var buf bytes.Buffer
	tui := NewTUI(&buf)

	if err := tui.Start(); err != nil {
		t.Fatalf("Start error = %v", err)
	}

	if tui.program != nil {
		t.Fatal("static start created a program")
	}

	tui.Wait()
	tui.Close()
	tui.Close()
}

func TestTUI_DisplayMethods_NoProgram(t *testing.T) {
	var buf bytes.Buffer
	tui := NewTUI(&buf)

	tui.DisplayRunInfo(RunInfo{Migration: "styles-replace-custom-property-motion", Files: 2, Threads: 4, DryRun: true})
	tui.DisplayFileResult(m.FileResult{Path: "a.css", Status: m.StatusChanged, Edits: 3})
	tui.DisplaySummary(m.Report{Summary: m.Summary{Changed: 1, Unmodified: 1}, Duration: "12ms"})

	output := buf.String()
	for _, want := range []string{"styles-replace-custom-property-motion", "dry run", "a.css", "3 edits", "1 changed", "12ms"} {
		if !strings.Contains(output, want) {
			t.Fatalf("output missing %q\noutput:\n%s", want, output)
		}
	}
}

func TestTUI_StaticDisplays(t *testing.T) {
	var buf bytes.Buffer
	tui := NewTUI(&buf)

	tui.DisplayMigrations([]m.MigrationInfo{{Name: "v9-scss-replace-breakpoints", Description: "Replace breakpoints", Extensions: []string{".scss"}}})
	tui.DisplayReports(nil)
	tui.DisplayCheckResults([]m.CheckResult{
		{Fixture: "basic", Passed: true},
		{Fixture: "with-namespace", Diff: "--- expected\n+++ actual\n-a\n+b\n"},
	})

	output := buf.String()
	for _, want := range []string{"v9-scss-replace-breakpoints", ".scss", "No reports found", "PASS", "FAIL", "+++ actual", "1 passed, 1 failed"} {
		if !strings.Contains(output, want) {
			t.Fatalf("output missing %q\noutput:\n%s", want, output)
		}
	}
}

func TestRunModel_TracksProgress(t *testing.T) {
	var model tea.Model = newRunModel()

	model, _ = model.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	model, _ = model.Update(runInfoMsg{info: RunInfo{Migration: "motion", Files: 2, Threads: 1}})
	model, _ = model.Update(fileResultMsg{result: m.FileResult{Path: "a.css", Status: m.StatusChanged, Edits: 1}})

	rm := model.(runModel)
	if got := rm.percent(); got != 0.5 {
		t.Fatalf("percent() = %v, want 0.5", got)
	}

	if !strings.Contains(rm.View(), "1/2") {
		t.Fatalf("view missing progress count:\n%s", rm.View())
	}

	model, _ = model.Update(fileResultMsg{result: m.FileResult{
		Path:   "b.scss",
		Status: m.StatusUnmodified,
		Skips:  []m.Skip{{Line: 2, Column: 5, Text: "--p-duration-0", Reason: "literal replacement outside var()"}},
	}})
	model, _ = model.Update(summaryMsg{report: m.Report{Summary: m.Summary{Changed: 1, Unmodified: 1, Warnings: 1}}})
	model, _ = model.Update(runFinishedMsg{})

	rm = model.(runModel)
	if !rm.finished || rm.percent() != 1 {
		t.Fatalf("finished = %v, percent = %v", rm.finished, rm.percent())
	}

	if !strings.Contains(rm.View(), "Press q to quit") {
		t.Fatalf("view missing quit help:\n%s", rm.View())
	}
}

func TestRunModel_DetailAndQuit(t *testing.T) {
	var model tea.Model = newRunModel()

	model, _ = model.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	model, _ = model.Update(runInfoMsg{info: RunInfo{Files: 1}})
	model, _ = model.Update(fileResultMsg{result: m.FileResult{
		Path:   "a.scss",
		Status: m.StatusChanged,
		Skips:  []m.Skip{{Line: 3, Column: 9, Text: "--p-duration-0", Reason: "adjacent to an interpolation"}},
	}})

	// details are only available once the run finished
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if model.(runModel).showDetail {
		t.Fatal("detail opened while running")
	}

	model, _ = model.Update(runFinishedMsg{})
	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyEnter})

	rm := model.(runModel)
	if !rm.showDetail {
		t.Fatal("enter did not open detail")
	}

	if view := rm.View(); !strings.Contains(view, "adjacent to an interpolation") {
		t.Fatalf("detail missing skip reason:\n%s", view)
	}

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q did not return a command")
	}

	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("q did not quit")
	}
}

func TestTruncateFile(t *testing.T) {
	tests := []struct {
		text  string
		width int
		want  string
	}{
		{"short.css", 20, "short.css"},
		{"a/very/long/path.scss", 8, "a/very/…"},
		{"abc", 1, "…"},
		{"abc", 0, ""},
	}

	for _, tt := range tests {
		if got := truncateFile(tt.text, tt.width); got != tt.want {
			t.Errorf("truncateFile(%q, %d) = %q, want %q", tt.text, tt.width, got, tt.want)
		}
	}
}
