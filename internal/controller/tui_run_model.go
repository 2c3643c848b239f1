package controller

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	m "github.com/mouse-blink/polaris-migrator/internal/model"
)

// fileItemDelegate renders processed files in the results list.
type fileItemDelegate struct{}

func (d fileItemDelegate) Height() int  { return 1 }
func (d fileItemDelegate) Spacing() int { return 0 }
func (d fileItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d fileItemDelegate) Render(w io.Writer, l list.Model, index int, item list.Item) {
	fi, ok := item.(fileItem)
	if !ok {
		return
	}

	if index == l.Index() {
		path := truncateFile(string(fi.result.Path), l.Width()-14)
		line := fmt.Sprintf("%-11s %s", fi.result.Status, path)
		_, _ = fmt.Fprint(w, lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(accentColor).
			Bold(true).
			Render(line))

		return
	}

	_, _ = fmt.Fprint(w, renderResultLine(fi.result, l.Width()))
}

// runModel follows a batch run: a progress bar while files are processed,
// then a browsable list of results with per-file warnings.
type runModel struct {
	width  int
	height int

	info        RunInfo
	progressBar progress.Model
	resultsList list.Model
	results     []m.FileResult
	report      *m.Report
	finished    bool
	showDetail  bool
}

func newRunModel() runModel {
	resultsList := list.New(nil, fileItemDelegate{}, 80, 10)
	resultsList.SetShowTitle(false)
	resultsList.SetShowStatusBar(false)
	resultsList.SetShowHelp(false)
	resultsList.SetFilteringEnabled(true)

	return runModel{
		progressBar: progress.New(progress.WithDefaultGradient(), progress.WithWidth(40), progress.WithoutPercentage()),
		resultsList: resultsList,
	}
}

func (rm runModel) Init() tea.Cmd {
	return tea.Tick(time.Millisecond*150, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (rm runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return rm.handleWindowSize(msg), nil
	case tea.KeyMsg:
		return rm.handleKeyMsg(msg)
	case tea.MouseMsg:
		return rm.handleMouseMsg(msg)
	case runInfoMsg:
		rm.info = msg.info
		return rm, nil
	case fileResultMsg:
		return rm.handleFileResult(msg), nil
	case summaryMsg:
		report := msg.report
		rm.report = &report

		return rm, nil
	case runFinishedMsg:
		rm.finished = true
		return rm, nil
	case tickMsg:
		return rm, tea.Tick(time.Millisecond*150, func(t time.Time) tea.Msg {
			return tickMsg(t)
		})
	}

	return rm, nil
}

func (rm runModel) handleWindowSize(msg tea.WindowSizeMsg) runModel {
	rm.width = msg.Width
	rm.height = msg.Height

	rm.progressBar.Width = rm.width - 20
	if rm.progressBar.Width < 20 {
		rm.progressBar.Width = 20
	}

	rm.resultsList.SetSize(rm.width-4, rm.listHeight())

	return rm
}

func (rm runModel) listHeight() int {
	// header, progress, summary, help and box borders
	h := rm.height - 10
	if rm.showDetail {
		h -= rm.detailHeight()
	}

	if h < 3 {
		h = 3
	}

	return h
}

func (rm runModel) handleFileResult(msg fileResultMsg) runModel {
	rm.results = append(rm.results, msg.result)

	items := make([]list.Item, 0, len(rm.results))
	for _, r := range rm.results {
		items = append(items, fileItem{result: r})
	}

	rm.resultsList.SetItems(items)

	return rm
}

func (rm runModel) handleKeyMsg(msg tea.KeyMsg) (runModel, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return rm, tea.Quit
	case "enter", " ":
		if rm.finished {
			rm.showDetail = !rm.showDetail
			rm.resultsList.SetSize(rm.width-4, rm.listHeight())
		}

		return rm, nil
	}

	if !rm.finished {
		return rm, nil
	}

	var cmd tea.Cmd

	rm.resultsList, cmd = rm.resultsList.Update(msg)

	return rm, cmd
}

func (rm runModel) handleMouseMsg(msg tea.MouseMsg) (runModel, tea.Cmd) {
	if !rm.finished {
		return rm, nil
	}

	var cmd tea.Cmd

	rm.resultsList, cmd = rm.resultsList.Update(msg)

	return rm, cmd
}

func (rm runModel) percent() float64 {
	if rm.info.Files == 0 {
		if rm.finished {
			return 1
		}

		return 0
	}

	return float64(len(rm.results)) / float64(rm.info.Files)
}

func (rm runModel) selected() (m.FileResult, bool) {
	fi, ok := rm.resultsList.SelectedItem().(fileItem)
	if !ok {
		return m.FileResult{}, false
	}

	return fi.result, true
}

func (rm runModel) detailLines() []string {
	result, ok := rm.selected()
	if !ok {
		return nil
	}

	lines := []string{nameStyle.Render(string(result.Path))}

	if result.Error != "" {
		lines = append(lines, statusStyle(m.StatusFailed).Render(result.Error))
	}

	for _, skip := range result.Skips {
		lines = append(lines, fmt.Sprintf("%d:%d  %s  %s",
			skip.Line, skip.Column, skip.Text, mutedStyle.Render(skip.Reason)))
	}

	if len(lines) == 1 {
		lines = append(lines, mutedStyle.Render("no warnings"))
	}

	return lines
}

func (rm runModel) detailHeight() int {
	n := len(rm.detailLines())
	if n == 0 {
		return 0
	}

	return min(n, 12) + 2
}

func (rm runModel) View() string {
	width := rm.width
	if width <= 0 {
		width = 80
	}

	sections := []string{renderRunInfo(rm.info)}

	bar := rm.progressBar.ViewAs(rm.percent())
	count := mutedStyle.Render(fmt.Sprintf(" %d/%d", len(rm.results), rm.info.Files))
	sections = append(sections, bar+count)

	if rm.report != nil {
		sections = append(sections, renderSummary(*rm.report))
	}

	if len(rm.results) > 0 {
		box := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Width(width - 2).
			Render(rm.resultsList.View())
		sections = append(sections, box)
	}

	if rm.showDetail {
		lines := rm.detailLines()
		if len(lines) > 12 {
			lines = append(lines[:11], mutedStyle.Render("…"))
		}

		if len(lines) > 0 {
			detail := lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("8")).
				Padding(0, 1).
				Width(width - 2).
				Render(strings.Join(lines, "\n"))
			sections = append(sections, detail)
		}
	}

	help := "Processing…"
	if rm.finished {
		help = "↑/↓ to browse • enter for details • / to filter • Press q to quit"
	}

	sections = append(sections, mutedStyle.Render(help))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
