package controller

import (
	"time"

	m "github.com/mouse-blink/polaris-migrator/internal/model"
)

// Message types.
type runInfoMsg struct {
	info RunInfo
}

type fileResultMsg struct {
	result m.FileResult
}

type summaryMsg struct {
	report m.Report
}

type runFinishedMsg struct{}

type tickMsg time.Time

// fileItem is a processed file in the results list.
type fileItem struct {
	result m.FileResult
}

func (f fileItem) FilterValue() string {
	return string(f.result.Path) + " " + string(f.result.Status)
}
