// Package controller renders migration runs, listings and reports.
package controller

import (
	m "github.com/mouse-blink/polaris-migrator/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeStatic StartMode = iota
	ModeRun
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithRunMode makes the UI follow a migration run as it progresses.
func WithRunMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeRun
	}
}

// RunInfo describes a batch run before its first file is processed.
type RunInfo struct {
	Migration string
	Files     int
	Threads   int
	DryRun    bool
}

// UI defines how commands report progress and results.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(options ...StartOption) error
	Close()
	Wait() // Wait for UI to finish (user closes it)
	DisplayRunInfo(info RunInfo)
	DisplayFileResult(result m.FileResult)
	DisplaySummary(report m.Report)
	DisplayMigrations(migrations []m.MigrationInfo)
	DisplayReports(reports []m.Report)
	DisplayCheckResults(results []m.CheckResult)
}

func newStartConfig(options []StartOption) StartConfig {
	var cfg StartConfig
	for _, opt := range options {
		opt(&cfg)
	}

	return cfg
}
