package model

import "time"

// FileStatus is the final state of a file in a batch run.
type FileStatus string

const (
	// StatusChanged means the migration produced new content.
	StatusChanged FileStatus = "changed"
	// StatusUnmodified means the migration had nothing to do.
	StatusUnmodified FileStatus = "unmodified"
	// StatusSkipped means an ignore directive excluded the file.
	StatusSkipped FileStatus = "skipped"
	// StatusFailed means the file could not be read, parsed or written.
	StatusFailed FileStatus = "failed"
)

// FileResult holds the migration result for a single file.
type FileResult struct {
	Path   Path       `yaml:"path"`
	Status FileStatus `yaml:"status"`
	Edits  int        `yaml:"edits"`
	Skips  []Skip     `yaml:"skips,omitempty"`
	Error  string     `yaml:"error,omitempty"`
}

// Summary counts file results by status.
type Summary struct {
	Changed    int `yaml:"changed"`
	Unmodified int `yaml:"unmodified"`
	Skipped    int `yaml:"skipped"`
	Failed     int `yaml:"failed"`
	Warnings   int `yaml:"warnings"`
}

// Add accounts for one file result.
func (s *Summary) Add(r FileResult) {
	switch r.Status {
	case StatusChanged:
		s.Changed++
	case StatusUnmodified:
		s.Unmodified++
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	}

	s.Warnings += len(r.Skips)
}

// Total is the number of files accounted for.
func (s Summary) Total() int {
	return s.Changed + s.Unmodified + s.Skipped + s.Failed
}

// Report is a persisted record of one batch run.
type Report struct {
	Migration string       `yaml:"migration"`
	Options   Options      `yaml:"options"`
	DryRun    bool         `yaml:"dry_run"`
	StartedAt time.Time    `yaml:"started_at"`
	Duration  string       `yaml:"duration"`
	Summary   Summary      `yaml:"summary"`
	Files     []FileResult `yaml:"files"`
}
