package adapter

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	m "github.com/mouse-blink/polaris-migrator/internal/model"
)

const indexFileName = "_index.yaml"

// ReportStore persists and retrieves run reports.
type ReportStore interface {
	SaveReport(dir m.Path, report m.Report) (m.Path, error)
	LoadReports(dir m.Path) ([]m.Report, error)
	RegenerateIndex(dir m.Path) error
}

// LocalReportStore writes one YAML document per run, named after a short hash
// of the run, plus an index summarizing every run in the directory.
type LocalReportStore struct{}

// NewReportStore constructs a ReportStore implementation.
func NewReportStore() ReportStore {
	return &LocalReportStore{}
}

type indexEntry struct {
	File      string    `yaml:"file"`
	Migration string    `yaml:"migration"`
	StartedAt time.Time `yaml:"started_at"`
	DryRun    bool      `yaml:"dry_run"`
	Summary   m.Summary `yaml:"summary"`
}

type index struct {
	Runs  []indexEntry `yaml:"runs"`
	Total m.Summary    `yaml:"total"`
}

// SaveReport writes report under dir and returns the file it created.
func (rs *LocalReportStore) SaveReport(dir m.Path, report m.Report) (m.Path, error) {
	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return "", fmt.Errorf("create reports dir: %w", err)
	}

	data, err := yaml.Marshal(report)
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}

	path := filepath.Join(string(dir), rs.computeReportHash(report)+".yaml")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	return m.Path(path), nil
}

func (rs *LocalReportStore) computeReportHash(report m.Report) string {
	h := sha256.New()
	_, _ = fmt.Fprintf(h, "%s\x00%s\x00%t\x00", report.Migration, report.StartedAt.UTC().Format(time.RFC3339Nano), report.DryRun)

	for _, file := range report.Files {
		_, _ = fmt.Fprintf(h, "%s\x00%s\x00", file.Path, file.Status)
	}

	return hex.EncodeToString(h.Sum(nil))[:16]
}

// LoadReports reads every report in dir, oldest first. A missing directory
// holds no reports.
func (rs *LocalReportStore) LoadReports(dir m.Path) ([]m.Report, error) {
	names, err := reportFiles(dir)
	if err != nil {
		return nil, err
	}

	reports := make([]m.Report, 0, len(names))

	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(string(dir), name))
		if err != nil {
			return nil, fmt.Errorf("read report %s: %w", name, err)
		}

		var report m.Report
		if err := yaml.Unmarshal(data, &report); err != nil {
			return nil, fmt.Errorf("decode report %s: %w", name, err)
		}

		reports = append(reports, report)
	}

	sort.SliceStable(reports, func(i, j int) bool {
		return reports[i].StartedAt.Before(reports[j].StartedAt)
	})

	return reports, nil
}

// RegenerateIndex rewrites the index file from the reports present in dir.
func (rs *LocalReportStore) RegenerateIndex(dir m.Path) error {
	names, err := reportFiles(dir)
	if err != nil {
		return err
	}

	var idx index

	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(string(dir), name))
		if err != nil {
			return fmt.Errorf("read report %s: %w", name, err)
		}

		var report m.Report
		if err := yaml.Unmarshal(data, &report); err != nil {
			return fmt.Errorf("decode report %s: %w", name, err)
		}

		idx.Runs = append(idx.Runs, indexEntry{
			File:      name,
			Migration: report.Migration,
			StartedAt: report.StartedAt,
			DryRun:    report.DryRun,
			Summary:   report.Summary,
		})

		idx.Total.Changed += report.Summary.Changed
		idx.Total.Unmodified += report.Summary.Unmodified
		idx.Total.Skipped += report.Summary.Skipped
		idx.Total.Failed += report.Summary.Failed
		idx.Total.Warnings += report.Summary.Warnings
	}

	sort.SliceStable(idx.Runs, func(i, j int) bool {
		return idx.Runs[i].StartedAt.Before(idx.Runs[j].StartedAt)
	})

	if err := os.MkdirAll(string(dir), 0o750); err != nil {
		return fmt.Errorf("create reports dir: %w", err)
	}

	data, err := yaml.Marshal(idx)
	if err != nil {
		return fmt.Errorf("marshal index: %w", err)
	}

	return os.WriteFile(filepath.Join(string(dir), indexFileName), data, 0o600)
}

func reportFiles(dir m.Path) ([]string, error) {
	entries, err := os.ReadDir(string(dir))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}

		return nil, fmt.Errorf("read reports dir: %w", err)
	}

	var names []string

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || name == indexFileName || !strings.HasSuffix(name, ".yaml") {
			continue
		}

		names = append(names, name)
	}

	sort.Strings(names)

	return names, nil
}
