package adapter

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	m "github.com/mouse-blink/polaris-migrator/internal/model"
)

func sampleReport(migration string, startedAt time.Time) m.Report {
	files := []m.FileResult{
		{Path: "src/a.scss", Status: m.StatusChanged, Edits: 2},
		{
			Path:   "src/b.css",
			Status: m.StatusUnmodified,
			Skips:  []m.Skip{{Line: 3, Column: 5, Text: "--p-duration-0", Reason: "literal replacement outside var()"}},
		},
		{Path: "src/c.tsx", Status: m.StatusFailed, Error: "parse error: src/c.tsx:1:7: syntax error"},
	}

	var summary m.Summary
	for _, f := range files {
		summary.Add(f)
	}

	return m.Report{
		Migration: migration,
		Options:   m.Options{Namespace: "legacy-polaris-v8"},
		StartedAt: startedAt,
		Duration:  "12ms",
		Summary:   summary,
		Files:     files,
	}
}

func TestLocalReportStore_SaveReport_WritesHashedYAML(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rs := &LocalReportStore{}

	report := sampleReport("styles-replace-custom-property-motion", time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))

	path, err := rs.SaveReport(m.Path(dir), report)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, rs.computeReportHash(report)+".yaml"), string(path))
	assert.Regexp(t, regexp.MustCompile(`^[0-9a-f]{16}\.yaml$`), filepath.Base(string(path)))

	data, err := os.ReadFile(string(path))
	require.NoError(t, err)

	var decoded m.Report
	require.NoError(t, yaml.Unmarshal(data, &decoded))

	assert.Equal(t, report.Migration, decoded.Migration)
	assert.Equal(t, "legacy-polaris-v8", decoded.Options.Namespace)
	assert.Equal(t, report.Summary, decoded.Summary)
	require.Len(t, decoded.Files, 3)
	assert.Equal(t, "--p-duration-0", decoded.Files[1].Skips[0].Text)
	assert.Equal(t, m.StatusFailed, decoded.Files[2].Status)
}

func TestLocalReportStore_SaveReport_CreatesMissingDir(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested", "reports")
	rs := &LocalReportStore{}

	_, err := rs.SaveReport(m.Path(dir), sampleReport("x", time.Now()))
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestLocalReportStore_LoadReports(t *testing.T) {
	t.Parallel()

	t.Run("missing dir holds no reports", func(t *testing.T) {
		t.Parallel()

		rs := &LocalReportStore{}
		reports, err := rs.LoadReports(m.Path(filepath.Join(t.TempDir(), "nope")))
		require.NoError(t, err)
		assert.Empty(t, reports)
	})

	t.Run("reports come back oldest first and index is ignored", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		rs := &LocalReportStore{}

		newer := sampleReport("v9-scss-replace-breakpoints", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))
		older := sampleReport("styles-replace-custom-property-motion", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))

		_, err := rs.SaveReport(m.Path(dir), newer)
		require.NoError(t, err)
		_, err = rs.SaveReport(m.Path(dir), older)
		require.NoError(t, err)
		require.NoError(t, rs.RegenerateIndex(m.Path(dir)))

		reports, err := rs.LoadReports(m.Path(dir))
		require.NoError(t, err)
		require.Len(t, reports, 2)
		assert.Equal(t, older.Migration, reports[0].Migration)
		assert.Equal(t, newer.Migration, reports[1].Migration)
	})

	t.Run("corrupt report is an error", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("files: [unterminated"), 0o600))

		rs := &LocalReportStore{}
		_, err := rs.LoadReports(m.Path(dir))
		require.Error(t, err)
	})
}

func TestLocalReportStore_RegenerateIndex(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	rs := &LocalReportStore{}

	first := sampleReport("styles-replace-custom-property-motion", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	second := sampleReport("v11-styles-replace-custom-property-border", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	second.DryRun = true

	_, err := rs.SaveReport(m.Path(dir), first)
	require.NoError(t, err)

	indexPath := filepath.Join(dir, indexFileName)
	_, err = os.Stat(indexPath)
	require.True(t, os.IsNotExist(err), "index must not exist before RegenerateIndex")

	_, err = rs.SaveReport(m.Path(dir), second)
	require.NoError(t, err)
	require.NoError(t, rs.RegenerateIndex(m.Path(dir)))

	data, err := os.ReadFile(indexPath)
	require.NoError(t, err)

	var idx index
	require.NoError(t, yaml.Unmarshal(data, &idx))

	require.Len(t, idx.Runs, 2)
	assert.Equal(t, first.Migration, idx.Runs[0].Migration)
	assert.Equal(t, rs.computeReportHash(first)+".yaml", idx.Runs[0].File)
	assert.True(t, idx.Runs[1].DryRun)
	assert.Equal(t, 2, idx.Total.Changed)
	assert.Equal(t, 2, idx.Total.Unmodified)
	assert.Equal(t, 2, idx.Total.Failed)
	assert.Equal(t, 2, idx.Total.Warnings)
}

func TestLocalReportStore_ComputeReportHash(t *testing.T) {
	t.Parallel()

	rs := &LocalReportStore{}
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	a := sampleReport("one", at)
	b := sampleReport("one", at)
	c := sampleReport("two", at)

	assert.Equal(t, rs.computeReportHash(a), rs.computeReportHash(b))
	assert.NotEqual(t, rs.computeReportHash(a), rs.computeReportHash(c))
	assert.Len(t, rs.computeReportHash(a), 16)
}
