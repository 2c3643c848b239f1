package model

// MigrationInfo describes a registered migration for listings.
type MigrationInfo struct {
	Name        string
	Description string
	Extensions  []string
}

// CheckResult is the outcome of verifying one migration fixture.
type CheckResult struct {
	Migration string
	Fixture   string
	Passed    bool
	// Diff is a unified diff from expected to actual output on mismatch.
	Diff  string
	Error string
}
