// Package harnesstest adapts the fixture harness to go test.
package harnesstest

import (
	"testing"

	"github.com/mouse-blink/polaris-migrator/internal/harness"
)

// Check runs c with the built-in migrations and fails t on a mismatch.
// A missing fixture file stops the test.
func Check(t testing.TB, baseDir string, c harness.Case) {
	t.Helper()

	res, err := harness.Verify(baseDir, c)
	if err != nil {
		t.Fatalf("%s/%s: %v", c.Migration, c.Fixture, err)
		return
	}

	if !res.Passed {
		t.Errorf("%s/%s: output mismatch\n%s", c.Migration, c.Fixture, res.Diff)
	}
}
