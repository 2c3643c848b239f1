package controller

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	m "github.com/mouse-blink/polaris-migrator/internal/model"
)

var borderMigration = m.MigrationInfo{
	Name:        "v11-styles-replace-custom-property-border",
	Description: "Replace deprecated border-radius custom properties",
	Extensions:  []string{".css", ".scss"},
}

func TestNewUI(t *testing.T) {
	tests := []struct {
		name    string
		useTTY  bool
		wantTUI bool
	}{
		{"terminal gets the TUI", true, true},
		{"redirected output gets tables", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			cmd := &cobra.Command{}
			cmd.SetOut(&buf)

			ui := NewUI(cmd, tt.useTTY)

			_, isTUI := ui.(*TUI)
			_, isSimple := ui.(*SimpleUI)

			if isTUI != tt.wantTUI || isSimple == tt.wantTUI {
				t.Fatalf("NewUI(%v) returned %T", tt.useTTY, ui)
			}

			// Both renderers write the migration list to the command output.
			if err := ui.Start(); err != nil {
				t.Fatalf("Start() error: %v", err)
			}

			ui.DisplayMigrations([]m.MigrationInfo{borderMigration})
			ui.Close()

			if !bytes.Contains(buf.Bytes(), []byte(borderMigration.Name)) {
				t.Errorf("output does not list %s:\n%s", borderMigration.Name, buf.String())
			}
		})
	}
}

func TestIsTTY(t *testing.T) {
	regular, err := os.Create(filepath.Join(t.TempDir(), "report.txt"))
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	defer regular.Close()

	closed, err := os.Create(filepath.Join(t.TempDir(), "closed.txt"))
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	closed.Close()

	if IsTTY(regular) {
		t.Error("IsTTY(regular file) = true, want false")
	}

	if IsTTY(closed) {
		t.Error("IsTTY(closed file) = true, want false")
	}

	if IsTTY(&bytes.Buffer{}) {
		t.Error("IsTTY(buffer) = true, want false")
	}

	devNull, err := os.Open(os.DevNull)
	if err != nil {
		t.Skipf("%s not available", os.DevNull)
	}
	defer devNull.Close()

	if !IsTTY(devNull) {
		t.Errorf("IsTTY(%s) = false, want true", os.DevNull)
	}
}
