package cmd

import (
	"bytes"
	"testing"

	"github.com/adrg/xdg"
	"github.com/spf13/cobra"

	"github.com/mouse-blink/polaris-migrator/internal/controller"
	domainmocks "github.com/mouse-blink/polaris-migrator/internal/domain/mocks"
)

// newTestRoot returns a fresh command tree writing to a buffer, with the
// global workflow replaced by a mock and a plain UI on the buffer.
func newTestRoot(t *testing.T, sub ...*cobra.Command) (*cobra.Command, *domainmocks.MockWorkflow, *bytes.Buffer) {
	t.Helper()

	t.Setenv("XDG_STATE_HOME", t.TempDir())
	xdg.Reload()
	t.Chdir(t.TempDir())

	var out bytes.Buffer

	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)

	for _, c := range sub {
		cmd.AddCommand(c)
	}

	mockWorkflow := domainmocks.NewMockWorkflow(t)

	originalWorkflow, originalUI, originalCfg := workflow, ui, cfg
	workflow = mockWorkflow
	ui = controller.NewSimpleUI(cmd)

	t.Cleanup(func() {
		workflow, ui, cfg = originalWorkflow, originalUI, originalCfg
		reportsOutputDirFlag = ""
		verboseFlag = 0
		configFlag = ""
		xdg.Reload()
	})

	return cmd, mockWorkflow, &out
}
