package cmd

import (
	"github.com/spf13/cobra"

	m "github.com/mouse-blink/polaris-migrator/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view",
		Short: "View previous migration runs",
		Long:  "View the run reports saved in the reports directory.",
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			return workflow.View(m.Path(reportsOutputDirFlag))
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
