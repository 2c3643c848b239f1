package cmd

import (
	"github.com/spf13/cobra"
)

const listLongDescription = `List the registered migrations with the file extensions they apply to.`

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List available migrations",
		Long:  listLongDescription,
		Args:  cobra.ExactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			return workflow.List()
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
