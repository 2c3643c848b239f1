package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mouse-blink/polaris-migrator/internal/harness"
)

const checkLongDescription = `Verify a migration against a directory of fixtures.

Every sub-directory of <dir> holding input<ext> and output<ext> is a fixture.
The input is migrated and compared with the output, ignoring surrounding
whitespace. Fixtures whose name contains "with-namespace" run with --namespace.`

// errCheckFailed is returned when at least one fixture does not match.
var errCheckFailed = errors.New("fixture check failed")

var checkExtensionFlag string
var checkNamespaceFlag string

// checkCmd represents the check command.
var checkCmd = newCheckCmd()

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <migration> <dir>",
		Short: "Verify a migration against fixtures",
		Long:  checkLongDescription,
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			results, err := harness.NewRunner(registry).VerifyAll(args[1], args[0], checkExtensionFlag, checkNamespaceFlag)
			if err != nil {
				return err
			}

			if err := ui.Start(); err != nil {
				return err
			}
			defer ui.Close()

			ui.DisplayCheckResults(results)

			failed := 0

			for _, r := range results {
				if !r.Passed {
					failed++
				}
			}

			if failed > 0 {
				return fmt.Errorf("%w: %d of %d fixture(s)", errCheckFailed, failed, len(results))
			}

			return nil
		},
	}
	cmd.Flags().StringVarP(&checkExtensionFlag, "extension", "e", ".scss", "fixture file extension, including the dot")
	cmd.Flags().StringVarP(&checkNamespaceFlag, "namespace", "n", "", "namespace for with-namespace fixtures")

	return cmd
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
