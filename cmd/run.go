package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/polaris-migrator/internal/domain"
	m "github.com/mouse-blink/polaris-migrator/internal/model"
)

const runLongDescription = `Run a migration over the files matched by the given patterns.

Patterns are doublestar globs; directories and the Go-style "dir/..." suffix
expand to every file below them. Only files with an extension the migration
supports are touched. node_modules, .git and vendor are always excluded.

Examples:
  polaris-migrator run styles-replace-custom-property-motion 'src/**/*.{scss,tsx}'
  polaris-migrator run v9-scss-replace-breakpoints ./... --namespace legacy-polaris-v8
  polaris-migrator run styles-replace-custom-property src --replacement-maps maps.yaml --dry-run`

var runParallelFlag int
var runNamespaceFlag string
var runReplacementMapsFlag string
var runDryRunFlag bool
var runExcludeFlags []string

// runCmd represents the run command.
var runCmd = newRunCmd()

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <migration> <patterns...>",
		Short: "Run a migration",
		Long:  runLongDescription,
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()

			parallel := cfg.Parallel
			if flags.Changed("parallel") {
				parallel = runParallelFlag
			}

			namespace := cfg.Namespace
			if flags.Changed("namespace") {
				namespace = runNamespaceFlag
			}

			replacementMaps := cfg.ReplacementMaps
			if flags.Changed("replacement-maps") {
				replacementMaps = runReplacementMapsFlag
			}

			dryRun := cfg.DryRun
			if flags.Changed("dry-run") {
				dryRun = runDryRunFlag
			}

			exclude := append(append([]string{}, cfg.Exclude...), runExcludeFlags...)

			_, err := workflow.Run(cmd.Context(), domain.RunArgs{
				Migration: args[0],
				Patterns:  args[1:],
				Exclude:   exclude,
				Options: m.Options{
					Namespace:       namespace,
					ReplacementMaps: m.Path(replacementMaps),
				},
				Threads: parallel,
				DryRun:  dryRun,
				Reports: m.Path(reportsOutputDirFlag),
			})

			return err
		},
	}
	cmd.Flags().IntVarP(&runParallelFlag, "parallel", "p", 1, "number of files migrated in parallel")
	cmd.Flags().StringVarP(&runNamespaceFlag, "namespace", "n", "", "SCSS module namespace; replaces the file path when selecting replacements")
	cmd.Flags().StringVarP(&runReplacementMapsFlag, "replacement-maps", "m", "", "YAML replacement-map file for styles-replace-custom-property")
	cmd.Flags().BoolVarP(&runDryRunFlag, "dry-run", "d", false, "report changes without writing files")
	cmd.Flags().StringArrayVarP(&runExcludeFlags, "exclude", "x", nil, "exclude files matching a glob (can be repeated)")

	return cmd
}

func init() {
	rootCmd.AddCommand(runCmd)
}
