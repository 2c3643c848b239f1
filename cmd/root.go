// Package cmd provides the root command and CLI setup for polaris-migrator.
package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/mouse-blink/polaris-migrator/internal/adapter"
	"github.com/mouse-blink/polaris-migrator/internal/config"
	"github.com/mouse-blink/polaris-migrator/internal/controller"
	"github.com/mouse-blink/polaris-migrator/internal/domain"
	"github.com/mouse-blink/polaris-migrator/internal/logging"
)

var fsAdapter adapter.SourceFSAdapter
var reportStore adapter.ReportStore
var syntaxAdapter adapter.SyntaxAdapter
var registry *domain.Registry
var workflow domain.Workflow
var ui controller.UI

// cfg is loaded before every command runs.
var cfg = defaultConfig()

func init() {
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	reportStore = adapter.NewReportStore()
	syntaxAdapter = adapter.NewLocalSyntaxAdapter()
	registry = domain.DefaultRegistry()
	workflow = domain.NewWorkflow(
		fsAdapter,
		reportStore,
		syntaxAdapter,
		ui,
		registry,
	)
}

var configFlag string
var verboseFlag int
var reportsOutputDirFlag string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "polaris-migrator",
		Short: "Codemods for Polaris design system upgrades",
		Long: `polaris-migrator rewrites stylesheets and scripts that reference
deprecated design tokens and mixins.

Each migration renames custom properties or replaces SCSS mixins according to
a replacement map. Positions that cannot be rewritten safely are reported as
warnings and left untouched.

Settings are read from .polaris-migrator.toml (or --config), then from
POLARIS_MIGRATOR_* environment variables. Flags override both.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load(configFlag)
			if err != nil {
				return err
			}

			cfg = loaded

			verbosity := max(cfg.Verbosity, verboseFlag)
			logging.SetupLogger(verbosity)

			if !cmd.Flags().Changed("reports") {
				reportsOutputDirFlag = cfg.Reports
			}

			return nil
		},
	}
	cmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "path to a TOML config file (default "+config.FileName+" if present)")
	cmd.PersistentFlags().CountVarP(&verboseFlag, "verbose", "v", "increase log verbosity (-v info, -vv debug, -vvv trace)")
	cmd.PersistentFlags().StringVarP(&reportsOutputDirFlag, "reports", "r", config.DefaultReports, "directory for run reports")

	return cmd
}

func defaultConfig() *config.Config {
	return &config.Config{Parallel: 1, Reports: config.DefaultReports}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		stop()
		os.Exit(1)
	}
}
