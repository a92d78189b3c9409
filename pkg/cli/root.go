// Package cli contains the cobra commands of logctl.
package cli

import (
	"github.com/downfa11-org/boundlog/util"
	"github.com/spf13/cobra"
)

// NewRoot constructs the logctl command tree.
func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "logctl",
		Short:         "Inspect bounded NDJSON log files",
		Long:          "logctl reads log files written by boundlog without taking the writer's lock: tail, stats and compressed export.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level, _ := cmd.Flags().GetString("log-level")
			util.SetLevel(util.ParseLogLevel(level))
		},
	}
	root.PersistentFlags().String("log-level", "warn", "Diagnostics level: debug|info|warn|error")
	root.PersistentFlags().String("config", "", "YAML/JSON/TOML config file (default: $CONFIG_PATH)")

	root.AddCommand(
		newTailCommand(),
		newStatsCommand(),
		newExportCommand(),
	)
	return root
}
