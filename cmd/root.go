package cmd

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/fragebogen/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "fragebogen",
	Short: "Run questionnaires in the terminal",
	Long:  "fragebogen runs screen-based questionnaires defined in YAML and exports the answers as CSV or XLSX.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("log", "", "Write diagnostics to this file (overrides FRAGEBOGEN_LOG)")
	rootCmd.PersistentFlags().String("log-level", "", "Diagnostics level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("output", "", "Directory download screens write to (overrides FRAGEBOGEN_OUTPUT_DIR)")
	rootCmd.PersistentFlags().Duration("settle", 0, "Pause between preloading and the first screen")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveConfig returns the configuration from the environment with flags
// and the definition argument applied on top.
func resolveConfig(cmd *cobra.Command, args []string) config.Config {
	cfg := config.ConfigFromEnv()
	if len(args) > 0 {
		cfg.Definition = args[0]
	}
	if p, _ := cmd.Flags().GetString("log"); p != "" {
		cfg.LogFile = p
	}
	if l, _ := cmd.Flags().GetString("log-level"); l != "" {
		cfg.LogLevel = l
	}
	if d, _ := cmd.Flags().GetString("output"); d != "" {
		cfg.OutputDir = d
	}
	if cmd.Flags().Changed("settle") {
		d, _ := cmd.Flags().GetDuration("settle")
		cfg.SettleDelay = max(d, time.Duration(0))
	}
	return cfg
}
