package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/abhisek/fragebogen/internal/definition"
)

// version is set via -ldflags at build time.
var version = "(devel)"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version and the supported definition format",
	Run: func(cmd *cobra.Command, args []string) {
		v := version
		if info, ok := debug.ReadBuildInfo(); ok && v == "(devel)" && info.Main.Version != "" {
			v = info.Main.Version
		}
		fmt.Fprintf(cmd.OutOrStdout(), "fragebogen %s (definitions %s)\n", v, definition.SupportedMajor)
	},
}
