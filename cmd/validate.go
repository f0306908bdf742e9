package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/fragebogen/internal/definition"
	"github.com/abhisek/fragebogen/internal/diag"
	"github.com/abhisek/fragebogen/internal/loop"
	"github.com/abhisek/fragebogen/internal/widgets"
)

var validateCmd = &cobra.Command{
	Use:   "validate <definition>",
	Short: "Check a questionnaire definition without running it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		def, err := definition.Load(args[0])
		if err != nil {
			return err
		}

		// Building catches item errors the schema cannot express.
		rec := diag.NewRecorder(nil)
		screens, err := definition.Build(def, definition.Deps{
			Widgets: widgets.Deps{Loop: loop.NewManual(), Log: rec},
		})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, e := range rec.Entries() {
			if e.Level >= diag.LevelWarn {
				fmt.Fprintf(out, "%s %s: %s\n", e.Level, e.Location, e.Message)
			}
		}
		fmt.Fprintf(out, "%s: %d screens, %d items\n", args[0], len(screens), def.ItemCount())
		if n := rec.Count(diag.LevelError); n > 0 {
			return fmt.Errorf("%d configuration errors", n)
		}
		return nil
	},
}
