package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/abhisek/fragebogen/internal/app"
	"github.com/abhisek/fragebogen/internal/definition"
	"github.com/abhisek/fragebogen/internal/diag"
)

var runCmd = &cobra.Command{
	Use:   "run <definition>",
	Short: "Run a questionnaire",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd, args)
	},
}

// runApp loads the definition, sets up diagnostics and launches the TUI.
func runApp(cmd *cobra.Command, args []string) error {
	cfg := resolveConfig(cmd, args)
	if err := cfg.Validate(); err != nil {
		return err
	}

	def, err := definition.Load(cfg.Definition)
	if err != nil {
		return err
	}

	// The terminal belongs to the UI; diagnostics only go to a file.
	var out io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	log := diag.New(out, diag.ParseLevel(cfg.LogLevel))
	diag.SetDefault(log)

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	session := uuid.NewString()
	log.Info("cmd.run", fmt.Sprintf("session %s, definition %s", session, cfg.Definition))

	return app.Run(app.Options{
		Config:     cfg,
		Definition: def,
		Log:        log,
		SessionID:  session,
	})
}
