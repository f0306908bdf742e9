package cmd

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/abhisek/fragebogen/internal/definition"
)

var schemaCmd = &cobra.Command{
	Use:   "export-schema",
	Short: "Print the JSON schema of questionnaire definitions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(definition.Schema())
	},
}
