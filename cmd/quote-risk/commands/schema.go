package commands

import (
	"fmt"

	"quote-risk/internal/jobfile"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON Schema of a job file",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := jobfile.SchemaJSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	},
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}
