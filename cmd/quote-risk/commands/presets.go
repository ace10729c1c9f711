package commands

import (
	"fmt"
	"text/tabwriter"

	"quote-risk/internal/jobfile"

	"github.com/spf13/cobra"
)

var presetsCmd = &cobra.Command{
	Use:   "presets [name]",
	Short: "List built-in job presets, or print one as YAML",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		if len(args) == 1 {
			preset, ok := jobfile.Lookup(args[0])
			if !ok {
				return fmt.Errorf("unknown preset %q", args[0])
			}
			return jobfile.Write(out, preset.Parameters)
		}

		tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tDESCRIPTION")
		for _, p := range jobfile.Presets() {
			fmt.Fprintf(tw, "%s\t%s\n", p.Name, p.Description)
		}
		return tw.Flush()
	},
}

func init() {
	rootCmd.AddCommand(presetsCmd)
}
