package commands

import (
	"quote-risk/internal/httpapi"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the simulation HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.HTTPAddr = addr
		}
		return httpapi.ListenAndServe(cmd.Context(), cfg)
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from QR_HTTP_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
