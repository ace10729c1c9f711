package commands

import (
	"context"

	"quote-risk/internal/config"
	"quote-risk/internal/logging"
	"quote-risk/internal/mcp"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	// Version, Commit, and BuildDate are set at build time via ldflags.
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"

	verbose bool
	cfg     *config.AppConfig
)

var rootCmd = &cobra.Command{
	Use:   "quote-risk",
	Short: "Monte Carlo cost simulation for manufacturing quotes",
	Long: `quote-risk simulates the total cost of a manufacturing job under material,
labor, overtime and rework uncertainty and turns the distribution into
quoting recommendations. Without a subcommand it runs as an MCP server on stdio.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logging.Init(verbose)

		var err error
		cfg, err = config.Load()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to load configuration")
		}

		log.Debug().
			Str("version", Version).
			Str("commit", Commit).
			Str("buildDate", BuildDate).
			Str("command", cmd.Name()).
			Msg("quote-risk starting")
	},
	RunE: runMCP,
}

var serveMCPCmd = &cobra.Command{
	Use:   "serve-mcp",
	Short: "Run the MCP server on stdio",
	RunE:  runMCP,
}

func runMCP(cmd *cobra.Command, args []string) error {
	return mcp.NewServer(cfg, Version).Serve(cmd.Context())
}

// Execute runs the root command with ctx, which is cancelled on interrupt.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.Version = Version
	rootCmd.AddCommand(serveMCPCmd)
}
