package mcp

import (
	"context"

	"quote-risk/internal/config"
	"quote-risk/internal/simulation"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

// ServerName is reported to clients during initialization.
const ServerName = "quote-risk"

// Server holds the state for the MCP server.
type Server struct {
	cfg    *config.AppConfig
	engine *simulation.Engine
	mcp    *sdk.Server
}

// NewServer creates a new MCP server with every tool registered.
func NewServer(cfg *config.AppConfig, version string) *Server {
	s := &Server{
		cfg:    cfg,
		engine: cfg.Simulation.NewEngine(),
		mcp:    sdk.NewServer(&sdk.Implementation{Name: ServerName, Version: version}, nil),
	}
	s.registerTools()
	return s
}

// Serve runs the MCP session over stdio until the client disconnects or ctx
// is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	log.Info().Str("server", ServerName).Msg("Serving MCP over stdio")
	return s.mcp.Run(ctx, &sdk.StdioTransport{})
}

// Connect attaches the server to an arbitrary transport.
func (s *Server) Connect(ctx context.Context, t sdk.Transport) (*sdk.ServerSession, error) {
	return s.mcp.Connect(ctx, t, nil)
}
