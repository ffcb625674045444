// Package server hosts the InsightIDR tools over MCP JSON-RPC on stdio.
package server

import (
	"context"
	"errors"
	"io"
	"log"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/tphakala/go-insightidr/internal/logging"
	"github.com/tphakala/go-insightidr/internal/tools"
)

// Name is the server name announced during initialization.
const Name = "insightidr-mcp"

// Server is an MCP server exposing one Toolset.
type Server struct {
	mcp    *server.MCPServer
	logger zerolog.Logger
}

// New registers every tool of ts and the static LEQL resources.
func New(ts *tools.Toolset, version string, logger zerolog.Logger) *Server {
	s := server.NewMCPServer(Name, version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
	)

	toolset := ts.Tools()
	s.AddTools(toolset...)

	resources := tools.Resources()
	for _, r := range resources {
		s.AddResource(r.Resource, r.Handler)
	}

	logger = logging.Component(logger, "server")
	logger.Info().Int("tools", len(toolset)).Int("resources", len(resources)).Msg("server ready")

	return &Server{mcp: s, logger: logger}
}

// MCP returns the underlying protocol server.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// ServeStdio reads requests from in and writes responses to out until in is
// exhausted or ctx is cancelled. Cancellation is not reported as an error.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	stdio := server.NewStdioServer(s.mcp)
	stdio.SetErrorLogger(log.New(s.logger.With().Str("source", "stdio").Logger(), "", 0))

	s.logger.Info().Msg("serving on stdio")
	err := stdio.Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return err
	}
	s.logger.Info().Msg("stdio closed")
	return nil
}
