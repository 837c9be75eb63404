// Package mcp exposes a rhinodoc.QueryService as a Model Context Protocol
// server with search, class and example tools plus one resource per
// namespace.
package mcp

import (
	"context"
	"io"
	"log/slog"

	"github.com/fwojciec/rhinodoc"
	"github.com/mark3labs/mcp-go/server"
)

const (
	// ServerName is the MCP server name.
	ServerName = "rhinocommon"
	// ServerVersion is the current server version.
	ServerVersion = "1.0.0"
)

// Server wraps the MCP server around a query service.
type Server struct {
	mcp    *server.MCPServer
	svc    rhinodoc.QueryService
	logger *slog.Logger
}

// NewServer creates a server answering from svc and registers its tools
// and resources. Namespace resources are fixed at construction.
func NewServer(svc rhinodoc.QueryService, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	s := &Server{
		mcp: server.NewMCPServer(
			ServerName,
			ServerVersion,
			server.WithToolCapabilities(false),
			server.WithResourceCapabilities(false, false),
			server.WithRecovery(),
		),
		svc:    svc,
		logger: logger,
	}
	s.registerTools()
	s.registerResources()
	return s
}

// Serve speaks MCP over in and out until ctx is done or in is closed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Info("serving MCP", "namespaces", len(s.svc.Namespaces()))
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

func (s *Server) registerTools() {
	s.mcp.AddTool(searchTool(), s.handleSearch)
	s.mcp.AddTool(classDetailsTool(), s.handleClassDetails)
	s.mcp.AddTool(examplesTool(), s.handleExamples)
}

func (s *Server) registerResources() {
	for _, ns := range s.svc.Namespaces() {
		s.mcp.AddResource(namespaceResource(ns), s.handleNamespaceResource)
	}
	s.mcp.AddResourceTemplate(namespaceTemplate(), s.handleNamespaceResource)
}
