package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/artifact-collector/pkg/mcp/tools"
)

// Server wraps the mcp-go MCPServer that exposes the artifact store to agents.
type Server struct {
	mcp    *server.MCPServer
	logger *zap.Logger
}

// NewServer creates a new MCP server instance.
func NewServer(name, version string, logger *zap.Logger) *Server {
	mcpServer := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
	)

	return &Server{
		mcp:    mcpServer,
		logger: logger.Named("mcp"),
	}
}

// NewArtifactServer creates a server with the health and query tools registered.
func NewArtifactServer(version string, store tools.Pinger, deps *tools.QueryToolDeps, logger *zap.Logger) *Server {
	s := NewServer("artifact-collector", version, logger)
	tools.RegisterHealthTool(s.mcp, version, store)
	tools.RegisterQueryTools(s.mcp, deps)
	s.logger.Info("MCP tools registered",
		zap.Strings("tools", []string{"health", "list_queries", "run_query", "artifact_colors", "table_counts"}))
	return s
}

// MCP returns the underlying MCPServer for tool registration.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// NewStreamableHTTPServer creates an HTTP transport server wrapping this MCP server.
// The HTTP mux handles routing to /mcp, so no endpoint path is configured here.
func (s *Server) NewStreamableHTTPServer() *server.StreamableHTTPServer {
	return server.NewStreamableHTTPServer(
		s.mcp,
		server.WithStateLess(true),
	)
}

// RegisterTool is a convenience wrapper for registering a tool.
func (s *Server) RegisterTool(tool mcp.Tool, handler server.ToolHandlerFunc) {
	s.mcp.AddTool(tool, handler)
}
