package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Pinger reports whether the artifact store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type healthResult struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Store   string `json:"store"`
}

// RegisterHealthTool adds a health check tool to the MCP server.
// The tool returns the server status, version and store reachability.
func RegisterHealthTool(s *server.MCPServer, version string, store Pinger) {
	tool := mcp.NewTool(
		"health",
		mcp.WithDescription("Returns server health status and version"),
		mcp.WithReadOnlyHintAnnotation(true),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		h := healthResult{Status: "ok", Version: version, Store: "ok"}
		if store != nil {
			pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			defer cancel()
			if err := store.PingContext(pingCtx); err != nil {
				h.Status = "degraded"
				h.Store = "unreachable"
			}
		}
		result, err := json.Marshal(h)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal health result: %w", err)
		}
		return mcp.NewToolResultText(string(result)), nil
	})
}
