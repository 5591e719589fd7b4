package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/ekaya-inc/artifact-collector/pkg/models"
	"github.com/ekaya-inc/artifact-collector/pkg/repositories"
	"github.com/ekaya-inc/artifact-collector/pkg/services"
)

// QueryToolDeps contains dependencies for the canned query tools.
type QueryToolDeps struct {
	QueryService services.QueryService
	Repo         repositories.ArtifactRepository
	Logger       *zap.Logger
}

// RegisterQueryTools registers the read-only tools over the artifact store.
// They read whatever has been persisted, independent of any HTTP session.
func RegisterQueryTools(s *server.MCPServer, deps *QueryToolDeps) {
	registerListQueriesTool(s, deps)
	registerRunQueryTool(s, deps)
	registerArtifactColorsTool(s, deps)
	registerTableCountsTool(s, deps)
}

type listQueriesResult struct {
	Queries []models.CannedQuery `json:"queries"`
}

func registerListQueriesTool(s *server.MCPServer, deps *QueryToolDeps) {
	tool := mcp.NewTool(
		"list_queries",
		mcp.WithDescription(
			"List the canned analytical questions over the artifact tables. "+
				"Use run_query with a number to execute one; query 14 is artifact_colors.",
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return jsonResult(listQueriesResult{Queries: deps.QueryService.List()})
	})
}

func registerRunQueryTool(s *server.MCPServer, deps *QueryToolDeps) {
	tool := mcp.NewTool(
		"run_query",
		mcp.WithDescription("Run one canned query by catalog number and return its rows (max 1000)."),
		mcp.WithNumber(
			"number",
			mcp.Required(),
			mcp.Description("Catalog number from list_queries (1-25)"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		number, err := req.RequireInt("number")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}

		result, err := deps.QueryService.Run(ctx, number)
		if err != nil {
			if r, ok := resultForError(err); ok {
				return r, nil
			}
			deps.Logger.Error("run_query failed", zap.Int("number", number), zap.Error(err))
			return nil, fmt.Errorf("failed to run query %d: %w", number, err)
		}
		return jsonResult(result)
	})
}

func registerArtifactColorsTool(s *server.MCPServer, deps *QueryToolDeps) {
	tool := mcp.NewTool(
		"artifact_colors",
		mcp.WithDescription("List the hues and coverage percentages recorded for one artifact."),
		mcp.WithString(
			"artifact_id",
			mcp.Required(),
			mcp.Description("Numeric artifact id"),
		),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		artifactID, err := req.RequireString("artifact_id")
		if err != nil {
			return NewErrorResult("invalid_parameters", err.Error()), nil
		}

		result, err := deps.QueryService.RunArtifactColors(ctx, artifactID)
		if err != nil {
			if r, ok := resultForError(err); ok {
				return r, nil
			}
			deps.Logger.Error("artifact_colors failed", zap.Error(err))
			return nil, fmt.Errorf("failed to list artifact colors: %w", err)
		}
		return jsonResult(result)
	})
}

func registerTableCountsTool(s *server.MCPServer, deps *QueryToolDeps) {
	tool := mcp.NewTool(
		"table_counts",
		mcp.WithDescription("Return the row count of artifact_metadata, artifact_media and artifact_colors."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
		mcp.WithIdempotentHintAnnotation(true),
		mcp.WithOpenWorldHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		counts, err := deps.Repo.Counts(ctx)
		if err != nil {
			deps.Logger.Error("table_counts failed", zap.Error(err))
			return nil, fmt.Errorf("failed to count rows: %w", err)
		}
		return jsonResult(counts)
	})
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal result: %w", err)
	}
	return mcp.NewToolResultText(string(out)), nil
}
