package tools

import (
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/ekaya-inc/artifact-collector/pkg/apperrors"
	"github.com/ekaya-inc/artifact-collector/pkg/logging"
)

// ErrorResponse represents a structured error in tool results.
// Returning it as a tool result keeps the message visible to the client
// instead of collapsing into a protocol error.
type ErrorResponse struct {
	Error   bool   `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResult creates a tool result containing a structured error.
// Use this for errors the caller can act on (bad parameters, failing SQL);
// store outages still return Go errors.
func NewErrorResult(code, message string) *mcp.CallToolResult {
	resp := ErrorResponse{
		Error:   true,
		Code:    code,
		Message: message,
	}
	jsonBytes, _ := json.Marshal(resp)
	result := mcp.NewToolResultText(string(jsonBytes))
	result.IsError = true
	return result
}

// resultForError converts a service error into a structured tool result when
// the caller can act on it. ok is false for errors that should propagate.
func resultForError(err error) (result *mcp.CallToolResult, ok bool) {
	switch {
	case apperrors.IsValidation(err):
		return NewErrorResult("invalid_parameters", err.Error()), true
	case errors.Is(err, apperrors.ErrQueryFailed):
		return NewErrorResult("query_error", logging.SanitizeError(err)), true
	}
	return nil, false
}
