package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ekaya-inc/artifact-collector/pkg/apperrors"
)

func TestErrorResponse(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		errorCode  string
		message    string
	}{
		{"bad request", http.StatusBadRequest, "invalid_request", "invalid classification: must not be empty"},
		{"conflict", http.StatusConflict, "already_inserted", "classification already inserted"},
		{"bad gateway", http.StatusBadGateway, "upstream_error", "fetch page 1: timeout"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()

			require.NoError(t, ErrorResponse(w, tt.statusCode, tt.errorCode, tt.message))

			resp := w.Result()
			defer resp.Body.Close()

			assert.Equal(t, tt.statusCode, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tt.errorCode, body["error"])
			assert.Equal(t, tt.message, body["message"])
		})
	}
}

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	require.NoError(t, WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]int{"rows": 3}}))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true,"data":{"rows":3}}`, w.Body.String())

	w = httptest.NewRecorder()
	require.NoError(t, WriteJSON(w, http.StatusCreated, ApiResponse{Success: true}))
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestWriteYAML(t *testing.T) {
	w := httptest.NewRecorder()
	require.NoError(t, WriteYAML(w, http.StatusOK, map[string]any{"classification": "Coins", "pages": 2}))
	assert.Equal(t, "application/yaml", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "classification: Coins")
	assert.Contains(t, w.Body.String(), "pages: 2")
}

func TestStatusForError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", apperrors.NewValidationError("artifact_id", "must be a non-negative integer"), http.StatusBadRequest, "invalid_request"},
		{"already committed", fmt.Errorf("classification %q: %w", "Coins", apperrors.ErrAlreadyCommitted), http.StatusConflict, "already_inserted"},
		{"not collected", apperrors.ErrNotCollected, http.StatusPreconditionFailed, "not_collected"},
		{"not inserted", apperrors.ErrNotInserted, http.StatusPreconditionFailed, "not_inserted"},
		{"transport", fmt.Errorf("collect: %w", &apperrors.TransportError{Op: "fetch page 1", StatusCode: 503, Err: errors.New("down")}), http.StatusBadGateway, "upstream_error"},
		{"store", &apperrors.StoreError{Table: "artifact_colors", Err: errors.New("locked")}, http.StatusInternalServerError, "store_error"},
		{"query", &apperrors.QueryError{Query: "q", Err: errors.New("syntax")}, http.StatusInternalServerError, "query_failed"},
		{"other", errors.New("boom"), http.StatusInternalServerError, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code := statusForError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestWriteServiceError_RedactsAPIKey(t *testing.T) {
	err := &apperrors.TransportError{
		Op:  "fetch page 1",
		Err: errors.New(`Get "https://api.example.org/object?apikey=secret-123&page=1": dial tcp: timeout`),
	}
	w := httptest.NewRecorder()

	writeServiceError(w, err, zap.NewNop())

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.False(t, strings.Contains(w.Body.String(), "secret-123"), w.Body.String())
}
