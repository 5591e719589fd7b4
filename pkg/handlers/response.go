package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ekaya-inc/artifact-collector/pkg/apperrors"
	"github.com/ekaya-inc/artifact-collector/pkg/logging"
)

// ApiResponse is the envelope for every JSON API response.
type ApiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// WriteYAML writes a YAML response and returns any encoding error.
func WriteYAML(w http.ResponseWriter, statusCode int, data any) error {
	out, err := yaml.Marshal(data)
	if err != nil {
		return err
	}
	w.Header().Set("Content-Type", "application/yaml")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	_, err = w.Write(out)
	return err
}

// statusForError maps service errors onto HTTP status and error code.
func statusForError(err error) (int, string) {
	var storeErr *apperrors.StoreError
	switch {
	case apperrors.IsValidation(err):
		return http.StatusBadRequest, "invalid_request"
	case errors.Is(err, apperrors.ErrAlreadyCommitted):
		return http.StatusConflict, "already_inserted"
	case errors.Is(err, apperrors.ErrNotCollected):
		return http.StatusPreconditionFailed, "not_collected"
	case errors.Is(err, apperrors.ErrNotInserted):
		return http.StatusPreconditionFailed, "not_inserted"
	case apperrors.IsTransport(err):
		return http.StatusBadGateway, "upstream_error"
	case errors.As(err, &storeErr):
		return http.StatusInternalServerError, "store_error"
	case errors.Is(err, apperrors.ErrQueryFailed):
		return http.StatusInternalServerError, "query_failed"
	}
	return http.StatusInternalServerError, "internal_error"
}

// writeServiceError logs err when it is a server-side failure and writes the
// mapped error response. Messages are sanitized so the API key never leaks.
func writeServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	status, code := statusForError(err)
	message := logging.SanitizeError(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed",
			zap.String("code", code),
			zap.String("error", message))
	}
	if err := ErrorResponse(w, status, code, message); err != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
}
