package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/ekaya-inc/artifact-collector/pkg/models"
	"github.com/ekaya-inc/artifact-collector/pkg/services"
)

// RunQueryRequest is the optional body of POST /api/queries/{number}/run.
type RunQueryRequest struct {
	ArtifactID string `json:"artifact_id"`
}

// ListQueriesResponse wraps the canned query catalog.
type ListQueriesResponse struct {
	Queries []models.CannedQuery `json:"queries"`
}

// QueriesHandler exposes the canned query catalog.
type QueriesHandler struct {
	session *services.Session
	logger  *zap.Logger
}

// NewQueriesHandler creates a new queries handler.
func NewQueriesHandler(session *services.Session, logger *zap.Logger) *QueriesHandler {
	return &QueriesHandler{
		session: session,
		logger:  logger,
	}
}

// RegisterRoutes registers the queries handler's routes on the given mux.
func (h *QueriesHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/queries", h.List)
	mux.HandleFunc("POST /api/queries/{number}/run", h.Run)
}

// List handles GET /api/queries
func (h *QueriesHandler) List(w http.ResponseWriter, r *http.Request) {
	data := ListQueriesResponse{Queries: h.session.Queries()}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: data}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Run handles POST /api/queries/{number}/run
// The artifact colors query reads artifact_id from the body; others take no body.
func (h *QueriesHandler) Run(w http.ResponseWriter, r *http.Request) {
	number, ok := ParseQueryNumber(w, r, h.logger)
	if !ok {
		return
	}

	var (
		result *models.QueryResult
		err    error
	)
	if number == services.ArtifactColorsQuery {
		var req RunQueryRequest
		if !h.decodeOptional(w, r, &req) {
			return
		}
		result, err = h.session.RunArtifactColors(r.Context(), req.ArtifactID)
	} else {
		result, err = h.session.RunQuery(r.Context(), number)
	}
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: result}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// decodeOptional accepts an empty body as the zero value.
func (h *QueriesHandler) decodeOptional(w http.ResponseWriter, r *http.Request, dst *RunQueryRequest) bool {
	if r.Body == nil {
		return true
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<16))
	if err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return false
	}
	if len(body) == 0 {
		return true
	}
	if err := json.Unmarshal(body, dst); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			h.logger.Error("Failed to write error response", zap.Error(err))
		}
		return false
	}
	return true
}
