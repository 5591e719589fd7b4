package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jinzhu/inflection"
	"go.uber.org/zap"

	"github.com/ekaya-inc/artifact-collector/pkg/apperrors"
	"github.com/ekaya-inc/artifact-collector/pkg/models"
	"github.com/ekaya-inc/artifact-collector/pkg/services"
)

var validate = validator.New()

// CollectRequest is the body of POST /api/collect.
type CollectRequest struct {
	Classification string `json:"classification" validate:"required"`
	Limit          int    `json:"limit" validate:"gte=0,lte=100000"`
}

// ViewRequest is the body of PUT /api/view.
type ViewRequest struct {
	View string `json:"view" validate:"required"`
}

// BatchSummary describes the current batch without its rows.
type BatchSummary struct {
	ID             string    `json:"id"`
	Classification string    `json:"classification"`
	FetchedAt      time.Time `json:"fetched_at"`
	PagesFetched   int       `json:"pages_fetched"`
	Skipped        int       `json:"skipped"`
	Metadata       int       `json:"metadata"`
	Media          int       `json:"media"`
	Colors         int       `json:"colors"`
}

// StateResponse is the body of GET /api/state.
type StateResponse struct {
	View      services.View `json:"view"`
	Collected bool          `json:"collected"`
	Inserted  bool          `json:"inserted"`
	Batch     *BatchSummary `json:"batch,omitempty"`
	Committed []string      `json:"committed"`
}

func summarize(b *models.Batch) *BatchSummary {
	if b == nil {
		return nil
	}
	return &BatchSummary{
		ID:             b.ID.String(),
		Classification: b.Classification,
		FetchedAt:      b.FetchedAt,
		PagesFetched:   b.PagesFetched,
		Skipped:        b.Skipped,
		Metadata:       len(b.Metadata),
		Media:          len(b.Media),
		Colors:         len(b.Colors),
	}
}

// ArtifactsHandler exposes the collect, preview and insert workflow.
type ArtifactsHandler struct {
	session *services.Session
	logger  *zap.Logger
}

// NewArtifactsHandler creates a new artifacts handler.
func NewArtifactsHandler(session *services.Session, logger *zap.Logger) *ArtifactsHandler {
	return &ArtifactsHandler{
		session: session,
		logger:  logger,
	}
}

// RegisterRoutes registers the artifacts handler's routes on the given mux.
func (h *ArtifactsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/state", h.State)
	mux.HandleFunc("PUT /api/view", h.SetView)
	mux.HandleFunc("POST /api/collect", h.Collect)
	mux.HandleFunc("GET /api/collected", h.Collected)
	mux.HandleFunc("GET /api/collected/raw", h.CollectedRaw)
	mux.HandleFunc("POST /api/insert", h.Insert)
	mux.HandleFunc("GET /api/tables", h.Tables)
}

// State handles GET /api/state
func (h *ArtifactsHandler) State(w http.ResponseWriter, r *http.Request) {
	snap := h.session.Snapshot()
	data := StateResponse{
		View:      snap.View,
		Collected: snap.Collected,
		Inserted:  snap.Inserted,
		Batch:     summarize(snap.Batch),
		Committed: snap.Committed,
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: data}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// SetView handles PUT /api/view
func (h *ArtifactsHandler) SetView(w http.ResponseWriter, r *http.Request) {
	var req ViewRequest
	if !h.decode(w, r, &req) {
		return
	}
	view, err := services.ParseView(req.View)
	if err == nil {
		err = h.session.SelectView(view)
	}
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: map[string]string{"view": string(view)}}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Collect handles POST /api/collect
func (h *ArtifactsHandler) Collect(w http.ResponseWriter, r *http.Request) {
	var req CollectRequest
	if !h.decode(w, r, &req) {
		return
	}

	batch, err := h.session.Collect(r.Context(), req.Classification, req.Limit)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	response := ApiResponse{
		Success: true,
		Data:    summarize(batch),
		Message: fmt.Sprintf("Collected %s for '%s'", countLabel(len(batch.Metadata), "record"), batch.Classification),
	}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Collected handles GET /api/collected?format=json|yaml
// Returns the current batch as its three tables.
func (h *ArtifactsHandler) Collected(w http.ResponseWriter, r *http.Request) {
	snap := h.session.Snapshot()
	if !snap.Collected || snap.Batch == nil {
		writeServiceError(w, apperrors.ErrNotCollected, h.logger)
		return
	}

	switch format := r.URL.Query().Get("format"); format {
	case "", "json":
		if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: snap.Batch}); err != nil {
			h.logger.Error("Failed to write response", zap.Error(err))
		}
	case "yaml":
		if err := WriteYAML(w, http.StatusOK, snap.Batch); err != nil {
			h.logger.Error("Failed to write response", zap.Error(err))
		}
	default:
		writeServiceError(w, apperrors.NewValidationError("format", "must be json or yaml"), h.logger)
	}
}

// CollectedRaw handles GET /api/collected/raw
// Returns the API records of the current batch as received.
func (h *ArtifactsHandler) CollectedRaw(w http.ResponseWriter, r *http.Request) {
	snap := h.session.Snapshot()
	if !snap.Collected || snap.Batch == nil {
		writeServiceError(w, apperrors.ErrNotCollected, h.logger)
		return
	}
	records := snap.Batch.Raw
	if records == nil {
		records = []json.RawMessage{}
	}
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: records}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Insert handles POST /api/insert
func (h *ArtifactsHandler) Insert(w http.ResponseWriter, r *http.Request) {
	result, err := h.session.Insert(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	response := ApiResponse{Success: true, Data: result, Message: result.Message}
	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// Tables handles GET /api/tables
// Returns every batch inserted this session, deduplicated per table.
func (h *ArtifactsHandler) Tables(w http.ResponseWriter, r *http.Request) {
	snap := h.session.Snapshot()
	if err := WriteJSON(w, http.StatusOK, ApiResponse{Success: true, Data: snap.Combined}); err != nil {
		h.logger.Error("Failed to write response", zap.Error(err))
	}
}

// decode reads and validates a JSON body into dst, writing a 400 on failure.
func (h *ArtifactsHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	return decodeRequest(w, r, dst, h.logger)
}

func decodeRequest(w http.ResponseWriter, r *http.Request, dst any, logger *zap.Logger) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", "Invalid request body"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return false
	}
	if err := validate.Struct(dst); err != nil {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_request", err.Error()); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return false
	}
	return true
}

func countLabel(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %s", n, inflection.Plural(noun))
}
