package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// ParseQueryNumber extracts the catalog number from the request path.
// Returns the number and true on success, or 0 and false on error
// (after writing an error response).
// Expects path parameter: number
func ParseQueryNumber(w http.ResponseWriter, r *http.Request, logger *zap.Logger) (int, bool) {
	raw := r.PathValue("number")
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		if err := ErrorResponse(w, http.StatusBadRequest, "invalid_query_number", "Invalid query number"); err != nil {
			logger.Error("Failed to write error response", zap.Error(err))
		}
		return 0, false
	}
	return n, true
}
