package api

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// BatchHandler handles batch transport scoring requests.
type BatchHandler struct {
	deps Dependencies
}

// NewBatchHandler creates a new batch handler.
func NewBatchHandler(deps Dependencies) *BatchHandler {
	return &BatchHandler{deps: deps}
}

// HandleBatch handles POST /transport/batch requests. The response
// carries exactly one score per submitted job id.
func (h *BatchHandler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", fmt.Errorf("%w: %v", ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err)
		return
	}

	scores := h.deps.BatchTransport(r.Context(), req.Candidate, req.Jobs)
	writeJSON(w, http.StatusOK, map[string]any{"scores": scores})
}
