package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/MaTTalv001/ICH-RAG/internal/contextutil"
	"github.com/MaTTalv001/ICH-RAG/internal/rag"
)

// SourcesHandler handles HTTP requests for citation lookup without answer
// generation.
type SourcesHandler struct {
	engine rag.Engine
}

// NewSourcesHandler creates a new SourcesHandler.
func NewSourcesHandler(engine rag.Engine) *SourcesHandler {
	return &SourcesHandler{engine: engine}
}

// SourcesRequest represents the HTTP request payload for citation lookup.
type SourcesRequest struct {
	Question string `json:"question"`
	K        int    `json:"k,omitempty"`
}

// SourcesResponse represents the HTTP response payload for citation lookup.
type SourcesResponse struct {
	Sources []SourceResponse `json:"sources"`
}

// ServeHTTP returns the deduplicated citations for a question.
func (h *SourcesHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req SourcesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Question == "" {
		logger.WarnContext(ctx, "empty question in request")
		writeError(w, http.StatusBadRequest, "Question is required")
		return
	}

	if req.K < 0 {
		req.K = 0
	}
	if req.K > maxK {
		req.K = maxK
	}

	sources, err := h.engine.Sources(ctx, req.Question, req.K)
	if err != nil {
		handleEngineError(w, ctx, err, "Failed to look up sources")
		return
	}

	writeJSON(ctx, w, SourcesResponse{Sources: toSourceResponses(sources)})
}
