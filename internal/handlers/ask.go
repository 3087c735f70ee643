package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/MaTTalv001/ICH-RAG/internal/contextutil"
	"github.com/MaTTalv001/ICH-RAG/internal/rag"
)

// maxK bounds the user-provided chunk count.
const maxK = 20

// AskHandler handles HTTP requests for grounded QA queries.
type AskHandler struct {
	engine rag.Engine
}

// NewAskHandler creates a new AskHandler.
func NewAskHandler(engine rag.Engine) *AskHandler {
	return &AskHandler{engine: engine}
}

// AskRequest represents the HTTP request payload for QA queries.
// This mirrors rag.AskRequest but is defined here for HTTP layer separation.
type AskRequest struct {
	Question string `json:"question"`
	K        int    `json:"k,omitempty"`
}

// AskResponse represents the HTTP response payload for QA queries.
type AskResponse struct {
	// The generated answer.
	Answer string `json:"answer"`
	// Deduplicated citations for the retrieved context.
	Sources []SourceResponse `json:"sources"`
}

// SourceResponse represents one citation in the HTTP response.
type SourceResponse struct {
	Title    string `json:"title"`
	Code     string `json:"code"`
	Category string `json:"category"`
	// SourceFile is omitted when no link is available.
	SourceFile string `json:"source_file,omitempty"`
	Preview    string `json:"preview"`
}

// ServeHTTP answers a question from the indexed guidelines.
func (h *AskHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req AskRequest
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

	resp, err := h.engine.Ask(ctx, rag.AskRequest{Question: req.Question, K: req.K})
	if err != nil {
		handleEngineError(w, ctx, err, "Failed to answer question")
		return
	}

	writeJSON(ctx, w, AskResponse{
		Answer:  resp.Answer,
		Sources: toSourceResponses(resp.Sources),
	})
}

// toSourceResponses converts engine citations to the HTTP representation.
func toSourceResponses(sources []rag.Source) []SourceResponse {
	out := make([]SourceResponse, len(sources))
	for i, src := range sources {
		out[i] = SourceResponse{
			Title:      src.Title,
			Code:       src.Code,
			Category:   src.Category,
			SourceFile: src.SourceFile,
			Preview:    src.Preview,
		}
	}
	return out
}
