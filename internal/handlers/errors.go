package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/MaTTalv001/ICH-RAG/internal/contextutil"
	"github.com/MaTTalv001/ICH-RAG/internal/corpus"
	"github.com/MaTTalv001/ICH-RAG/internal/rag"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// writeJSON writes a JSON response body with status 200.
func writeJSON(ctx context.Context, w http.ResponseWriter, body any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger := contextutil.LoggerFromContext(ctx)
		logger.ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// handleEngineError maps QA engine error kinds to HTTP status codes: bad
// input 400, model mismatch 409, vector store unreachable 503, embedding or
// generation failure 502, anything else 500.
func handleEngineError(w http.ResponseWriter, ctx context.Context, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "QA engine error", "error", err)

	if errors.Is(err, rag.ErrEmptyQuestion) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if errors.Is(err, rag.ErrModelMismatch) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}

	if errors.Is(err, rag.ErrVectorStore) {
		writeError(w, http.StatusServiceUnavailable, "Vector store unavailable")
		return
	}

	if errors.Is(err, rag.ErrModelService) {
		writeError(w, http.StatusBadGateway, "External model service error")
		return
	}

	writeError(w, http.StatusInternalServerError, defaultMsg)
}

// handleIngestError maps ingestion errors to HTTP status codes.
func handleIngestError(w http.ResponseWriter, ctx context.Context, err error) {
	logger := contextutil.LoggerFromContext(ctx)
	logger.ErrorContext(ctx, "ingestion error", "error", err)

	if errors.Is(err, corpus.ErrCorpusNotFound) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeError(w, http.StatusInternalServerError, "Ingestion failed")
}
