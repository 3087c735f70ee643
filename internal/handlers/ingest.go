package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/MaTTalv001/ICH-RAG/internal/contextutil"
	"github.com/MaTTalv001/ICH-RAG/internal/indexer"
	"github.com/MaTTalv001/ICH-RAG/internal/storage"
)

// IngestHandler handles HTTP requests to rebuild the vector index from the
// corpus directory. Ingestion runs synchronously; the response carries the
// run's counts.
type IngestHandler struct {
	pipeline  *indexer.Pipeline
	corpusDir string
}

// NewIngestHandler creates a new IngestHandler.
func NewIngestHandler(pipeline *indexer.Pipeline, corpusDir string) *IngestHandler {
	return &IngestHandler{pipeline: pipeline, corpusDir: corpusDir}
}

// IngestRequest represents the HTTP request payload for ingestion.
type IngestRequest struct {
	// Dir overrides the configured corpus directory when set.
	Dir string `json:"dir,omitempty"`
	// Reset drops and recreates the collection before ingesting.
	Reset bool `json:"reset,omitempty"`
}

// IngestResponse represents the HTTP response payload for ingestion.
type IngestResponse struct {
	DocsProcessed int   `json:"docs_processed"`
	ChunksIndexed int   `json:"chunks_indexed"`
	PairingSkips  int   `json:"pairing_skips"`
	DocFailures   int   `json:"doc_failures"`
	DurationMs    int64 `json:"duration_ms"`
}

// ServeHTTP runs a full ingestion over the corpus directory.
func (h *IngestHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodPost {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req IngestRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			logger.WarnContext(ctx, "invalid request body", "error", err)
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	}

	dir := h.corpusDir
	if req.Dir != "" {
		dir = req.Dir
	}

	if req.Reset {
		if err := h.pipeline.Reset(ctx); err != nil {
			logger.ErrorContext(ctx, "failed to reset collection", "error", err)
			writeError(w, http.StatusServiceUnavailable, "Vector store unavailable")
			return
		}
	}

	report, err := h.pipeline.Ingest(ctx, dir)
	if err != nil {
		handleIngestError(w, ctx, err)
		return
	}

	writeJSON(ctx, w, IngestResponse{
		DocsProcessed: report.DocsProcessed,
		ChunksIndexed: report.ChunksIndexed,
		PairingSkips:  report.PairingSkips,
		DocFailures:   report.DocFailures,
		DurationMs:    report.Duration.Milliseconds(),
	})
}

// RunsHandler handles HTTP requests for ingestion run history.
type RunsHandler struct {
	runs storage.RunStore
}

// NewRunsHandler creates a new RunsHandler.
func NewRunsHandler(runs storage.RunStore) *RunsHandler {
	return &RunsHandler{runs: runs}
}

// RunResponse represents one past ingestion run.
type RunResponse struct {
	ID            int       `json:"id"`
	StartedAt     time.Time `json:"started_at"`
	DurationMs    int64     `json:"duration_ms"`
	DocsProcessed int       `json:"docs_processed"`
	ChunksIndexed int       `json:"chunks_indexed"`
	PairingSkips  int       `json:"pairing_skips"`
	DocFailures   int       `json:"doc_failures"`
	Strict        bool      `json:"strict"`
}

// RunsResponse represents the HTTP response payload for run history.
type RunsResponse struct {
	Runs []RunResponse `json:"runs"`
}

// ServeHTTP lists recent ingestion runs, newest first.
func (h *RunsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	if r.Method != http.MethodGet {
		logger.WarnContext(ctx, "method not allowed", "method", r.Method)
		writeError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	runs, err := h.runs.ListRecent(ctx, 10)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list ingest runs", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to list ingest runs")
		return
	}

	out := make([]RunResponse, len(runs))
	for i, run := range runs {
		out[i] = RunResponse{
			ID:            run.ID,
			StartedAt:     run.StartedAt,
			DurationMs:    run.Duration.Milliseconds(),
			DocsProcessed: run.DocsProcessed,
			ChunksIndexed: run.ChunksIndexed,
			PairingSkips:  run.PairingSkips,
			DocFailures:   run.DocFailures,
			Strict:        run.Strict,
		}
	}

	writeJSON(ctx, w, RunsResponse{Runs: out})
}
