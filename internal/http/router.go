package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MaTTalv001/ICH-RAG/internal/handlers"
	"github.com/MaTTalv001/ICH-RAG/internal/indexer"
	"github.com/MaTTalv001/ICH-RAG/internal/rag"
	"github.com/MaTTalv001/ICH-RAG/internal/storage"
	"github.com/MaTTalv001/ICH-RAG/internal/vectorstore"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Engine      rag.Engine
	Pipeline    *indexer.Pipeline
	VectorStore vectorstore.VectorStore
	Manifests   storage.ManifestStore
	Runs        storage.RunStore
	Collection  string
	CorpusDir   string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(CORS)

	askHandler := handlers.NewAskHandler(deps.Engine)
	sourcesHandler := handlers.NewSourcesHandler(deps.Engine)
	ingestHandler := handlers.NewIngestHandler(deps.Pipeline, deps.CorpusDir)
	runsHandler := handlers.NewRunsHandler(deps.Runs)
	healthHandler := handlers.NewHealthHandler(deps.VectorStore, deps.Manifests, deps.Collection)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", healthHandler)

		r.Route("/v1", func(r chi.Router) {
			r.Method(http.MethodPost, "/ask", askHandler)
			r.Method(http.MethodPost, "/sources", sourcesHandler)
			r.Method(http.MethodPost, "/ingest", ingestHandler)
			r.Method(http.MethodGet, "/ingest/runs", runsHandler)
		})
	})

	return r
}
