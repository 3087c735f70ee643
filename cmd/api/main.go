package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"github.com/MaTTalv001/ICH-RAG/internal/config"
	"github.com/MaTTalv001/ICH-RAG/internal/http"
	"github.com/MaTTalv001/ICH-RAG/internal/indexer"
	"github.com/MaTTalv001/ICH-RAG/internal/llm"
	"github.com/MaTTalv001/ICH-RAG/internal/rag"
	"github.com/MaTTalv001/ICH-RAG/internal/storage"
	"github.com/MaTTalv001/ICH-RAG/internal/vectorstore"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()

	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "path", cfg.DBPath)

	manifestRepo := storage.NewManifestRepo(db)
	runRepo := storage.NewRunRepo(db)

	ctx := context.Background()

	// Initialize Qdrant vector store
	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}

	// Ensure collection exists with correct vector size
	if err := vectorStore.EnsureCollection(ctx, cfg.QdrantCollection, cfg.QdrantVectorSize); err != nil {
		log.Fatalf("Failed to ensure Qdrant collection: %v", err)
	}
	slog.Info("Qdrant collection ready", "collection", cfg.QdrantCollection, "vector_size", cfg.QdrantVectorSize)

	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModel, cfg.QdrantVectorSize)

	chunker, err := indexer.NewWindowChunker(cfg.Settings.Chunker.MaxChars, cfg.Settings.Chunker.OverlapChars)
	if err != nil {
		log.Fatalf("Invalid chunker settings: %v", err)
	}

	pipeline := indexer.NewPipeline(
		chunker,
		embedder,
		vectorStore,
		manifestRepo,
		runRepo,
		indexer.Options{
			Collection:     cfg.QdrantCollection,
			EmbeddingModel: cfg.EmbeddingModel,
			VectorSize:     cfg.QdrantVectorSize,
			Strict:         cfg.Settings.Ingest.Strict,
		},
	)

	// Create LLM client (external service layer)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.GenerationTimeout)

	engine := rag.NewEngine(
		embedder,
		vectorStore,
		manifestRepo,
		llmClient,
		rag.Options{
			Collection:        cfg.QdrantCollection,
			EmbeddingModel:    cfg.EmbeddingModel,
			TopK:              cfg.Settings.Retrieval.TopK,
			GenerationTimeout: cfg.GenerationTimeout,
		},
	)
	slog.Info("QA engine initialized", "embedding_model", cfg.EmbeddingModel, "top_k", cfg.Settings.Retrieval.TopK)

	deps := &http.Deps{
		Engine:      engine,
		Pipeline:    pipeline,
		VectorStore: vectorStore,
		Manifests:   manifestRepo,
		Runs:        runRepo,
		Collection:  cfg.QdrantCollection,
		CorpusDir:   cfg.CorpusDir,
	}
	router := http.NewRouter(deps)

	// Start API server
	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	slog.Debug("LLM configuration", "base_url", cfg.LLMBaseURL, "model", cfg.LLMModel)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
