package cli

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/MaTTalv001/ICH-RAG/internal/config"
	"github.com/MaTTalv001/ICH-RAG/internal/indexer"
	"github.com/MaTTalv001/ICH-RAG/internal/llm"
	"github.com/MaTTalv001/ICH-RAG/internal/rag"
	"github.com/MaTTalv001/ICH-RAG/internal/storage"
	"github.com/MaTTalv001/ICH-RAG/internal/vectorstore"
)

// app wires together the shared dependencies the CLI commands need. Each
// command builds one, uses it, and closes it.
type app struct {
	cfg         *config.Config
	db          *sql.DB
	vectorStore *vectorstore.QdrantStore
	manifests   *storage.ManifestRepo
	runs        *storage.RunRepo
	embedder    *llm.EmbeddingsClient
	engine      rag.Engine
}

// newApp loads configuration and constructs the storage, vector store, and
// engine dependencies. Logging goes to stderr so command output on stdout
// stays clean.
func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))

	db, err := storage.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := storage.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	vectorStore, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}

	manifests := storage.NewManifestRepo(db)
	runs := storage.NewRunRepo(db)
	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModel, cfg.QdrantVectorSize)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.GenerationTimeout)

	engine := rag.NewEngine(
		embedder,
		vectorStore,
		manifests,
		llmClient,
		rag.Options{
			Collection:        cfg.QdrantCollection,
			EmbeddingModel:    cfg.EmbeddingModel,
			TopK:              cfg.Settings.Retrieval.TopK,
			GenerationTimeout: cfg.GenerationTimeout,
		},
	)

	return &app{
		cfg:         cfg,
		db:          db,
		vectorStore: vectorStore,
		manifests:   manifests,
		runs:        runs,
		embedder:    embedder,
		engine:      engine,
	}, nil
}

// newPipeline builds an ingestion pipeline from the app's dependencies.
func (a *app) newPipeline(strict bool) (*indexer.Pipeline, error) {
	chunker, err := indexer.NewWindowChunker(a.cfg.Settings.Chunker.MaxChars, a.cfg.Settings.Chunker.OverlapChars)
	if err != nil {
		return nil, fmt.Errorf("invalid chunker settings: %w", err)
	}
	return indexer.NewPipeline(
		chunker,
		a.embedder,
		a.vectorStore,
		a.manifests,
		a.runs,
		indexer.Options{
			Collection:     a.cfg.QdrantCollection,
			EmbeddingModel: a.cfg.EmbeddingModel,
			VectorSize:     a.cfg.QdrantVectorSize,
			Strict:         strict,
		},
	), nil
}

func (a *app) close() {
	_ = a.db.Close()
}
