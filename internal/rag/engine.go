package rag

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MaTTalv001/ICH-RAG/internal/contextutil"
	"github.com/MaTTalv001/ICH-RAG/internal/corpus"
	"github.com/MaTTalv001/ICH-RAG/internal/storage"
	"github.com/MaTTalv001/ICH-RAG/internal/vectorstore"
)

// Embedder turns text into fixed-length vectors. Must be the identical
// model and configuration used at ingestion time.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator maps a prompt to generated text. Stateless per call.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Engine answers questions about the indexed guidelines with grounded,
// citation-backed responses.
type Engine interface {
	// Ask retrieves the chunks most relevant to the question, synthesizes a
	// grounded answer, and returns it with deduplicated citations.
	Ask(ctx context.Context, req AskRequest) (AskResponse, error)

	// Sources returns the deduplicated citations for the question without
	// generating an answer.
	Sources(ctx context.Context, question string, k int) ([]Source, error)

	// Retrieve returns up to k raw indexed chunks nearest to the question,
	// nearest first. An index that has never been built yields an empty
	// result, not an error.
	Retrieve(ctx context.Context, question string, k int) ([]Retrieved, error)
}

// Options holds the scalar settings for a QA engine.
type Options struct {
	// Collection is the vector index collection queried.
	Collection string
	// EmbeddingModel is the configured embedding model identifier, checked
	// against the index manifest before every retrieval.
	EmbeddingModel string
	// TopK is the default number of chunks retrieved per question.
	TopK int
	// GenerationTimeout bounds each generative model call. Zero means no
	// bound.
	GenerationTimeout time.Duration
}

// qaEngine implements the Engine interface.
type qaEngine struct {
	embedder    Embedder
	vectorStore vectorstore.VectorStore
	manifests   storage.ManifestStore
	generator   Generator
	opts        Options
}

// NewEngine creates a new QA engine.
func NewEngine(
	embedder Embedder,
	vectorStore vectorstore.VectorStore,
	manifests storage.ManifestStore,
	generator Generator,
	opts Options,
) Engine {
	if opts.TopK <= 0 {
		opts.TopK = 3
	}
	return &qaEngine{
		embedder:    embedder,
		vectorStore: vectorStore,
		manifests:   manifests,
		generator:   generator,
		opts:        opts,
	}
}

// Retrieve embeds the question and returns the k nearest indexed chunks.
func (e *qaEngine) Retrieve(ctx context.Context, question string, k int) ([]Retrieved, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if strings.TrimSpace(question) == "" {
		return nil, ErrEmptyQuestion
	}
	if k <= 0 {
		k = e.opts.TopK
	}

	manifest, err := e.manifests.Get(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			// Index never built: an empty result, not an error.
			logger.InfoContext(ctx, "no index manifest, returning empty retrieval")
			return []Retrieved{}, nil
		}
		return nil, fmt.Errorf("failed to read index manifest: %w", err)
	}
	if manifest.EmbeddingModel != e.opts.EmbeddingModel {
		return nil, fmt.Errorf("%w: index built with %q, engine configured with %q",
			ErrModelMismatch, manifest.EmbeddingModel, e.opts.EmbeddingModel)
	}

	embeddings, err := e.embedder.EmbedTexts(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("failed to embed question: %w: %w", ErrModelService, err)
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("%w: no embedding returned for question", ErrModelService)
	}

	results, err := e.vectorStore.Search(ctx, e.opts.Collection, embeddings[0], k)
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w: %w", ErrVectorStore, err)
	}

	retrieved := make([]Retrieved, 0, len(results))
	for _, result := range results {
		retrieved = append(retrieved, Retrieved{
			Text:  metaString(result.Meta, "text"),
			Score: result.Score,
			Meta: corpus.Metadata{
				Title:      metaString(result.Meta, "title"),
				Code:       metaString(result.Meta, "code"),
				Category:   metaString(result.Meta, "category"),
				SourceFile: metaString(result.Meta, "source_file"),
			},
			ChunkIndex: metaInt(result.Meta, "chunk_index"),
		})
	}

	logger.InfoContext(ctx, "retrieval completed", "k", k, "results", len(retrieved))
	return retrieved, nil
}

// Sources returns deduplicated citations for the question.
func (e *qaEngine) Sources(ctx context.Context, question string, k int) ([]Source, error) {
	retrieved, err := e.Retrieve(ctx, question, k)
	if err != nil {
		return nil, err
	}
	return DedupeSources(retrieved), nil
}

// Ask answers the question from retrieved context.
func (e *qaEngine) Ask(ctx context.Context, req AskRequest) (AskResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	retrieved, err := e.Retrieve(ctx, req.Question, req.K)
	if err != nil {
		return AskResponse{}, err
	}

	// The answer is grounded on the raw retrieved texts; repeated context
	// does not harm generation the way repeated citations harm display.
	texts := make([]string, len(retrieved))
	for i, r := range retrieved {
		texts[i] = r.Text
	}
	contextBlock := strings.Join(texts, "\n\n")

	prompt := BuildPrompt(contextBlock, req.Question)

	genCtx := ctx
	if e.opts.GenerationTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, e.opts.GenerationTimeout)
		defer cancel()
	}

	answer, err := e.generator.Generate(genCtx, prompt)
	if err != nil {
		return AskResponse{}, fmt.Errorf("failed to generate answer: %w: %w", ErrModelService, err)
	}

	logger.InfoContext(ctx, "question answered",
		"question_length", len(req.Question),
		"chunks_used", len(retrieved),
		"answer_length", len(answer),
	)

	return AskResponse{
		Answer:  answer,
		Sources: DedupeSources(retrieved),
	}, nil
}

// metaString reads a string payload field, empty when absent.
func metaString(meta map[string]any, key string) string {
	s, _ := meta[key].(string)
	return s
}

// metaInt reads an integer payload field across the numeric types the
// vector store may hand back.
func metaInt(meta map[string]any, key string) int {
	switch v := meta[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
