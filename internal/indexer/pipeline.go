package indexer

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/MaTTalv001/ICH-RAG/internal/contextutil"
	"github.com/MaTTalv001/ICH-RAG/internal/corpus"
	"github.com/MaTTalv001/ICH-RAG/internal/storage"
	"github.com/MaTTalv001/ICH-RAG/internal/vectorstore"
)

// Embedder turns chunk text into fixed-length vectors. Implemented by
// llm.EmbeddingsClient; defined here so the pipeline can be tested against
// a fake.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Options holds the scalar settings for an ingestion pipeline.
type Options struct {
	// Collection is the vector index collection written to.
	Collection string
	// EmbeddingModel is the embedding model identifier, recorded in the
	// index manifest for the query-time identity guard.
	EmbeddingModel string
	// VectorSize is the embedding vector dimension.
	VectorSize int
	// Strict aborts the run on the first document failure instead of
	// counting it and continuing.
	Strict bool
}

// Report is the outcome of one ingestion run.
type Report struct {
	DocsProcessed int
	ChunksIndexed int
	PairingSkips  int // metadata records with no matching body file
	DocFailures   int // documents skipped after embed or persist failure
	Duration      time.Duration
}

// Pipeline orchestrates corpus ingestion: scan and pair files, assemble
// documents, chunk, embed, and persist each chunk with its vector and
// metadata into the vector index.
type Pipeline struct {
	chunker     *WindowChunker
	embedder    Embedder
	vectorStore vectorstore.VectorStore
	manifests   storage.ManifestStore
	runs        storage.RunStore
	opts        Options
	logger      *slog.Logger
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	chunker *WindowChunker,
	embedder Embedder,
	vectorStore vectorstore.VectorStore,
	manifests storage.ManifestStore,
	runs storage.RunStore,
	opts Options,
) *Pipeline {
	return &Pipeline{
		chunker:     chunker,
		embedder:    embedder,
		vectorStore: vectorStore,
		manifests:   manifests,
		runs:        runs,
		opts:        opts,
		logger:      slog.Default(),
	}
}

// Reset drops and recreates the collection for a full rebuild. Full corpus
// re-vectorization is the only supported re-ingestion mode.
func (p *Pipeline) Reset(ctx context.Context) error {
	exists, err := p.vectorStore.CollectionExists(ctx, p.opts.Collection)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		if err := p.vectorStore.DropCollection(ctx, p.opts.Collection); err != nil {
			return err
		}
	}
	return p.vectorStore.EnsureCollection(ctx, p.opts.Collection, p.opts.VectorSize)
}

// Ingest processes every paired document in dir and returns the run's
// counts. A missing directory or a directory without metadata records is
// fatal (corpus.ErrCorpusNotFound). Individual document failures are counted
// and skipped unless Strict is set, so one bad document does not abort a
// large corpus.
func (p *Pipeline) Ingest(ctx context.Context, dir string) (Report, error) {
	logger := contextutil.LoggerFromContext(ctx)
	started := time.Now()

	scan, err := corpus.Scan(ctx, dir)
	if err != nil {
		return Report{}, err
	}

	logger.InfoContext(ctx, "starting ingestion",
		"dir", dir,
		"documents", len(scan.Pairs),
		"pairing_skips", scan.Skipped,
		"strict", p.opts.Strict,
	)

	report := Report{PairingSkips: scan.Skipped}

	for _, pair := range scan.Pairs {
		select {
		case <-ctx.Done():
			report.Duration = time.Since(started)
			p.recordRun(ctx, started, report)
			return report, ctx.Err()
		default:
		}

		count, err := p.ingestDocument(ctx, pair)
		if err != nil {
			report.DocFailures++
			logger.ErrorContext(ctx, "failed to ingest document",
				"metadata", filepath.Base(pair.MetaPath), "error", err)
			if p.opts.Strict {
				report.Duration = time.Since(started)
				p.recordRun(ctx, started, report)
				return report, fmt.Errorf("strict ingestion aborted on %s: %w", filepath.Base(pair.MetaPath), err)
			}
			continue
		}

		report.DocsProcessed++
		report.ChunksIndexed += count
	}

	report.Duration = time.Since(started)

	// A run that indexed nothing leaves the manifest untouched: an index was
	// not built, so health and the query-time model guard must not see one.
	if report.ChunksIndexed > 0 {
		manifest := &storage.IndexManifest{
			EmbeddingModel: p.opts.EmbeddingModel,
			VectorSize:     p.opts.VectorSize,
			MaxChunkChars:  p.chunker.maxChars,
			ChunkOverlap:   p.chunker.overlap,
			ChunkerVersion: ChunkerVersion,
			IndexVersion:   IndexVersion(p.opts.EmbeddingModel, p.opts.VectorSize, p.chunker.maxChars, p.chunker.overlap),
		}
		if err := p.manifests.Put(ctx, manifest); err != nil {
			p.recordRun(ctx, started, report)
			return report, fmt.Errorf("failed to record index manifest: %w", err)
		}
	} else {
		logger.WarnContext(ctx, "no chunks indexed, index manifest left unchanged")
	}

	p.recordRun(ctx, started, report)

	logger.InfoContext(ctx, "ingestion completed",
		"docs", report.DocsProcessed,
		"chunks", report.ChunksIndexed,
		"pairing_skips", report.PairingSkips,
		"doc_failures", report.DocFailures,
		"duration", report.Duration,
	)

	return report, nil
}

// recordRun appends the run to the ingestion history. Aborted and cancelled
// runs are recorded too, so the history uses a context detached from
// cancellation. Run history is informational; losing one entry is not fatal.
func (p *Pipeline) recordRun(ctx context.Context, started time.Time, report Report) {
	logger := contextutil.LoggerFromContext(ctx)

	run := &storage.IngestRun{
		StartedAt:     started,
		Duration:      report.Duration,
		DocsProcessed: report.DocsProcessed,
		ChunksIndexed: report.ChunksIndexed,
		PairingSkips:  report.PairingSkips,
		DocFailures:   report.DocFailures,
		Strict:        p.opts.Strict,
	}
	if err := p.runs.Insert(context.WithoutCancel(ctx), run); err != nil {
		logger.WarnContext(ctx, "failed to record ingest run", "error", err)
	}
}

// ingestDocument assembles, chunks, embeds, and persists one document,
// returning the number of chunks indexed.
func (p *Pipeline) ingestDocument(ctx context.Context, pair corpus.PairedFiles) (int, error) {
	logger := contextutil.LoggerFromContext(ctx)

	doc, err := corpus.Load(pair)
	if err != nil {
		return 0, err
	}

	chunks := p.chunker.Chunk(doc)
	if len(chunks) == 0 {
		logger.WarnContext(ctx, "document produced no chunks", "code", doc.Meta.Code)
		return 0, nil
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	embeddings, err := p.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(chunks), len(embeddings))
	}

	points := make([]vectorstore.Point, len(chunks))
	for i, chunk := range chunks {
		points[i] = vectorstore.Point{
			ID:  uuid.New().String(),
			Vec: embeddings[i],
			Meta: map[string]any{
				"text":        chunk.Text,
				"title":       chunk.Meta.Title,
				"code":        chunk.Meta.Code,
				"category":    chunk.Meta.Category,
				"source_file": chunk.Meta.SourceFile,
				"chunk_index": chunk.Index,
			},
		}
	}

	if err := p.vectorStore.Upsert(ctx, p.opts.Collection, points); err != nil {
		return 0, fmt.Errorf("failed to persist chunks: %w", err)
	}

	logger.InfoContext(ctx, "indexed document", "code", doc.Meta.Code, "title", doc.Meta.Title, "chunks", len(chunks))
	return len(chunks), nil
}
