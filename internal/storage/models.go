package storage

import "time"

// IndexManifest records the identity of the vector index: which embedding
// model and chunking parameters produced it. The retriever refuses to query
// an index whose manifest names a different embedding model, since mismatched
// embedding spaces degrade relevance silently.
type IndexManifest struct {
	EmbeddingModel string    // embedding model identifier used at ingestion
	VectorSize     int       // embedding vector dimension
	MaxChunkChars  int       // chunk window size in runes
	ChunkOverlap   int       // overlap between adjacent chunks in runes
	ChunkerVersion string    // chunker implementation version
	IndexVersion   string    // hash of model + chunking parameters
	UpdatedAt      time.Time
}

// IngestRun records the outcome of one ingestion run over the corpus.
type IngestRun struct {
	ID            int
	StartedAt     time.Time
	Duration      time.Duration
	DocsProcessed int
	ChunksIndexed int
	PairingSkips  int // metadata records with no matching body file
	DocFailures   int // documents skipped after embed or persist failure
	Strict        bool
}
