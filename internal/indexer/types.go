package indexer

import "github.com/MaTTalv001/ICH-RAG/internal/corpus"

// Chunk is a contiguous text window drawn from a guideline document.
type Chunk struct {
	Index int             // position within the source document (starts at 0)
	Text  string          // window text, bounded by the chunker's window size
	Meta  corpus.Metadata // copy of the owning document's metadata
}
