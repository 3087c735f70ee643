package indexer

import (
	"fmt"

	"github.com/MaTTalv001/ICH-RAG/internal/corpus"
)

// WindowChunker splits a document body into fixed-size overlapping windows.
// The overlap keeps a sentence that straddles a window boundary whole in at
// least one chunk. Sizes are measured in runes, not bytes, so multibyte text
// chunks the same as ASCII.
type WindowChunker struct {
	maxChars int
	overlap  int
}

// NewWindowChunker creates a window chunker. Overlap must be smaller than
// the window size; an overlap that large would produce non-advancing or
// duplicated windows, so it is rejected before any ingestion work starts.
func NewWindowChunker(maxChars, overlap int) (*WindowChunker, error) {
	if maxChars <= 0 {
		return nil, fmt.Errorf("chunk window size must be positive, got %d", maxChars)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("chunk overlap must not be negative, got %d", overlap)
	}
	if overlap >= maxChars {
		return nil, fmt.Errorf("chunk overlap %d must be smaller than window size %d", overlap, maxChars)
	}
	return &WindowChunker{maxChars: maxChars, overlap: overlap}, nil
}

// Chunk splits the document body into an ordered sequence of chunks covering
// the entire body. Each chunk carries a copy of the document's metadata, so
// retrieval never loses provenance. A body no longer than the window size
// yields exactly one chunk equal to the whole body; an empty body yields no
// chunks.
func (c *WindowChunker) Chunk(doc corpus.Document) []Chunk {
	runes := []rune(doc.Body)
	if len(runes) == 0 {
		return nil
	}

	step := c.maxChars - c.overlap
	var chunks []Chunk
	for start := 0; ; start += step {
		end := start + c.maxChars
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, Chunk{
			Index: len(chunks),
			Text:  string(runes[start:end]),
			Meta:  doc.Meta,
		})
		if end == len(runes) {
			break
		}
	}
	return chunks
}
