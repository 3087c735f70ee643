package rag

import "github.com/MaTTalv001/ICH-RAG/internal/corpus"

// AskRequest represents a question for the QA engine.
type AskRequest struct {
	// Question is the user's question to answer.
	Question string `json:"question"`
	// K optionally overrides how many chunks ground the answer. Zero means
	// the engine default.
	K int `json:"k,omitempty"`
}

// AskResponse represents the synthesized answer with its citations.
type AskResponse struct {
	// Answer is the generated answer, returned unmodified from the model.
	Answer string `json:"answer"`
	// Sources are the deduplicated citations for the retrieved context.
	Sources []Source `json:"sources"`
}

// Source is a citation-ready record for one retained retrieved chunk.
type Source struct {
	Title    string `json:"title"`
	Code     string `json:"code"`
	Category string `json:"category"`
	// SourceFile links to the public document. Empty means no link is
	// available; the presentation layer renders it as such.
	SourceFile string `json:"source_file,omitempty"`
	// Preview is the first 200 characters of the matched chunk text,
	// newline-collapsed.
	Preview string `json:"preview"`
}

// Retrieved is one ranked entry from the vector index: the chunk text with
// its similarity score and guideline metadata, nearest first.
type Retrieved struct {
	Text       string
	Score      float32
	Meta       corpus.Metadata
	ChunkIndex int
}
