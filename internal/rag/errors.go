package rag

import "errors"

// Engine error kinds. Handlers classify engine failures with errors.Is on
// these sentinels.
var (
	// ErrEmptyQuestion is returned when the question is empty or whitespace.
	ErrEmptyQuestion = errors.New("question must not be empty")

	// ErrModelMismatch is returned when the index manifest names a different
	// embedding model than the one the engine is configured with. Answering
	// across mismatched embedding spaces would degrade relevance silently, so
	// the engine refuses instead.
	ErrModelMismatch = errors.New("embedding model mismatch")

	// ErrVectorStore marks a failed call to the vector index service.
	ErrVectorStore = errors.New("vector store unavailable")

	// ErrModelService marks a failed call to the external embedding or
	// generative model service.
	ErrModelService = errors.New("model service error")
)
