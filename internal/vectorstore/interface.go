package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks github.com/MaTTalv001/ICH-RAG/internal/vectorstore VectorStore

import "context"

// Point represents an indexed entry: a vector with its chunk text and
// guideline metadata carried as payload.
type Point struct {
	ID   string
	Vec  []float32
	Meta map[string]any
}

// SearchResult represents one ranked entry from a similarity search.
type SearchResult struct {
	PointID string
	Score   float32
	Meta    map[string]any
}

// VectorStore defines the interface for the vector index service.
type VectorStore interface {
	// Upsert inserts or updates points in the collection.
	Upsert(ctx context.Context, collection string, points []Point) error

	// Search returns the k entries nearest to the query vector, nearest
	// first. Fewer than k entries are returned when the collection holds
	// fewer points; that is not an error.
	Search(ctx context.Context, collection string, query []float32, k int) ([]SearchResult, error)

	// EnsureCollection creates the collection if missing and validates its
	// vector size if it already exists.
	EnsureCollection(ctx context.Context, collection string, vectorSize int) error

	// DropCollection removes the collection and all its points. Used for a
	// full index rebuild, the only supported re-ingestion mode.
	DropCollection(ctx context.Context, collection string) error

	// CollectionExists reports whether the collection exists.
	CollectionExists(ctx context.Context, collection string) (bool, error)
}
