package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_manifest_store.go -package=mocks github.com/MaTTalv001/ICH-RAG/internal/storage ManifestStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned when a record is not found.
var ErrNotFound = errors.New("record not found")

// ManifestStore defines the interface for index manifest persistence.
type ManifestStore interface {
	// Get returns the current index manifest. Returns ErrNotFound when the
	// index has never been built.
	Get(ctx context.Context) (*IndexManifest, error)
	// Put inserts or replaces the index manifest. There is only ever one.
	Put(ctx context.Context, m *IndexManifest) error
}

// ManifestRepo provides methods for index manifest operations.
// It implements the ManifestStore interface.
type ManifestRepo struct {
	db *sql.DB
}

// NewManifestRepo creates a new ManifestRepo.
func NewManifestRepo(db *sql.DB) *ManifestRepo {
	return &ManifestRepo{db: db}
}

// Get returns the current index manifest.
func (r *ManifestRepo) Get(ctx context.Context) (*IndexManifest, error) {
	var m IndexManifest
	var updatedAtStr string

	err := r.db.QueryRowContext(ctx,
		`SELECT embedding_model, vector_size, max_chunk_chars, chunk_overlap,
			chunker_version, index_version, updated_at
		FROM index_manifest WHERE id = 1`,
	).Scan(&m.EmbeddingModel, &m.VectorSize, &m.MaxChunkChars, &m.ChunkOverlap,
		&m.ChunkerVersion, &m.IndexVersion, &updatedAtStr)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get index manifest: %w", err)
	}

	if t, err := parseSQLiteTime(updatedAtStr); err == nil {
		m.UpdatedAt = t
	}

	return &m, nil
}

// Put inserts or replaces the index manifest.
func (r *ManifestRepo) Put(ctx context.Context, m *IndexManifest) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO index_manifest
			(id, embedding_model, vector_size, max_chunk_chars, chunk_overlap,
			 chunker_version, index_version, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			embedding_model = excluded.embedding_model,
			vector_size = excluded.vector_size,
			max_chunk_chars = excluded.max_chunk_chars,
			chunk_overlap = excluded.chunk_overlap,
			chunker_version = excluded.chunker_version,
			index_version = excluded.index_version,
			updated_at = CURRENT_TIMESTAMP`,
		m.EmbeddingModel, m.VectorSize, m.MaxChunkChars, m.ChunkOverlap,
		m.ChunkerVersion, m.IndexVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to put index manifest: %w", err)
	}
	return nil
}

// parseSQLiteTime parses the timestamp formats SQLite emits for DATETIME
// columns populated via CURRENT_TIMESTAMP.
func parseSQLiteTime(s string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp format: %s", s)
}
