package indexer

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// ChunkerVersion is the version identifier for the chunker implementation.
// Update this when chunking logic changes significantly.
const ChunkerVersion = "v1.0"

// IndexVersion returns a stable hash identifying an index build: the
// embedding model plus the chunking parameters that produced it. Two indexes
// with the same version are interchangeable for retrieval.
func IndexVersion(embeddingModel string, vectorSize, maxChars, overlap int) string {
	input := fmt.Sprintf("%s|%d|%s|%d|%d", embeddingModel, vectorSize, ChunkerVersion, maxChars, overlap)
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:8])
}
