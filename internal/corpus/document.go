package corpus

import (
	"encoding/json"
	"fmt"
	"os"
)

// Metadata identifies a guideline document. The fields mirror the structured
// metadata record that accompanies each text body in the corpus directory.
// Unrecognized fields in the record are ignored.
type Metadata struct {
	Title      string `json:"title"`
	Code       string `json:"code"`
	Category   string `json:"category"`
	SourceFile string `json:"source_file"`
}

// Document is one guideline normalized for ingestion: its metadata merged
// with the full text body. Documents are immutable after assembly; only
// their derived chunks are persisted.
type Document struct {
	Meta Metadata
	Body string
}

// Assemble merges a metadata record with its raw text body into a Document.
// Pairing of the two inputs is the caller's responsibility (see Scan); this
// is pure construction with no side effects.
func Assemble(meta Metadata, body string) Document {
	return Document{Meta: meta, Body: body}
}

// ReadMetadata parses a metadata record file.
func ReadMetadata(path string) (Metadata, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Metadata{}, fmt.Errorf("failed to read metadata file %s: %w", path, err)
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return Metadata{}, fmt.Errorf("failed to parse metadata file %s: %w", path, err)
	}
	return meta, nil
}
