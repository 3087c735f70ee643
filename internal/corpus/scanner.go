package corpus

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/MaTTalv001/ICH-RAG/internal/contextutil"
)

// ErrCorpusNotFound is returned when the corpus directory is missing or
// contains no metadata records. It is fatal to an ingestion run.
var ErrCorpusNotFound = errors.New("corpus not found")

// bodyExtensions lists the body file extensions tried for each metadata
// record, in preference order.
var bodyExtensions = []string{".txt", ".md"}

// PairedFiles is a metadata record matched with its text body by the naming
// convention: same base filename, differing extension.
type PairedFiles struct {
	MetaPath string
	BodyPath string
}

// ScanResult is the outcome of scanning a corpus directory.
type ScanResult struct {
	Pairs   []PairedFiles
	Skipped int // metadata records with no matching body file
}

// Scan enumerates the metadata records in dir and pairs each with its body
// file. Records lacking a body are counted as skipped, not failed. A missing
// directory or a directory with no metadata records at all yields
// ErrCorpusNotFound. The returned pairs are in sorted filename order so
// ingestion is deterministic.
func Scan(ctx context.Context, dir string) (ScanResult, error) {
	logger := contextutil.LoggerFromContext(ctx)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return ScanResult{}, fmt.Errorf("%w: directory %s does not exist", ErrCorpusNotFound, dir)
		}
		return ScanResult{}, fmt.Errorf("failed to read corpus directory %s: %w", dir, err)
	}

	var metaFiles []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.EqualFold(filepath.Ext(entry.Name()), ".json") {
			metaFiles = append(metaFiles, entry.Name())
		}
	}
	if len(metaFiles) == 0 {
		return ScanResult{}, fmt.Errorf("%w: no metadata records in %s", ErrCorpusNotFound, dir)
	}
	sort.Strings(metaFiles)

	var result ScanResult
	for _, name := range metaFiles {
		metaPath := filepath.Join(dir, name)
		base := strings.TrimSuffix(metaPath, filepath.Ext(metaPath))

		bodyPath := ""
		for _, ext := range bodyExtensions {
			candidate := base + ext
			if _, err := os.Stat(candidate); err == nil {
				bodyPath = candidate
				break
			}
		}
		if bodyPath == "" {
			result.Skipped++
			logger.WarnContext(ctx, "metadata record has no body file", "metadata", name)
			continue
		}

		result.Pairs = append(result.Pairs, PairedFiles{
			MetaPath: metaPath,
			BodyPath: bodyPath,
		})
	}

	return result, nil
}

// Load assembles the document for one metadata/body pair. Markdown bodies
// are flattened to plain text before assembly so chunk text stays clean.
func Load(pair PairedFiles) (Document, error) {
	meta, err := ReadMetadata(pair.MetaPath)
	if err != nil {
		return Document{}, err
	}

	raw, err := os.ReadFile(pair.BodyPath)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read body file %s: %w", pair.BodyPath, err)
	}

	body := string(raw)
	if strings.EqualFold(filepath.Ext(pair.BodyPath), ".md") {
		body = FlattenMarkdown(raw)
	}

	return Assemble(meta, body), nil
}
