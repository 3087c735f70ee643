package rag

import "strings"

const previewLength = 200

// Placeholders substituted when a retrieved chunk's metadata lacks a field.
// SourceFile is deliberately not substituted: its absence is the "no link"
// signal for the presentation layer.
const (
	placeholderTitle    = "Unknown title"
	placeholderCode     = "Unknown code"
	placeholderCategory = "Unknown category"
)

// Preview returns the citation preview for a chunk text: the first 200
// characters with newlines replaced by spaces and surrounding whitespace
// trimmed.
func Preview(text string) string {
	runes := []rune(text)
	if len(runes) > previewLength {
		runes = runes[:previewLength]
	}
	return strings.TrimSpace(strings.ReplaceAll(string(runes), "\n", " "))
}

// DedupeSources collapses retrieved chunks into citation records with no
// duplicate previews, preserving the rank order of first occurrences. This
// folds near-identical overlapping windows of the same passage into a single
// citation. Two distinct chunks sharing a 200-character prefix collapse into
// one citation; this prefix comparison is a known approximation.
func DedupeSources(results []Retrieved) []Source {
	seen := make(map[string]struct{}, len(results))
	sources := make([]Source, 0, len(results))

	for _, r := range results {
		preview := Preview(r.Text)
		if _, ok := seen[preview]; ok {
			continue
		}
		seen[preview] = struct{}{}

		src := Source{
			Title:      r.Meta.Title,
			Code:       r.Meta.Code,
			Category:   r.Meta.Category,
			SourceFile: r.Meta.SourceFile,
			Preview:    preview,
		}
		if src.Title == "" {
			src.Title = placeholderTitle
		}
		if src.Code == "" {
			src.Code = placeholderCode
		}
		if src.Category == "" {
			src.Category = placeholderCategory
		}

		sources = append(sources, src)
	}

	return sources
}
