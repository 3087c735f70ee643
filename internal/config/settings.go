package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ChunkerSettings configures how document bodies are split into windows.
type ChunkerSettings struct {
	// MaxChars is the window size in characters.
	MaxChars int `yaml:"max_chars"`
	// OverlapChars is how many characters adjacent windows share.
	OverlapChars int `yaml:"overlap_chars"`
}

// RetrievalSettings configures query-time retrieval.
type RetrievalSettings struct {
	// TopK is the default number of chunks retrieved per question.
	TopK int `yaml:"top_k"`
}

// IngestSettings configures ingestion behavior.
type IngestSettings struct {
	// Strict aborts an ingestion run on the first document failure instead
	// of counting it and continuing.
	Strict bool `yaml:"strict"`
}

// Settings is the tunable part of the configuration, read from a YAML file.
type Settings struct {
	Chunker   ChunkerSettings   `yaml:"chunker"`
	Retrieval RetrievalSettings `yaml:"retrieval"`
	Ingest    IngestSettings    `yaml:"ingest"`
}

// LoadSettings reads settings from path. A missing file yields defaults.
// Invalid chunking parameters are rejected here, before any ingestion work
// starts.
func LoadSettings(path string) (*Settings, error) {
	settings := defaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return settings, nil
		}
		return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("failed to parse settings file %s: %w", path, err)
	}
	applySettingsDefaults(settings)

	if err := settings.Validate(); err != nil {
		return nil, fmt.Errorf("invalid settings in %s: %w", path, err)
	}
	return settings, nil
}

// Validate rejects settings that would misbehave at runtime.
func (s *Settings) Validate() error {
	if s.Chunker.MaxChars <= 0 {
		return fmt.Errorf("chunker.max_chars must be positive, got %d", s.Chunker.MaxChars)
	}
	if s.Chunker.OverlapChars < 0 {
		return fmt.Errorf("chunker.overlap_chars must not be negative, got %d", s.Chunker.OverlapChars)
	}
	if s.Chunker.OverlapChars >= s.Chunker.MaxChars {
		return fmt.Errorf("chunker.overlap_chars %d must be smaller than chunker.max_chars %d",
			s.Chunker.OverlapChars, s.Chunker.MaxChars)
	}
	if s.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval.top_k must be positive, got %d", s.Retrieval.TopK)
	}
	return nil
}

func defaultSettings() *Settings {
	return &Settings{
		Chunker:   ChunkerSettings{MaxChars: 1000, OverlapChars: 200},
		Retrieval: RetrievalSettings{TopK: 3},
	}
}

func applySettingsDefaults(s *Settings) {
	if s.Chunker.MaxChars == 0 {
		s.Chunker.MaxChars = 1000
	}
	if s.Retrieval.TopK == 0 {
		s.Retrieval.TopK = 3
	}
}
