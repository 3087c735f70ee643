package config

import (
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

// resetEnv clears every variable Load reads so defaults apply, then layers
// the test's own values on top.
func resetEnv(t *testing.T, overrides map[string]string) {
	t.Helper()
	envVars := []string{
		"LLM_BASE_URL", "LLM_MODEL", "LLM_API_KEY",
		"EMBEDDING_BASE_URL", "EMBEDDING_MODEL_NAME",
		"QDRANT_URL", "QDRANT_COLLECTION", "QDRANT_VECTOR_SIZE",
		"CORPUS_DIR", "DB_PATH", "API_PORT",
		"GENERATION_TIMEOUT_SECS", "LOG_LEVEL", "LOG_FORMAT",
		"RAG_SETTINGS_PATH",
	}
	for _, key := range envVars {
		t.Setenv(key, "")
	}
	// Keep the DB and settings paths inside the test's temp dir so Load
	// never writes into the working tree.
	dir := t.TempDir()
	t.Setenv("DB_PATH", filepath.Join(dir, "data", "test.db"))
	t.Setenv("RAG_SETTINGS_PATH", filepath.Join(dir, "missing.yaml"))

	for key, value := range overrides {
		t.Setenv(key, value)
	}
}

func TestLoad(t *testing.T) {
	resetEnv(t, map[string]string{"QDRANT_VECTOR_SIZE": "1024"})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.QdrantVectorSize != 1024 {
		t.Errorf("QdrantVectorSize = %d, want 1024", cfg.QdrantVectorSize)
	}
	if cfg.QdrantCollection != "ich_guidelines" {
		t.Errorf("QdrantCollection = %q", cfg.QdrantCollection)
	}
	if cfg.EmbeddingModel != "intfloat/multilingual-e5-large" {
		t.Errorf("EmbeddingModel = %q", cfg.EmbeddingModel)
	}
	if cfg.GenerationTimeout != 60*time.Second {
		t.Errorf("GenerationTimeout = %v, want 60s", cfg.GenerationTimeout)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if cfg.Settings.Chunker.MaxChars != 1000 || cfg.Settings.Chunker.OverlapChars != 200 {
		t.Errorf("default chunker settings = %+v", cfg.Settings.Chunker)
	}
	if cfg.Settings.Retrieval.TopK != 3 {
		t.Errorf("default top_k = %d, want 3", cfg.Settings.Retrieval.TopK)
	}
}

func TestLoad_MissingVectorSize(t *testing.T) {
	resetEnv(t, nil)

	if _, err := Load(); err == nil {
		t.Error("Load() expected error without QDRANT_VECTOR_SIZE, got nil")
	}
}

func TestLoad_InvalidVectorSize(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "not a number", value: "many"},
		{name: "zero", value: "0"},
		{name: "negative", value: "-5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetEnv(t, map[string]string{"QDRANT_VECTOR_SIZE": tt.value})
			if _, err := Load(); err == nil {
				t.Errorf("Load() expected error for QDRANT_VECTOR_SIZE=%q, got nil", tt.value)
			}
		})
	}
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	resetEnv(t, map[string]string{
		"QDRANT_VECTOR_SIZE": "768",
		"LOG_LEVEL":          "verbose",
	})
	if _, err := Load(); err == nil {
		t.Error("Load() expected error for invalid LOG_LEVEL, got nil")
	}
}

func TestLoad_GenerationTimeout(t *testing.T) {
	resetEnv(t, map[string]string{
		"QDRANT_VECTOR_SIZE":      "768",
		"GENERATION_TIMEOUT_SECS": "120",
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.GenerationTimeout != 120*time.Second {
		t.Errorf("GenerationTimeout = %v, want 120s", cfg.GenerationTimeout)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	resetEnv(t, map[string]string{
		"QDRANT_VECTOR_SIZE": "768",
		"QDRANT_COLLECTION":  "custom_collection",
		"LLM_MODEL":          "custom-model",
		"LOG_LEVEL":          "debug",
		"LOG_FORMAT":         "json",
	})

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.QdrantCollection != "custom_collection" {
		t.Errorf("QdrantCollection = %q", cfg.QdrantCollection)
	}
	if cfg.LLMModel != "custom-model" {
		t.Errorf("LLMModel = %q", cfg.LLMModel)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v, want debug", cfg.LogLevel)
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q, want json", cfg.LogFormat)
	}
}
