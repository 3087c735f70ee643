package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application. Service endpoints and
// credentials come from environment variables (with .env support); tuning
// knobs come from an optional YAML settings file (see Settings).
type Config struct {
	LLMBaseURL        string
	LLMModel          string
	LLMAPIKey         string
	EmbeddingBaseURL  string
	EmbeddingModel    string
	QdrantURL         string
	QdrantCollection  string
	QdrantVectorSize  int
	CorpusDir         string
	DBPath            string
	APIPort           string
	GenerationTimeout time.Duration
	LogLevel          slog.Level
	LogFormat         string
	Settings          Settings
}

// Load reads configuration from environment variables and the optional
// settings file, applies defaults, and validates. If a .env file exists in
// the current directory or a parent, it is loaded first; variables already
// set take precedence over .env values.
func Load() (*Config, error) {
	loadDotenv()

	cfg := &Config{
		LLMBaseURL:       getEnv("LLM_BASE_URL", "https://api.openai.com"),
		LLMModel:         getEnv("LLM_MODEL", "gpt-4"),
		LLMAPIKey:        getEnv("LLM_API_KEY", ""),
		EmbeddingBaseURL: getEnv("EMBEDDING_BASE_URL", "http://localhost:8081"),
		EmbeddingModel:   getEnv("EMBEDDING_MODEL_NAME", "intfloat/multilingual-e5-large"),
		QdrantURL:        getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection: getEnv("QDRANT_COLLECTION", "ich_guidelines"),
		CorpusDir:        getEnv("CORPUS_DIR", "./data/ich_guidelines"),
		DBPath:           getEnv("DB_PATH", "./data/ichrag.db"),
		APIPort:          getEnv("API_PORT", "9000"),
		LogFormat:        getEnv("LOG_FORMAT", "text"),
	}

	// The vector size must match the embedding model's output dimension.
	// There is no safe default: a wrong value corrupts the index silently.
	vectorSizeStr := getEnv("QDRANT_VECTOR_SIZE", "")
	if vectorSizeStr == "" {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE is required")
	}
	vectorSize, err := strconv.Atoi(vectorSizeStr)
	if err != nil {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be a valid integer: %w", err)
	}
	if vectorSize <= 0 {
		return nil, fmt.Errorf("QDRANT_VECTOR_SIZE must be greater than 0")
	}
	cfg.QdrantVectorSize = vectorSize

	timeoutSecs, err := strconv.Atoi(getEnv("GENERATION_TIMEOUT_SECS", "60"))
	if err != nil || timeoutSecs < 0 {
		return nil, fmt.Errorf("GENERATION_TIMEOUT_SECS must be a non-negative integer")
	}
	cfg.GenerationTimeout = time.Duration(timeoutSecs) * time.Second

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	settings, err := LoadSettings(getEnv("RAG_SETTINGS_PATH", "ichrag.yaml"))
	if err != nil {
		return nil, err
	}
	cfg.Settings = *settings

	// Create the data directory if it doesn't exist (for the DB file)
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// loadDotenv loads a .env file from the current directory or, failing that,
// from the nearest parent directory containing one.
func loadDotenv() {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

// parseLogLevel maps a level name to a slog.Level.
func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q (expected debug, info, warn, or error)", s)
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
