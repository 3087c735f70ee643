package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// New opens a SQLite database connection at the given path.
// It enables foreign keys and sets connection pool settings.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// Enable foreign keys (disabled by default in SQLite)
	if _, err := db.Exec("PRAGMA foreign_keys = ON;"); err != nil {
		_ = db.Close()
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate runs database migrations to create the required tables.
// It is idempotent and can be run multiple times safely.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS index_manifest (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			embedding_model TEXT NOT NULL,
			vector_size INTEGER NOT NULL,
			max_chunk_chars INTEGER NOT NULL,
			chunk_overlap INTEGER NOT NULL,
			chunker_version TEXT NOT NULL,
			index_version TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE TABLE IF NOT EXISTS ingest_runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			started_at DATETIME NOT NULL,
			duration_ms INTEGER NOT NULL,
			docs_processed INTEGER NOT NULL,
			chunks_indexed INTEGER NOT NULL,
			pairing_skips INTEGER NOT NULL,
			doc_failures INTEGER NOT NULL,
			strict INTEGER NOT NULL DEFAULT 0
		);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}
