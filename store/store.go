// Package store persists the processing history in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// Record is one processed document.
type Record struct {
	ID            string `json:"id"`
	Filename      string `json:"filename"`
	StoredPath    string `json:"stored_path"`
	OriginalText  string `json:"original_text"`
	Summary       string `json:"summary"`
	SummarySource string `json:"summary_source"` // "model" or "excerpt"
	CreatedAt     string `json:"created_at"`
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS documents (
	id TEXT PRIMARY KEY,
	filename TEXT NOT NULL,
	stored_path TEXT NOT NULL,
	original_text TEXT NOT NULL,
	summary TEXT NOT NULL,
	summary_source TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);
CREATE INDEX IF NOT EXISTS idx_documents_created_at ON documents(created_at);
`

// Store wraps the SQLite database holding the processing history.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and initialises the schema.
func New(dbPath string) (*Store, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(30 * time.Minute)

	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert records a processed document. A missing ID is generated.
func (s *Store) Insert(ctx context.Context, rec Record) error {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, filename, stored_path, original_text, summary, summary_source)
		VALUES (?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.Filename, rec.StoredPath, rec.OriginalText, rec.Summary, rec.SummarySource)
	if err != nil {
		return fmt.Errorf("inserting document record: %w", err)
	}
	return nil
}

// List returns the processing history, newest first.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, filename, stored_path, original_text, summary, summary_source, created_at
		FROM documents ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Filename, &r.StoredPath, &r.OriginalText,
			&r.Summary, &r.SummarySource, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning document record: %w", err)
		}
		recs = append(recs, r)
	}
	return recs, rows.Err()
}
