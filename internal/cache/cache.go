package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Store is a SQLite-backed cache of generated explanations, keyed by chat
// model and the SHA-256 of the code text. Reruns over an unchanged file skip
// the collaborator entirely.
type Store struct {
	db *sql.DB
}

const createExplanationsTable = `
CREATE TABLE IF NOT EXISTS explanations (
	model TEXT NOT NULL,
	code_sha256 TEXT NOT NULL,
	explanation TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (model, code_sha256)
)`

// DefaultPath returns the default cache database location,
// ~/.pydocgen/cache/explanations.db.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".pydocgen", "cache", "explanations.db")
}

// Open opens (creating if needed) the cache database at path and ensures the
// schema exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	tx, err := db.Begin()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback() // Safe to call even after commit

	if _, err := tx.Exec(createExplanationsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create explanations table: %w", err)
	}
	if err := tx.Commit(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to commit schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Get looks up the cached explanation for (model, code). The boolean is
// false on a miss.
func (s *Store) Get(model, code string) (string, bool, error) {
	var explanation string
	err := s.db.QueryRow(
		"SELECT explanation FROM explanations WHERE model = ? AND code_sha256 = ?",
		model, hashCode(code),
	).Scan(&explanation)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache lookup failed: %w", err)
	}
	return explanation, true, nil
}

// Put stores an explanation for (model, code), replacing any previous entry.
func (s *Store) Put(model, code, explanation string) error {
	_, err := s.db.Exec(
		"INSERT OR REPLACE INTO explanations (model, code_sha256, explanation) VALUES (?, ?, ?)",
		model, hashCode(code), explanation,
	)
	if err != nil {
		return fmt.Errorf("cache write failed: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ForModel binds the store to one chat model, yielding the degraded-on-error
// lookup interface the explanation requester expects: cache failures are
// logged and treated as misses, never surfaced.
func (s *Store) ForModel(model string) *ModelCache {
	return &ModelCache{store: s, model: model}
}

// ModelCache adapts Store to per-model Get/Put with absorbed errors.
type ModelCache struct {
	store *Store
	model string
}

func (c *ModelCache) Get(code string) (string, bool) {
	explanation, ok, err := c.store.Get(c.model, code)
	if err != nil {
		log.Printf("Warning: explanation cache read failed: %v", err)
		return "", false
	}
	return explanation, ok
}

func (c *ModelCache) Put(code, explanation string) {
	if err := c.store.Put(c.model, code, explanation); err != nil {
		log.Printf("Warning: explanation cache write failed: %v", err)
	}
}

func hashCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}
