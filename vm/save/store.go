package save

import (
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// ErrSaveNotFound indicates the requested save slot doesn't exist.
var ErrSaveNotFound = errors.New("save not found")

// Store keeps saved games in a sqlite database, one row per slot, keyed by a
// generated id and grouped by story identity.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Record describes one stored save.
type Record struct {
	ID      string
	Name    string
	Created time.Time
}

// OpenStore opens (creating if needed) the save database at path.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Set busy timeout for concurrent access
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS saves (
		id TEXT PRIMARY KEY,
		story TEXT NOT NULL,
		name TEXT NOT NULL,
		created TIMESTAMP NOT NULL,
		data BLOB NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Put stores an encoded save under a fresh id and returns it.
func (s *Store) Put(story Identity, name string, blob []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.New().String()
	_, err := s.db.Exec(
		"INSERT INTO saves (id, story, name, created, data) VALUES (?, ?, ?, ?, ?)",
		id, story.Key(), name, time.Now().UTC(), blob,
	)
	if err != nil {
		return "", fmt.Errorf("inserting save: %w", err)
	}
	return id, nil
}

// Get returns the blob for a save id.
func (s *Store) Get(id string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var blob []byte
	err := s.db.QueryRow("SELECT data FROM saves WHERE id = ?", id).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSaveNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading save: %w", err)
	}
	return blob, nil
}

// Latest returns the most recent blob for a story, or ErrSaveNotFound.
func (s *Store) Latest(story Identity) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var blob []byte
	err := s.db.QueryRow(
		"SELECT data FROM saves WHERE story = ? ORDER BY created DESC LIMIT 1",
		story.Key(),
	).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSaveNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading save: %w", err)
	}
	return blob, nil
}

// List returns the saves for a story, newest first.
func (s *Store) List(story Identity) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, err := s.db.Query(
		"SELECT id, name, created FROM saves WHERE story = ? ORDER BY created DESC",
		story.Key(),
	)
	if err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.ID, &r.Name, &r.Created); err != nil {
			return nil, fmt.Errorf("scanning save row: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Delete removes a save slot.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM saves WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting save: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSaveNotFound
	}
	return nil
}
