package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"promptforge/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS app_state (
    slot        TEXT PRIMARY KEY,
    payload     BLOB NOT NULL,
    updated_at  TEXT NOT NULL DEFAULT (datetime('now'))
);
`

// SQLiteSlot stores the serialized state as a single row in a key-value
// table. It is an alternative medium for setups that prefer a database file
// over a plain JSON document.
type SQLiteSlot struct {
	db   *sql.DB
	slot string
}

// OpenSQLiteSlot opens (creating if needed) the SQLite database at dbPath
// and ensures the state table exists.
func OpenSQLiteSlot(dbPath string) (*SQLiteSlot, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("running schema migration: %w", err)
	}
	return &SQLiteSlot{db: db, slot: SlotName}, nil
}

// Load reads and validates the persisted state. A missing row is an empty
// slot, not an error.
func (s *SQLiteSlot) Load() (*models.State, error) {
	var payload []byte
	err := s.db.QueryRow(`SELECT payload FROM app_state WHERE slot = ?`, s.slot).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading state row: %w", err)
	}
	return decodeState(payload)
}

// Save upserts the state row for this slot.
func (s *SQLiteSlot) Save(state models.State) error {
	payload, err := encodeState(state)
	if err != nil {
		return err
	}
	_, err = s.db.Exec(`
INSERT INTO app_state (slot, payload, updated_at) VALUES (?, ?, datetime('now'))
ON CONFLICT(slot) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		s.slot, payload)
	if err != nil {
		return fmt.Errorf("writing state row: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}
