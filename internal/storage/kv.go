// Package storage provides the on-device durable key-value cache. Values are
// JSON-serialized blobs keyed by fixed string constants, mirroring the
// string-keyed storage the rest of the application was built around.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"
)

// Error wraps a local persistence failure so callers can tell storage
// failures apart from remote ones.
type Error struct {
	Op  string // "get", "set", "remove"
	Key string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

const schema = `
CREATE TABLE IF NOT EXISTS kv_store (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL,
    updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
);
`

// Blob is a string-keyed get/set/remove store over the local database
type Blob struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewBlob creates the blob store and ensures its table exists
func NewBlob(db *sql.DB, log zerolog.Logger) (*Blob, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to init kv schema: %w", err)
	}
	return &Blob{
		db:  db,
		log: log.With().Str("component", "storage").Logger(),
	}, nil
}

// Get returns the raw value for key. Missing keys return ok=false, not an error.
func (b *Blob) Get(key string) (string, bool, error) {
	var value string
	err := b.db.QueryRow("SELECT value FROM kv_store WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, &Error{Op: "get", Key: key, Err: err}
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value
func (b *Blob) Set(key, value string) error {
	query := `
		INSERT INTO kv_store (key, value, updated_at)
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`
	if _, err := b.db.Exec(query, key, value); err != nil {
		return &Error{Op: "set", Key: key, Err: err}
	}
	return nil
}

// Remove deletes key. Removing an absent key is a no-op.
func (b *Blob) Remove(key string) error {
	if _, err := b.db.Exec("DELETE FROM kv_store WHERE key = ?", key); err != nil {
		return &Error{Op: "remove", Key: key, Err: err}
	}
	return nil
}

// GetJSON unmarshals the value under key into v. Missing keys return ok=false
// and leave v untouched.
func (b *Blob) GetJSON(key string, v interface{}) (bool, error) {
	raw, ok, err := b.Get(key)
	if err != nil || !ok {
		return ok, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, &Error{Op: "get", Key: key, Err: err}
	}
	return true, nil
}

// SetJSON marshals v and stores it under key
func (b *Blob) SetJSON(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return &Error{Op: "set", Key: key, Err: err}
	}
	return b.Set(key, string(raw))
}
