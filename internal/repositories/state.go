package repositories

import (
	"database/sql"
	"fmt"
	"time"
)

// StateRepository stores client-side values by key in the client_state table.
type StateRepository struct {
	db *sql.DB
}

// NewStateRepository creates a new [StateRepository] with the given database connection
func NewStateRepository(db *sql.DB) *StateRepository {
	return &StateRepository{db: db}
}

// Load returns the value stored under key. found is false when the key is absent.
func (r *StateRepository) Load(key string) (value []byte, found bool, err error) {
	var raw string
	err = r.db.QueryRow(`SELECT value FROM client_state WHERE key = ?`, key).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query state %s: %w", key, err)
	}
	return []byte(raw), true, nil
}

// Save inserts or replaces the value stored under key.
func (r *StateRepository) Save(key string, value []byte) error {
	query := `
		INSERT INTO client_state (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(query, key, string(value), time.Now()); err != nil {
		return fmt.Errorf("failed to save state %s: %w", key, err)
	}
	return nil
}

// Remove deletes key. Removing an absent key is not an error.
func (r *StateRepository) Remove(key string) error {
	if _, err := r.db.Exec(`DELETE FROM client_state WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to remove state %s: %w", key, err)
	}
	return nil
}
