// package repositories provides the persistence layer for cached analysis data.
//
// Each repository implements models.Repository[T] for a specific entity type,
// handling CRUD operations, soft deletes, and sequence generation.
package repositories

import (
	"database/sql"
	"fmt"
)

// NextSequence atomically increments and returns the next sequence number for the given name.
//
// Sequence numbers provide human-readable ordering for entities (e.g., video #42).
// They are NOT exposed in CLI output but used internally for sorting and debugging.
func NextSequence(db *sql.DB, name string) (int, error) {
	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec("INSERT INTO sequences (name, value) VALUES (?, 0) ON CONFLICT(name) DO NOTHING", name)
	if err != nil {
		return 0, fmt.Errorf("failed to seed sequence: %w", err)
	}

	_, err = tx.Exec("UPDATE sequences SET value = value + 1 WHERE name = ?", name)
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence: %w", err)
	}

	var sequence int
	err = tx.QueryRow("SELECT value FROM sequences WHERE name = ?", name).Scan(&sequence)
	if err != nil {
		return 0, fmt.Errorf("failed to get sequence value: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit sequence transaction: %w", err)
	}

	return sequence, nil
}
