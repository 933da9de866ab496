package repositories

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/manisai28/vseo/internal/models"
	"github.com/manisai28/vseo/internal/shared"
)

// KeywordSetRepository implements models.Repository[*models.CachedKeywordSet].
//
// Keyword lists are stored as a JSON array in a single column; the cache
// only ever reads and replaces whole sets.
type KeywordSetRepository struct {
	db *sql.DB
}

// NewKeywordSetRepository creates a new KeywordSetRepository with the given database connection
func NewKeywordSetRepository(db *sql.DB) *KeywordSetRepository {
	return &KeywordSetRepository{db: db}
}

// Create inserts a new [models.CachedKeywordSet] into the database with generated ID and sequence
func (r *KeywordSetRepository) Create(set *models.CachedKeywordSet) error {
	sequence, err := NextSequence(r.db, "keyword_sets")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	set.SetID(id)

	if err := set.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	encoded, err := json.Marshal(set.Keywords())
	if err != nil {
		return fmt.Errorf("failed to encode keywords: %w", err)
	}

	query := `
		INSERT INTO keyword_sets (id, sequence, remote_id, video_remote_id, keywords, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		set.RemoteID(),
		set.VideoRemoteID(),
		string(encoded),
		set.CreatedAt(),
		set.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert keyword set: %w", err)
	}

	return nil
}

// Get retrieves a keyword set by local ID, excluding soft-deleted sets
func (r *KeywordSetRepository) Get(id string) (*models.CachedKeywordSet, error) {
	query := `
		SELECT id, sequence, remote_id, video_remote_id, keywords, created_at, updated_at, deleted_at
		FROM keyword_sets
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByRemoteID retrieves a keyword set by its backend id
func (r *KeywordSetRepository) GetByRemoteID(remoteID string) (*models.CachedKeywordSet, error) {
	query := `
		SELECT id, sequence, remote_id, video_remote_id, keywords, created_at, updated_at, deleted_at
		FROM keyword_sets
		WHERE remote_id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, remoteID))
}

// GetByVideo retrieves the keyword set generated for a video
func (r *KeywordSetRepository) GetByVideo(videoRemoteID string) (*models.CachedKeywordSet, error) {
	query := `
		SELECT id, sequence, remote_id, video_remote_id, keywords, created_at, updated_at, deleted_at
		FROM keyword_sets
		WHERE video_remote_id = ? AND deleted_at IS NULL
		LIMIT 1
	`

	return r.scanOne(r.db.QueryRow(query, videoRemoteID))
}

// Update modifies an existing keyword set in the database
func (r *KeywordSetRepository) Update(set *models.CachedKeywordSet) error {
	if err := set.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	encoded, err := json.Marshal(set.Keywords())
	if err != nil {
		return fmt.Errorf("failed to encode keywords: %w", err)
	}

	now := time.Now()
	set.SetUpdatedAt(now)

	query := `
		UPDATE keyword_sets
		SET keywords = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, string(encoded), now, set.ID())
	if err != nil {
		return fmt.Errorf("failed to update keyword set: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("keyword set not found or already deleted: %s", set.ID())
	}

	return nil
}

// Delete soft-deletes a keyword set by local ID
func (r *KeywordSetRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE keyword_sets
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete keyword set: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("keyword set not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all keyword sets, excluding soft-deleted sets
func (r *KeywordSetRepository) List(criteria map[string]any) ([]*models.CachedKeywordSet, error) {
	query := `
		SELECT id, sequence, remote_id, video_remote_id, keywords, created_at, updated_at, deleted_at
		FROM keyword_sets
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if videoID, ok := criteria["video_remote_id"].(string); ok && videoID != "" {
		query += " AND video_remote_id = ?"
		args = append(args, videoID)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query keyword sets: %w", err)
	}
	defer rows.Close()

	var sets []*models.CachedKeywordSet
	for rows.Next() {
		set, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		sets = append(sets, set)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return sets, nil
}

// scanOne scans a single [sql.Row] into a [models.CachedKeywordSet]
func (r *KeywordSetRepository) scanOne(row *sql.Row) (*models.CachedKeywordSet, error) {
	set, err := scanKeywordSet(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("keyword set not found")
	}
	return set, err
}

// scanRow scans a row from [sql.Rows] into a [models.CachedKeywordSet]
func (r *KeywordSetRepository) scanRow(rows *sql.Rows) (*models.CachedKeywordSet, error) {
	return scanKeywordSet(rows.Scan)
}

func scanKeywordSet(scan func(dest ...any) error) (*models.CachedKeywordSet, error) {
	var (
		id            string
		sequence      int
		remoteID      string
		videoRemoteID string
		encoded       string
		createdAt     time.Time
		updatedAt     time.Time
		deletedAt     sql.NullTime
	)

	err := scan(&id, &sequence, &remoteID, &videoRemoteID, &encoded, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan keyword set: %w", err)
	}

	var keywords []string
	if err := json.Unmarshal([]byte(encoded), &keywords); err != nil {
		return nil, fmt.Errorf("failed to decode keywords: %w", err)
	}

	set := models.NewCachedKeywordSet(sequence, remoteID, videoRemoteID, keywords)
	set.SetID(id)
	set.SetCreatedAt(createdAt)
	set.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		set.SetDeletedAt(&deletedAt.Time)
	}

	return set, nil
}
