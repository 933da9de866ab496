package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/manisai28/vseo/internal/models"
	"github.com/manisai28/vseo/internal/shared"
)

// RankingRepository implements models.Repository[*models.CachedRanking].
//
// Rankings are replaced as a group per keyword set on every refresh, so
// writes are batched inside a transaction via ReplaceForKeywordSet.
type RankingRepository struct {
	db *sql.DB
}

// NewRankingRepository creates a new RankingRepository with the given database connection
func NewRankingRepository(db *sql.DB) *RankingRepository {
	return &RankingRepository{db: db}
}

// Create inserts a new [models.CachedRanking] into the database with generated ID and sequence
func (r *RankingRepository) Create(ranking *models.CachedRanking) error {
	sequence, err := NextSequence(r.db, "rankings")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	ranking.SetID(id)

	if err := ranking.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO rankings (id, sequence, keyword_set_remote_id, keyword, rank, search_volume, competition, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		ranking.KeywordSetRemoteID(),
		ranking.Keyword(),
		ranking.Rank(),
		ranking.SearchVolume(),
		ranking.Competition(),
		ranking.CreatedAt(),
		ranking.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert ranking: %w", err)
	}

	return nil
}

// Get retrieves a ranking by local ID, excluding soft-deleted rankings
func (r *RankingRepository) Get(id string) (*models.CachedRanking, error) {
	query := `
		SELECT id, sequence, keyword_set_remote_id, keyword, rank, search_volume, competition, created_at, updated_at, deleted_at
		FROM rankings
		WHERE id = ? AND deleted_at IS NULL
	`

	ranking, err := scanRanking(r.db.QueryRow(query, id).Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("ranking not found")
	}
	return ranking, err
}

// Update modifies an existing ranking in the database
func (r *RankingRepository) Update(ranking *models.CachedRanking) error {
	if err := ranking.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	ranking.SetUpdatedAt(now)

	query := `
		UPDATE rankings
		SET rank = ?, search_volume = ?, competition = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		ranking.Rank(),
		ranking.SearchVolume(),
		ranking.Competition(),
		now,
		ranking.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update ranking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("ranking not found or already deleted: %s", ranking.ID())
	}

	return nil
}

// Delete soft-deletes a ranking by local ID
func (r *RankingRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE rankings
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete ranking: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("ranking not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all rankings matching the given criteria, excluding soft-deleted rankings
func (r *RankingRepository) List(criteria map[string]any) ([]*models.CachedRanking, error) {
	query := `
		SELECT id, sequence, keyword_set_remote_id, keyword, rank, search_volume, competition, created_at, updated_at, deleted_at
		FROM rankings
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if setID, ok := criteria["keyword_set_remote_id"].(string); ok && setID != "" {
		query += " AND keyword_set_remote_id = ?"
		args = append(args, setID)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rankings: %w", err)
	}
	defer rows.Close()

	var rankings []*models.CachedRanking
	for rows.Next() {
		ranking, err := scanRanking(rows.Scan)
		if err != nil {
			return nil, err
		}
		rankings = append(rankings, ranking)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return rankings, nil
}

// ReplaceForKeywordSet swaps all rankings for a keyword set in one transaction.
//
// The previous rows are hard-deleted rather than soft-deleted; stale
// ranking snapshots have no recovery value.
func (r *RankingRepository) ReplaceForKeywordSet(keywordSetRemoteID string, entries []models.RankingEntry) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM rankings WHERE keyword_set_remote_id = ?", keywordSetRemoteID); err != nil {
		return fmt.Errorf("failed to clear rankings: %w", err)
	}

	query := `
		INSERT INTO rankings (id, sequence, keyword_set_remote_id, keyword, rank, search_volume, competition, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	for i, entry := range entries {
		ranking := models.NewCachedRanking(i+1, keywordSetRemoteID, entry)
		ranking.SetID(shared.GenerateID())

		if err := ranking.Validate(); err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}

		_, err = tx.Exec(query,
			ranking.ID(),
			ranking.Sequence(),
			ranking.KeywordSetRemoteID(),
			ranking.Keyword(),
			ranking.Rank(),
			ranking.SearchVolume(),
			ranking.Competition(),
			ranking.CreatedAt(),
			ranking.UpdatedAt(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert ranking: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rankings: %w", err)
	}

	return nil
}

func scanRanking(scan func(dest ...any) error) (*models.CachedRanking, error) {
	var (
		id           string
		sequence     int
		setRemoteID  string
		keyword      string
		rank         float64
		searchVolume sql.NullInt64
		competition  sql.NullFloat64
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	err := scan(&id, &sequence, &setRemoteID, &keyword, &rank, &searchVolume, &competition, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan ranking: %w", err)
	}

	entry := models.RankingEntry{Keyword: keyword, Rank: rank}
	if searchVolume.Valid {
		volume := int(searchVolume.Int64)
		entry.SearchVolume = &volume
	}
	if competition.Valid {
		score := competition.Float64
		entry.Competition = &score
	}

	ranking := models.NewCachedRanking(sequence, setRemoteID, entry)
	ranking.SetID(id)
	ranking.SetCreatedAt(createdAt)
	ranking.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		ranking.SetDeletedAt(&deletedAt.Time)
	}

	return ranking, nil
}
