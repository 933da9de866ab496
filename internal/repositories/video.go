package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/manisai28/vseo/internal/models"
	"github.com/manisai28/vseo/internal/shared"
)

// VideoRepository implements models.Repository[*models.CachedVideo] for the video cache.
//
// Rows are keyed by a local id but looked up by the backend's remote id,
// which is unique per account.
type VideoRepository struct {
	db *sql.DB
}

// NewVideoRepository creates a new VideoRepository with the given database connection
func NewVideoRepository(db *sql.DB) *VideoRepository {
	return &VideoRepository{db: db}
}

// Create inserts a new [models.CachedVideo] into the database with generated ID and sequence
func (r *VideoRepository) Create(video *models.CachedVideo) error {
	sequence, err := NextSequence(r.db, "videos")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	video.SetID(id)

	if err := video.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO videos (id, sequence, remote_id, title, extracted_text, keywords_id, youtube_uploaded, youtube_upload_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		video.RemoteID(),
		video.Title(),
		video.ExtractedText(),
		video.KeywordsID(),
		video.YoutubeUploaded(),
		video.YoutubeUploadDate(),
		video.CreatedAt(),
		video.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert video: %w", err)
	}

	return nil
}

// Get retrieves a video by local ID, excluding soft-deleted videos
func (r *VideoRepository) Get(id string) (*models.CachedVideo, error) {
	query := `
		SELECT id, sequence, remote_id, title, extracted_text, keywords_id, youtube_uploaded, youtube_upload_date, created_at, updated_at, deleted_at
		FROM videos
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByRemoteID retrieves a video by its backend id
func (r *VideoRepository) GetByRemoteID(remoteID string) (*models.CachedVideo, error) {
	query := `
		SELECT id, sequence, remote_id, title, extracted_text, keywords_id, youtube_uploaded, youtube_upload_date, created_at, updated_at, deleted_at
		FROM videos
		WHERE remote_id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, remoteID))
}

// Update modifies an existing video in the database
func (r *VideoRepository) Update(video *models.CachedVideo) error {
	if err := video.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	video.SetUpdatedAt(now)

	query := `
		UPDATE videos
		SET title = ?, extracted_text = ?, keywords_id = ?, youtube_uploaded = ?, youtube_upload_date = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		video.Title(),
		video.ExtractedText(),
		video.KeywordsID(),
		video.YoutubeUploaded(),
		video.YoutubeUploadDate(),
		now,
		video.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update video: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("video not found or already deleted: %s", video.ID())
	}

	return nil
}

// Delete soft-deletes a video by local ID
func (r *VideoRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE videos
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete video: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("video not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all videos matching the given criteria, excluding soft-deleted videos
func (r *VideoRepository) List(criteria map[string]any) ([]*models.CachedVideo, error) {
	query := `
		SELECT id, sequence, remote_id, title, extracted_text, keywords_id, youtube_uploaded, youtube_upload_date, created_at, updated_at, deleted_at
		FROM videos
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if processed, ok := criteria["processed"].(bool); ok {
		if processed {
			query += " AND keywords_id != ''"
		} else {
			query += " AND keywords_id = ''"
		}
	}

	if uploaded, ok := criteria["youtube_uploaded"].(bool); ok {
		query += " AND youtube_uploaded = ?"
		args = append(args, uploaded)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query videos: %w", err)
	}
	defer rows.Close()

	var videos []*models.CachedVideo
	for rows.Next() {
		video, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return videos, nil
}

// scanOne scans a single [sql.Row] into a [models.CachedVideo]
func (r *VideoRepository) scanOne(row *sql.Row) (*models.CachedVideo, error) {
	video, err := scanVideo(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("video not found")
	}
	return video, err
}

// scanRow scans a row from [sql.Rows] into a [models.CachedVideo]
func (r *VideoRepository) scanRow(rows *sql.Rows) (*models.CachedVideo, error) {
	return scanVideo(rows.Scan)
}

func scanVideo(scan func(dest ...any) error) (*models.CachedVideo, error) {
	var (
		id            string
		sequence      int
		remoteID      string
		title         string
		extractedText sql.NullString
		keywordsID    sql.NullString
		uploaded      bool
		uploadDate    sql.NullTime
		createdAt     time.Time
		updatedAt     time.Time
		deletedAt     sql.NullTime
	)

	err := scan(&id, &sequence, &remoteID, &title, &extractedText, &keywordsID, &uploaded, &uploadDate, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan video: %w", err)
	}

	video := models.NewCachedVideo(sequence, remoteID, title)
	video.SetID(id)
	video.SetCreatedAt(createdAt)
	video.SetUpdatedAt(updatedAt)
	video.SetExtractedText(extractedText.String)
	video.SetKeywordsID(keywordsID.String)
	video.SetYoutubeUploaded(uploaded)
	if uploadDate.Valid {
		video.SetYoutubeUploadDate(&uploadDate.Time)
	}
	if deletedAt.Valid {
		video.SetDeletedAt(&deletedAt.Time)
	}

	return video, nil
}
