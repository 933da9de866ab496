package repositories

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/manisai28/vseo/internal/models"
)

// CacheStore is the facade over the cache repositories used by sync, the
// bulk ranking refresh, and the offline results viewer.
type CacheStore struct {
	db       *sql.DB
	videos   *VideoRepository
	keywords *KeywordSetRepository
	rankings *RankingRepository
}

// NewCacheStore creates a CacheStore backed by the given database.
func NewCacheStore(db *sql.DB) *CacheStore {
	return &CacheStore{
		db:       db,
		videos:   NewVideoRepository(db),
		keywords: NewKeywordSetRepository(db),
		rankings: NewRankingRepository(db),
	}
}

// UpsertVideo inserts or updates the cached row for a backend record.
func (s *CacheStore) UpsertVideo(record models.VideoRecord) error {
	existing, err := s.videos.GetByRemoteID(record.ID)
	if err != nil {
		if !strings.Contains(err.Error(), "not found") {
			return err
		}
		video := models.NewCachedVideo(0, record.ID, record.Title)
		applyRecord(video, record)
		return s.videos.Create(video)
	}

	applyRecord(existing, record)
	return s.videos.Update(existing)
}

func applyRecord(video *models.CachedVideo, record models.VideoRecord) {
	if record.Title != "" {
		video.SetTitle(record.Title)
	}
	video.SetExtractedText(record.ExtractedText)
	video.SetKeywordsID(record.KeywordsID)
	video.SetYoutubeUploaded(record.YoutubeUploaded)
	video.SetYoutubeUploadDate(record.YoutubeUploadDate)
}

// ReplaceKeywords replaces the cached keyword set for a video.
func (s *CacheStore) ReplaceKeywords(videoID, keywordsID string, keywords []string) error {
	existing, err := s.keywords.GetByRemoteID(keywordsID)
	if err != nil {
		if !strings.Contains(err.Error(), "not found") {
			return err
		}
		return s.keywords.Create(models.NewCachedKeywordSet(0, keywordsID, videoID, keywords))
	}

	existing.SetKeywords(keywords)
	return s.keywords.Update(existing)
}

// ReplaceRankings swaps the cached rankings for a keyword set.
func (s *CacheStore) ReplaceRankings(keywordsID string, rankings []models.RankingEntry) error {
	return s.rankings.ReplaceForKeywordSet(keywordsID, rankings)
}

// Videos returns every cached video as a backend-shaped record, keywords
// and rankings attached when present.
func (s *CacheStore) Videos() ([]models.VideoRecord, error) {
	cached, err := s.videos.List(nil)
	if err != nil {
		return nil, err
	}

	records := make([]models.VideoRecord, 0, len(cached))
	for _, video := range cached {
		record, err := s.hydrate(video)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// Video returns a single cached record by its backend id.
func (s *CacheStore) Video(remoteID string) (*models.VideoRecord, error) {
	cached, err := s.videos.GetByRemoteID(remoteID)
	if err != nil {
		return nil, err
	}
	record, err := s.hydrate(cached)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *CacheStore) hydrate(video *models.CachedVideo) (models.VideoRecord, error) {
	record := video.Record()
	if video.KeywordsID() == "" {
		return record, nil
	}

	set, err := s.keywords.GetByRemoteID(video.KeywordsID())
	if err == nil {
		record.Keywords = set.Keywords()
	}

	cached, err := s.rankings.List(map[string]any{"keyword_set_remote_id": video.KeywordsID()})
	if err != nil {
		return record, err
	}
	for _, ranking := range cached {
		record.Rankings = append(record.Rankings, ranking.Entry())
	}
	return record, nil
}

// Clear hard-deletes all cached rows. Sequences are kept so ids stay
// monotonic across clears.
func (s *CacheStore) Clear() error {
	for _, table := range []string{"rankings", "keyword_sets", "videos"} {
		if _, err := s.db.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	return nil
}
