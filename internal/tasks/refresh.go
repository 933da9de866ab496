package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/manisai28/vseo/internal/models"
	"github.com/manisai28/vseo/internal/services"
	"github.com/manisai28/vseo/internal/shared"
	"golang.org/x/time/rate"
)

// Cache is the local store the refresh engine writes through.
type Cache interface {
	UpsertVideo(record models.VideoRecord) error
	ReplaceKeywords(videoID, keywordsID string, keywords []string) error
	ReplaceRankings(keywordsID string, rankings []models.RankingEntry) error
	Videos() ([]models.VideoRecord, error)
}

// RefreshBackend is the slice of the API client the refresh engine uses.
type RefreshBackend interface {
	History(ctx context.Context) ([]models.VideoRecord, error)
	GetRankings(ctx context.Context, keywordID string) (*services.RankingResult, error)
}

// SyncResult summarizes a history pull into the local cache.
type SyncResult struct {
	Total   int
	Updated int
	Failed  int
}

// RefreshResult summarizes a bulk ranking refresh.
type RefreshResult struct {
	Total     int
	Refreshed int
	Skipped   int
	Failed    []string // Video ids whose refresh failed
}

// RefreshEngine keeps the local cache current with the remote account.
type RefreshEngine struct {
	backend RefreshBackend
	cache   Cache
	logger  *log.Logger
	limit   float64
}

// NewRefreshEngine creates a RefreshEngine. rateLimit is requests per
// second for bulk refreshes; values <= 0 fall back to 5.
func NewRefreshEngine(backend RefreshBackend, cache Cache, rateLimit float64, logger *log.Logger) *RefreshEngine {
	if rateLimit <= 0 {
		rateLimit = 5.0
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &RefreshEngine{backend: backend, cache: cache, logger: logger, limit: rateLimit}
}

func (e *RefreshEngine) sendProgress(prog chan<- ProgressUpdate, update ProgressUpdate) {
	if prog == nil {
		return
	}
	select {
	case prog <- update:
	default:
	}
}

// Sync pulls the account's processing history and upserts every record
// into the cache. Individual record failures are counted, not fatal.
func (e *RefreshEngine) Sync(ctx context.Context, prog chan<- ProgressUpdate) (*SyncResult, error) {
	if e.cache == nil {
		return nil, fmt.Errorf("%w: cache not initialized", shared.ErrServiceUnavailable)
	}

	records, err := e.backend.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history: %w", err)
	}

	result := &SyncResult{Total: len(records)}
	for i, record := range records {
		e.sendProgress(prog, syncUpdate(i+1, len(records), record.Title))

		if err := e.cache.UpsertVideo(record); err != nil {
			e.logger.Warn("failed to cache video", "video", record.ID, "err", err)
			result.Failed++
			continue
		}
		if record.KeywordsID != "" && len(record.Keywords) > 0 {
			if err := e.cache.ReplaceKeywords(record.ID, record.KeywordsID, record.Keywords); err != nil {
				e.logger.Warn("failed to cache keywords", "video", record.ID, "err", err)
			}
		}
		if record.KeywordsID != "" && len(record.Rankings) > 0 {
			if err := e.cache.ReplaceRankings(record.KeywordsID, record.Rankings); err != nil {
				e.logger.Warn("failed to cache rankings", "video", record.ID, "err", err)
			}
		}
		result.Updated++
	}
	return result, nil
}

// Refresh re-fetches rankings for every processed video in the cache,
// rate limited to avoid hammering the ranking service. Videos without a
// keyword set are skipped. Failed refreshes are collected and reported;
// there are no retries.
func (e *RefreshEngine) Refresh(ctx context.Context, prog chan<- ProgressUpdate) (*RefreshResult, error) {
	if e.cache == nil {
		return nil, fmt.Errorf("%w: cache not initialized", shared.ErrServiceUnavailable)
	}

	videos, err := e.cache.Videos()
	if err != nil {
		return nil, fmt.Errorf("failed to read cache: %w", err)
	}

	result := &RefreshResult{Total: len(videos)}
	limiter := rate.NewLimiter(rate.Limit(e.limit), 1)

	for i, video := range videos {
		if video.KeywordsID == "" {
			result.Skipped++
			continue
		}

		if err := limiter.Wait(ctx); err != nil {
			return result, err
		}

		e.sendProgress(prog, refreshUpdate(i+1, len(videos), video.Title))

		start := time.Now()
		rankings, err := e.backend.GetRankings(ctx, video.KeywordsID)
		if err != nil {
			e.logger.Warn("ranking refresh failed", "video", video.ID, "err", err)
			result.Failed = append(result.Failed, video.ID)
			continue
		}
		e.logger.Debug("refreshed rankings", "video", video.ID, "took", time.Since(start))

		if err := e.cache.ReplaceRankings(video.KeywordsID, rankings.Rankings); err != nil {
			e.logger.Warn("failed to cache rankings", "video", video.ID, "err", err)
			result.Failed = append(result.Failed, video.ID)
			continue
		}
		result.Refreshed++
	}
	return result, nil
}
