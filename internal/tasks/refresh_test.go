package tasks

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/manisai28/vseo/internal/models"
	"github.com/manisai28/vseo/internal/services"
	"github.com/manisai28/vseo/internal/shared"
)

type fakeCache struct {
	videos []models.VideoRecord

	upserted       []string
	upsertErrFor   string
	keywordsFor    []string
	rankingsFor    []string
	rankingsErrFor string
	videosErr      error
}

func (f *fakeCache) UpsertVideo(record models.VideoRecord) error {
	if record.ID == f.upsertErrFor {
		return errors.New("disk full")
	}
	f.upserted = append(f.upserted, record.ID)
	return nil
}

func (f *fakeCache) ReplaceKeywords(videoID, keywordsID string, keywords []string) error {
	f.keywordsFor = append(f.keywordsFor, videoID)
	return nil
}

func (f *fakeCache) ReplaceRankings(keywordsID string, rankings []models.RankingEntry) error {
	if keywordsID == f.rankingsErrFor {
		return errors.New("disk full")
	}
	f.rankingsFor = append(f.rankingsFor, keywordsID)
	return nil
}

func (f *fakeCache) Videos() ([]models.VideoRecord, error) {
	return f.videos, f.videosErr
}

type fakeRefreshBackend struct {
	history    []models.VideoRecord
	historyErr error

	rankingErrFor string
	ranked        []string
}

func (f *fakeRefreshBackend) History(ctx context.Context) ([]models.VideoRecord, error) {
	return f.history, f.historyErr
}

func (f *fakeRefreshBackend) GetRankings(ctx context.Context, keywordID string) (*services.RankingResult, error) {
	if keywordID == f.rankingErrFor {
		return nil, errors.New("ranking service down")
	}
	f.ranked = append(f.ranked, keywordID)
	return &services.RankingResult{
		KeywordID: keywordID,
		Rankings:  []models.RankingEntry{{Keyword: "go", Rank: 1}},
	}, nil
}

func TestRefreshEngine(t *testing.T) {
	ctx := context.Background()

	t.Run("Sync", func(t *testing.T) {
		t.Run("Caches Every History Record", func(t *testing.T) {
			backend := &fakeRefreshBackend{history: []models.VideoRecord{
				{ID: "v1", Title: "a", KeywordsID: "k1", Keywords: []string{"go"}},
				{ID: "v2", Title: "b"},
			}}
			cache := &fakeCache{}
			engine := NewRefreshEngine(backend, cache, 100, nil)

			result, err := engine.Sync(ctx, nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result.Total != 2 || result.Updated != 2 || result.Failed != 0 {
				t.Errorf("unexpected result: %+v", result)
			}
			if !reflect.DeepEqual(cache.upserted, []string{"v1", "v2"}) {
				t.Errorf("unexpected upserts: %v", cache.upserted)
			}
			// Keywords only cached for the processed record.
			if !reflect.DeepEqual(cache.keywordsFor, []string{"v1"}) {
				t.Errorf("unexpected keyword caching: %v", cache.keywordsFor)
			}
		})

		t.Run("Record Failures Are Counted Not Fatal", func(t *testing.T) {
			backend := &fakeRefreshBackend{history: []models.VideoRecord{
				{ID: "v1"}, {ID: "v2"}, {ID: "v3"},
			}}
			cache := &fakeCache{upsertErrFor: "v2"}
			engine := NewRefreshEngine(backend, cache, 100, nil)

			result, err := engine.Sync(ctx, nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result.Updated != 2 || result.Failed != 1 {
				t.Errorf("unexpected result: %+v", result)
			}
		})

		t.Run("History Failure Is Fatal", func(t *testing.T) {
			backend := &fakeRefreshBackend{historyErr: errors.New("backend down")}
			engine := NewRefreshEngine(backend, &fakeCache{}, 100, nil)

			if _, err := engine.Sync(ctx, nil); err == nil {
				t.Error("expected error")
			}
		})

		t.Run("Nil Cache Is Unavailable", func(t *testing.T) {
			engine := NewRefreshEngine(&fakeRefreshBackend{}, nil, 100, nil)

			_, err := engine.Sync(ctx, nil)
			if !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
		})
	})

	t.Run("Refresh", func(t *testing.T) {
		t.Run("Skips Unprocessed Videos", func(t *testing.T) {
			backend := &fakeRefreshBackend{}
			cache := &fakeCache{videos: []models.VideoRecord{
				{ID: "v1", KeywordsID: "k1"},
				{ID: "v2"},
				{ID: "v3", KeywordsID: "k3"},
			}}
			engine := NewRefreshEngine(backend, cache, 100, nil)

			result, err := engine.Refresh(ctx, nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result.Total != 3 || result.Refreshed != 2 || result.Skipped != 1 {
				t.Errorf("unexpected result: %+v", result)
			}
			if !reflect.DeepEqual(backend.ranked, []string{"k1", "k3"}) {
				t.Errorf("unexpected ranking calls: %v", backend.ranked)
			}
			if !reflect.DeepEqual(cache.rankingsFor, []string{"k1", "k3"}) {
				t.Errorf("unexpected cache writes: %v", cache.rankingsFor)
			}
		})

		t.Run("Collects Failed Videos Without Retrying", func(t *testing.T) {
			backend := &fakeRefreshBackend{rankingErrFor: "k2"}
			cache := &fakeCache{videos: []models.VideoRecord{
				{ID: "v1", KeywordsID: "k1"},
				{ID: "v2", KeywordsID: "k2"},
			}}
			engine := NewRefreshEngine(backend, cache, 100, nil)

			result, err := engine.Refresh(ctx, nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result.Refreshed != 1 {
				t.Errorf("expected 1 refreshed, got %d", result.Refreshed)
			}
			if !reflect.DeepEqual(result.Failed, []string{"v2"}) {
				t.Errorf("unexpected failed list: %v", result.Failed)
			}
		})

		t.Run("Cache Write Failure Marks Video Failed", func(t *testing.T) {
			backend := &fakeRefreshBackend{}
			cache := &fakeCache{
				videos:         []models.VideoRecord{{ID: "v1", KeywordsID: "k1"}},
				rankingsErrFor: "k1",
			}
			engine := NewRefreshEngine(backend, cache, 100, nil)

			result, err := engine.Refresh(ctx, nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !reflect.DeepEqual(result.Failed, []string{"v1"}) {
				t.Errorf("unexpected failed list: %v", result.Failed)
			}
		})

		t.Run("Cancelled Context Returns Partial Result", func(t *testing.T) {
			cancelled, cancel := context.WithCancel(context.Background())
			cancel()

			backend := &fakeRefreshBackend{}
			cache := &fakeCache{videos: []models.VideoRecord{{ID: "v1", KeywordsID: "k1"}}}
			engine := NewRefreshEngine(backend, cache, 100, nil)

			result, err := engine.Refresh(cancelled, nil)
			if err == nil {
				t.Error("expected context error")
			}
			if result == nil || result.Total != 1 {
				t.Errorf("expected partial result, got %+v", result)
			}
		})
	})
}
