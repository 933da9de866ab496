package tasks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/manisai28/vseo/internal/models"
	"github.com/manisai28/vseo/internal/services"
	"github.com/manisai28/vseo/internal/shared"
)

type fakeYouTube struct {
	statusConnected bool
	statusErr       error

	uploadReq    services.PublishRequest
	uploadID     string
	uploadResult *services.PublishResult
	uploadErr    error
}

func (f *fakeYouTube) AuthURL(ctx context.Context) (string, error) { return "", nil }

func (f *fakeYouTube) Callback(ctx context.Context, code, state string) (bool, error) {
	return false, nil
}

func (f *fakeYouTube) Status(ctx context.Context) (bool, error) {
	return f.statusConnected, f.statusErr
}

func (f *fakeYouTube) ConnectWithToken(ctx context.Context, accessToken string) error { return nil }

func (f *fakeYouTube) Upload(ctx context.Context, videoID string, req services.PublishRequest) (*services.PublishResult, error) {
	f.uploadID = videoID
	f.uploadReq = req
	return f.uploadResult, f.uploadErr
}

type fakeKeywordResolver struct {
	set *models.KeywordSet
	err error
}

func (f *fakeKeywordResolver) GetKeywords(ctx context.Context, keywordID string) (*models.KeywordSet, error) {
	return f.set, f.err
}

func TestPublishEngine(t *testing.T) {
	ctx := context.Background()

	t.Run("Status", func(t *testing.T) {
		t.Run("Reports Connection Flag", func(t *testing.T) {
			engine := NewPublishEngine(nil, &fakeYouTube{statusConnected: true}, nil)
			if !engine.Status(ctx) {
				t.Error("expected connected")
			}
		})

		t.Run("Probe Failure Means Not Connected", func(t *testing.T) {
			engine := NewPublishEngine(nil, &fakeYouTube{statusErr: errors.New("boom")}, nil)
			if engine.Status(ctx) {
				t.Error("expected not connected on probe failure")
			}
		})
	})

	t.Run("Publish", func(t *testing.T) {
		result := &services.PublishResult{Success: true, URL: "https://youtu.be/abc"}

		t.Run("Refuses Unprocessed Video", func(t *testing.T) {
			engine := NewPublishEngine(nil, &fakeYouTube{}, nil)

			_, err := engine.Publish(ctx, models.VideoRecord{ID: "v1"}, "")
			if !errors.Is(err, shared.ErrNotProcessed) {
				t.Errorf("expected ErrNotProcessed, got %v", err)
			}
		})

		t.Run("Refuses Already Published Video", func(t *testing.T) {
			engine := NewPublishEngine(nil, &fakeYouTube{}, nil)

			video := models.VideoRecord{ID: "v1", KeywordsID: "k1", YoutubeUploaded: true}
			_, err := engine.Publish(ctx, video, "")
			if !errors.Is(err, shared.ErrAlreadyPublished) {
				t.Errorf("expected ErrAlreadyPublished, got %v", err)
			}
		})

		t.Run("Uploads With Record Keywords", func(t *testing.T) {
			youtube := &fakeYouTube{uploadResult: result}
			engine := NewPublishEngine(nil, youtube, nil)

			video := models.VideoRecord{
				ID:         "v1",
				Title:      "My Talk",
				KeywordsID: "k1",
				Keywords:   []string{"go", "testing"},
			}
			if _, err := engine.Publish(ctx, video, ""); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if youtube.uploadID != "v1" {
				t.Errorf("unexpected video id %q", youtube.uploadID)
			}
			if youtube.uploadReq.Title != "My Talk" {
				t.Errorf("unexpected title %q", youtube.uploadReq.Title)
			}
			if len(youtube.uploadReq.Tags) != 2 {
				t.Errorf("expected all keywords as tags, got %v", youtube.uploadReq.Tags)
			}
		})

		t.Run("Resolves Keywords When Record Has None", func(t *testing.T) {
			youtube := &fakeYouTube{uploadResult: result}
			resolver := &fakeKeywordResolver{set: &models.KeywordSet{ID: "k1", Keywords: []string{"go"}}}
			engine := NewPublishEngine(resolver, youtube, nil)

			video := models.VideoRecord{ID: "v1", KeywordsID: "k1"}
			if _, err := engine.Publish(ctx, video, ""); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(youtube.uploadReq.Tags) != 1 || youtube.uploadReq.Tags[0] != "go" {
				t.Errorf("expected resolved keywords, got %v", youtube.uploadReq.Tags)
			}
		})

		t.Run("Resolver Failure Is Tolerated", func(t *testing.T) {
			youtube := &fakeYouTube{uploadResult: result}
			resolver := &fakeKeywordResolver{err: errors.New("backend down")}
			engine := NewPublishEngine(resolver, youtube, nil)

			video := models.VideoRecord{ID: "v1", KeywordsID: "k1"}
			if _, err := engine.Publish(ctx, video, ""); err != nil {
				t.Fatalf("expected publish to proceed, got %v", err)
			}
			if youtube.uploadReq.Description != "Video analyzed with SEO keywords: SEO optimized content" {
				t.Errorf("expected fallback description, got %q", youtube.uploadReq.Description)
			}
		})

		t.Run("Upload Surfaces Backend Detail", func(t *testing.T) {
			youtube := &fakeYouTube{uploadErr: &services.StatusError{Code: 403, Detail: "YouTube account not connected"}}
			engine := NewPublishEngine(nil, youtube, nil)

			video := models.VideoRecord{ID: "v1", KeywordsID: "k1", Keywords: []string{"go"}}
			_, err := engine.Publish(ctx, video, "")
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), "YouTube account not connected") {
				t.Errorf("expected detail in error, got %v", err)
			}
		})
	})
}

func TestBuildPublishRequest(t *testing.T) {
	t.Run("Embeds First Five Keywords", func(t *testing.T) {
		keywords := []string{"one", "two", "three", "four", "five", "six"}
		req := buildPublishRequest("demo", keywords)

		want := "Video analyzed with SEO keywords: one, two, three, four, five"
		if req.Description != want {
			t.Errorf("unexpected description %q", req.Description)
		}
		if len(req.Tags) != 6 {
			t.Errorf("expected all keywords as tags, got %d", len(req.Tags))
		}
	})

	t.Run("No Keywords Falls Back", func(t *testing.T) {
		req := buildPublishRequest("demo", nil)
		if req.Description != "Video analyzed with SEO keywords: SEO optimized content" {
			t.Errorf("unexpected description %q", req.Description)
		}
	})

	t.Run("Empty Title Defaults", func(t *testing.T) {
		req := buildPublishRequest("", nil)
		if req.Title != "Untitled Video" {
			t.Errorf("expected Untitled Video, got %q", req.Title)
		}
	})

	t.Run("Privacy Defaults To Private", func(t *testing.T) {
		req := buildPublishRequest("demo", []string{"go"})
		if req.PrivacyStatus != "private" {
			t.Errorf("expected private, got %q", req.PrivacyStatus)
		}
	})
}
