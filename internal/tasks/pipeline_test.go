package tasks

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/manisai28/vseo/internal/models"
	"github.com/manisai28/vseo/internal/services"
	"github.com/manisai28/vseo/internal/shared"
)

// fakeBackend is a scripted Backend that records the call order.
type fakeBackend struct {
	calls []string

	uploadRecord *models.VideoRecord
	uploadErr    error
	uploadTitle  string

	extractResult *services.StageResult
	extractErr    error

	generateResult *services.StageResult
	generateErr    error

	rankingResult *services.RankingResult
	rankingErr    error

	block chan struct{}
}

func (f *fakeBackend) UploadVideo(ctx context.Context, title, fileName string, file io.Reader) (*models.VideoRecord, error) {
	f.calls = append(f.calls, "upload")
	f.uploadTitle = title
	return f.uploadRecord, f.uploadErr
}

func (f *fakeBackend) ExtractText(ctx context.Context, videoID string) (*services.StageResult, error) {
	f.calls = append(f.calls, "extract")
	if f.block != nil {
		<-f.block
	}
	return f.extractResult, f.extractErr
}

func (f *fakeBackend) GenerateKeywords(ctx context.Context, videoID string) (*services.StageResult, error) {
	f.calls = append(f.calls, "generate")
	return f.generateResult, f.generateErr
}

func (f *fakeBackend) GetRankings(ctx context.Context, keywordID string) (*services.RankingResult, error) {
	f.calls = append(f.calls, "rank")
	return f.rankingResult, f.rankingErr
}

func happyBackend() *fakeBackend {
	return &fakeBackend{
		uploadRecord:   &models.VideoRecord{ID: "v1", Title: "demo"},
		extractResult:  &services.StageResult{VideoID: "v1"},
		generateResult: &services.StageResult{VideoID: "v1", KeywordID: "k1"},
		rankingResult: &services.RankingResult{
			KeywordID: "k1",
			Keywords:  []string{"go", "testing"},
			Rankings:  []models.RankingEntry{{Keyword: "go", Rank: 3}},
		},
	}
}

func tempVideoFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "myclip.mp4")
	if err := os.WriteFile(path, []byte("video-bytes"), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	return path
}

func TestProcessEngine(t *testing.T) {
	ctx := context.Background()

	t.Run("Upload", func(t *testing.T) {
		t.Run("Defaults Title From Filename", func(t *testing.T) {
			backend := happyBackend()
			engine := NewProcessEngine(backend)

			record, err := engine.Upload(ctx, "", tempVideoFile(t), nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if backend.uploadTitle != "myclip" {
				t.Errorf("expected defaulted title 'myclip', got %q", backend.uploadTitle)
			}
			if record.ID != "v1" {
				t.Errorf("unexpected record id %q", record.ID)
			}
		})

		t.Run("Keeps Explicit Title", func(t *testing.T) {
			backend := happyBackend()
			engine := NewProcessEngine(backend)

			if _, err := engine.Upload(ctx, "My Talk", tempVideoFile(t), nil); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if backend.uploadTitle != "My Talk" {
				t.Errorf("expected title preserved, got %q", backend.uploadTitle)
			}
		})

		t.Run("Missing Path Is Rejected", func(t *testing.T) {
			engine := NewProcessEngine(happyBackend())

			_, err := engine.Upload(ctx, "", "", nil)
			if !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})

		t.Run("Unreadable File Is Rejected", func(t *testing.T) {
			engine := NewProcessEngine(happyBackend())

			_, err := engine.Upload(ctx, "", filepath.Join(t.TempDir(), "missing.mp4"), nil)
			if !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	})

	t.Run("Process", func(t *testing.T) {
		t.Run("Runs Stages In Order", func(t *testing.T) {
			backend := happyBackend()
			engine := NewProcessEngine(backend)

			result, err := engine.Process(ctx, "v1", nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			want := []string{"extract", "generate", "rank"}
			if !reflect.DeepEqual(backend.calls, want) {
				t.Errorf("expected calls %v, got %v", want, backend.calls)
			}
			if result.VideoID != "v1" || result.KeywordID != "k1" {
				t.Errorf("unexpected result: %+v", result)
			}
			if len(result.Keywords) != 2 || len(result.Rankings) != 1 {
				t.Errorf("unexpected result payload: %+v", result)
			}
		})

		t.Run("Missing video_id Halts Before Generation", func(t *testing.T) {
			backend := happyBackend()
			backend.extractResult = &services.StageResult{}
			engine := NewProcessEngine(backend)

			_, err := engine.Process(ctx, "v1", nil)
			if !errors.Is(err, shared.ErrStageContract) {
				t.Fatalf("expected ErrStageContract, got %v", err)
			}
			if !reflect.DeepEqual(backend.calls, []string{"extract"}) {
				t.Errorf("expected pipeline to halt after extract, got calls %v", backend.calls)
			}
		})

		t.Run("Missing keyword_id Halts Before Ranking", func(t *testing.T) {
			backend := happyBackend()
			backend.generateResult = &services.StageResult{VideoID: "v1"}
			engine := NewProcessEngine(backend)

			_, err := engine.Process(ctx, "v1", nil)
			if !errors.Is(err, shared.ErrStageContract) {
				t.Fatalf("expected ErrStageContract, got %v", err)
			}
			if !reflect.DeepEqual(backend.calls, []string{"extract", "generate"}) {
				t.Errorf("expected pipeline to halt after generate, got calls %v", backend.calls)
			}
		})

		t.Run("Stage Failure Resets To Idle", func(t *testing.T) {
			backend := happyBackend()
			backend.extractErr = errors.New("backend down")
			engine := NewProcessEngine(backend)

			if _, err := engine.Process(ctx, "v1", nil); err == nil {
				t.Fatal("expected error")
			}
			if _, active := engine.Active(); active {
				t.Error("expected engine idle after failure")
			}

			// A re-trigger restarts from extraction.
			backend.extractErr = nil
			backend.calls = nil
			if _, err := engine.Process(ctx, "v1", nil); err != nil {
				t.Fatalf("expected retry to succeed, got %v", err)
			}
			if !reflect.DeepEqual(backend.calls, []string{"extract", "generate", "rank"}) {
				t.Errorf("expected full restart, got calls %v", backend.calls)
			}
		})

		t.Run("Second Invocation While Busy Is Rejected", func(t *testing.T) {
			backend := happyBackend()
			backend.block = make(chan struct{})
			engine := NewProcessEngine(backend)

			started := make(chan struct{})
			done := make(chan error, 1)
			go func() {
				close(started)
				_, err := engine.Process(ctx, "v1", nil)
				done <- err
			}()

			<-started
			waitForActive(t, engine)

			_, err := engine.Process(ctx, "v2", nil)
			if !errors.Is(err, shared.ErrPipelineBusy) {
				t.Errorf("expected ErrPipelineBusy, got %v", err)
			}

			close(backend.block)
			if err := <-done; err != nil {
				t.Fatalf("expected first run to finish, got %v", err)
			}

			// Engine is free again once the first run finishes.
			backend.block = nil
			if _, err := engine.Process(ctx, "v2", nil); err != nil {
				t.Errorf("expected engine free after completion, got %v", err)
			}
		})

		t.Run("Missing Video ID Is Rejected", func(t *testing.T) {
			engine := NewProcessEngine(happyBackend())

			_, err := engine.Process(ctx, "", nil)
			if !errors.Is(err, shared.ErrMissingArgument) {
				t.Errorf("expected ErrMissingArgument, got %v", err)
			}
		})

		t.Run("Nil Backend Is Unavailable", func(t *testing.T) {
			engine := NewProcessEngine(nil)

			_, err := engine.Process(ctx, "v1", nil)
			if !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
		})

		t.Run("Progress Events Never Block", func(t *testing.T) {
			backend := happyBackend()
			engine := NewProcessEngine(backend)

			// Unbuffered channel with no reader: sends must be dropped.
			progress := make(chan ProgressUpdate)
			if _, err := engine.Process(ctx, "v1", progress); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	})
}

// waitForActive polls until the engine reports an in-flight action.
func waitForActive(t *testing.T, engine *ProcessEngine) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, active := engine.Active(); active {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("engine never became active")
}
