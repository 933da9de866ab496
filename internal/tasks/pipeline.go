package tasks

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/manisai28/vseo/internal/models"
	"github.com/manisai28/vseo/internal/services"
	"github.com/manisai28/vseo/internal/shared"
)

// Backend is the slice of the SEO client the process engine depends on.
// The abstraction keeps the engine testable against recorded backends.
type Backend interface {
	UploadVideo(ctx context.Context, title, fileName string, file io.Reader) (*models.VideoRecord, error)
	ExtractText(ctx context.Context, videoID string) (*services.StageResult, error)
	GenerateKeywords(ctx context.Context, videoID string) (*services.StageResult, error)
	GetRankings(ctx context.Context, keywordID string) (*services.RankingResult, error)
}

// ProcessingState identifies the single in-flight workflow action.
type ProcessingState struct {
	VideoID string
	Stage   Stage
}

// ProcessResult contains all data from a completed pipeline run.
type ProcessResult struct {
	VideoID   string                // Video the pipeline ran for
	KeywordID string                // Keyword set produced by generation
	Keywords  []string              // Normalized keyword list
	Rankings  []models.RankingEntry // Ranking entries from the final stage
}

// ProcessEngine orchestrates the upload action and the
// extract→generate→rank pipeline against the backend.
//
// At most one action is in flight at a time; a second invocation while one
// runs fails with [shared.ErrPipelineBusy]. There is no automatic retry
// and no mid-stage cancellation beyond the per-call timeout; on any
// failure the state reverts to idle and a re-trigger restarts from
// extraction.
type ProcessEngine struct {
	backend Backend

	mu     sync.Mutex
	active *ProcessingState
}

// NewProcessEngine creates a ProcessEngine over the given backend client.
func NewProcessEngine(backend Backend) *ProcessEngine {
	return &ProcessEngine{backend: backend}
}

// Active returns the in-flight processing state, if any.
func (e *ProcessEngine) Active() (ProcessingState, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active == nil {
		return ProcessingState{}, false
	}
	return *e.active, true
}

// begin claims the engine for videoID, failing when another action is live.
func (e *ProcessEngine) begin(videoID string, stage Stage) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.active != nil {
		return fmt.Errorf("%w (video %s, %s)", shared.ErrPipelineBusy, e.active.VideoID, e.active.Stage)
	}
	e.active = &ProcessingState{VideoID: videoID, Stage: stage}
	return nil
}

func (e *ProcessEngine) advance(stage Stage) {
	e.mu.Lock()
	if e.active != nil {
		e.active.Stage = stage
	}
	e.mu.Unlock()
}

func (e *ProcessEngine) finish() {
	e.mu.Lock()
	e.active = nil
	e.mu.Unlock()
}

// sendProgress sends a progress update through the channel without blocking.
func (e *ProcessEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// Upload sends a new video to the backend and returns the created record.
//
// An empty title defaults to the filename minus its last extension
// segment; a provided title is never overridden. Upload is a separate,
// prior action: the processing pipeline runs only against records that
// already exist.
func (e *ProcessEngine) Upload(ctx context.Context, title, filePath string, progress chan<- ProgressUpdate) (*models.VideoRecord, error) {
	if e.backend == nil {
		return nil, fmt.Errorf("%w: backend client not initialized", shared.ErrServiceUnavailable)
	}
	if filePath == "" {
		return nil, fmt.Errorf("%w: video file path", shared.ErrMissingArgument)
	}

	fileName := filepath.Base(filePath)
	if title == "" {
		title = shared.TitleFromFilename(fileName)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrInvalidArgument, err)
	}
	defer file.Close()

	if err := e.begin("", StageUploading); err != nil {
		return nil, err
	}
	defer e.finish()

	e.sendProgress(progress, uploadingUpdate(title))

	record, err := e.backend.UploadVideo(ctx, title, fileName, file)
	if err != nil {
		e.sendProgress(progress, failedUpdate(StageUploading, 1, err))
		return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	e.sendProgress(progress, uploadedUpdate(record.ID))
	return record, nil
}

// Process runs the extract→generate→rank pipeline for one uploaded video.
//
// Each stage transition requires the previous response to carry its
// contract field: extraction must return video_id and generation must
// return keyword_id. A missing field is a failure even when the HTTP call
// succeeded, and aborts the run at that stage; the whole pipeline must
// then be re-triggered from idle.
func (e *ProcessEngine) Process(ctx context.Context, videoID string, progress chan<- ProgressUpdate) (*ProcessResult, error) {
	if e.backend == nil {
		return nil, fmt.Errorf("%w: backend client not initialized", shared.ErrServiceUnavailable)
	}
	if videoID == "" {
		return nil, fmt.Errorf("%w: video id", shared.ErrMissingArgument)
	}

	if err := e.begin(videoID, StageExtracting); err != nil {
		return nil, err
	}
	defer e.finish()

	e.sendProgress(progress, extractingUpdate(videoID))

	extracted, err := e.backend.ExtractText(ctx, videoID)
	if err != nil {
		e.sendProgress(progress, failedUpdate(StageExtracting, 1, err))
		return nil, fmt.Errorf("text extraction failed: %w", err)
	}
	if extracted.VideoID == "" {
		err := fmt.Errorf("%w: extraction response has no video_id", shared.ErrStageContract)
		e.sendProgress(progress, failedUpdate(StageExtracting, 1, err))
		return nil, err
	}

	e.advance(StageGenerating)
	e.sendProgress(progress, generatingUpdate(videoID))

	generated, err := e.backend.GenerateKeywords(ctx, videoID)
	if err != nil {
		e.sendProgress(progress, failedUpdate(StageGenerating, 2, err))
		return nil, fmt.Errorf("keyword generation failed: %w", err)
	}
	if generated.KeywordID == "" {
		err := fmt.Errorf("%w: generation response has no keyword_id", shared.ErrStageContract)
		e.sendProgress(progress, failedUpdate(StageGenerating, 2, err))
		return nil, err
	}

	e.advance(StageRanking)
	e.sendProgress(progress, rankingUpdate(generated.KeywordID))

	rankings, err := e.backend.GetRankings(ctx, generated.KeywordID)
	if err != nil {
		e.sendProgress(progress, failedUpdate(StageRanking, 3, err))
		return nil, fmt.Errorf("ranking lookup failed: %w", err)
	}

	result := &ProcessResult{
		VideoID:   videoID,
		KeywordID: generated.KeywordID,
		Keywords:  rankings.Keywords,
		Rankings:  rankings.Rankings,
	}

	e.sendProgress(progress, completedUpdate(result))
	return result, nil
}
