package main

import (
	"context"
	"fmt"

	"github.com/manisai28/vseo/internal/models"
	"github.com/manisai28/vseo/internal/shared"
	"github.com/manisai28/vseo/internal/tasks"
	"github.com/urfave/cli/v3"
)

// VideoUpload uploads a file and, unless told otherwise, runs the full
// analysis pipeline on it.
func (r *Runner) VideoUpload(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: video file path", shared.ErrMissingArgument)
	}

	r.logger.Info("uploading video", "path", path)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go r.printProgress(progressCh)

	record, err := r.engine.Upload(ctx, cmd.String("title"), path, progressCh)
	if err != nil {
		close(progressCh)
		return err
	}

	if cmd.Bool("no-process") {
		close(progressCh)
		r.writePlain("\n✓ Uploaded '%s' (id: %s)\n", record.Title, record.ID)
		r.writePlain("Run 'vseo video process %s' to analyze it\n", record.ID)
		return nil
	}

	result, err := r.engine.Process(ctx, record.ID, progressCh)
	close(progressCh)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}
	return r.printProcessResult(record.Title, result)
}

// VideoProcess runs the extract, generate, rank sequence on an uploaded video.
func (r *Runner) VideoProcess(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	videoID := cmd.StringArg("id")
	if videoID == "" {
		return fmt.Errorf("%w: video id", shared.ErrMissingArgument)
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go r.printProgress(progressCh)

	result, err := r.engine.Process(ctx, videoID, progressCh)
	close(progressCh)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}
	return r.printProcessResult(videoID, result)
}

// VideoHistory lists previously uploaded videos, from the backend or the
// local cache with --offline.
func (r *Runner) VideoHistory(ctx context.Context, cmd *cli.Command) error {
	var records []models.VideoRecord
	var err error

	if cmd.Bool("offline") {
		if r.cache == nil {
			return fmt.Errorf("%w: local cache unavailable", shared.ErrServiceUnavailable)
		}
		records, err = r.cache.Videos()
	} else {
		if err := r.requireAuth(); err != nil {
			return err
		}
		records, err = r.seo.History(ctx)
	}
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(records, true)
	}

	if len(records) == 0 {
		return r.writePlain("No videos yet. Upload one with 'vseo video upload'\n")
	}

	for i, record := range records {
		status := "pending"
		if record.Processed {
			status = fmt.Sprintf("%d keywords", len(record.Keywords))
		}
		if record.YoutubeUploaded {
			status += ", published"
		}
		r.writePlain("%d. %s [%s] (id: %s)\n", i+1, record.Title, status, record.ID)
	}
	return nil
}

// VideoShow prints one video's analysis detail.
func (r *Runner) VideoShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	videoID := cmd.StringArg("id")
	if videoID == "" {
		return fmt.Errorf("%w: video id", shared.ErrMissingArgument)
	}

	record, err := r.seo.VideoDetail(ctx, videoID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(record, true)
	}

	r.writePlain("Title: %s\n", record.Title)
	r.writePlain("Processed: %t\n", record.Processed)
	if record.ExtractedText != "" {
		r.writePlain("Extracted text: %s\n", shared.Truncate(record.ExtractedText, 200))
	}
	if len(record.Keywords) > 0 {
		r.writePlain("\nKeywords:\n")
		for i, keyword := range record.Keywords {
			r.writePlain("  %d. %s\n", i+1, keyword)
		}
	}
	return nil
}

// printProgress renders pipeline updates until the channel closes.
func (r *Runner) printProgress(progressCh <-chan tasks.ProgressUpdate) {
	for update := range progressCh {
		if update.Failed {
			r.writePlain("✗ %s\n", update.Message)
			continue
		}
		switch update.Stage {
		case tasks.StageUploading:
			r.writePlain("📤 %s\n", update.Message)
		case tasks.StageExtracting, tasks.StageGenerating, tasks.StageRanking:
			r.writePlain("   [%d/%d] %s\n", update.Step, update.Total, update.Message)
		default:
			r.writePlain("✓ %s\n", update.Message)
		}
	}
}

func (r *Runner) printProcessResult(title string, result *tasks.ProcessResult) error {
	r.writePlain("\n═══════════════════════════════════════\n")
	r.writePlain("Analysis Complete!\n")
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("Video: %s\n", title)
	r.writePlain("Keywords (%d):\n", len(result.Keywords))
	for i, keyword := range result.Keywords {
		r.writePlain("  %d. %s\n", i+1, keyword)
	}

	if len(result.Rankings) > 0 {
		r.writePlain("\nRankings:\n")
		for _, entry := range result.Rankings {
			r.writePlain("  %s: #%.0f\n", entry.Keyword, entry.Rank)
		}
	}
	return nil
}
