package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manisai28/vseo/internal/formatter"
	"github.com/manisai28/vseo/internal/models"
	"github.com/manisai28/vseo/internal/shared"
	"github.com/urfave/cli/v3"
)

// lookupRecord fetches a video's detail, falling back to a history scan
// when the detail endpoint does not know the id.
func (r *Runner) lookupRecord(ctx context.Context, videoID string) (*models.VideoRecord, error) {
	record, err := r.seo.VideoDetail(ctx, videoID)
	if err == nil {
		return record, nil
	}

	history, histErr := r.seo.History(ctx)
	if histErr != nil {
		return nil, err
	}
	for i := range history {
		if history[i].ID == videoID {
			return &history[i], nil
		}
	}

	if r.cache != nil {
		if cached, cacheErr := r.cache.Video(videoID); cacheErr == nil {
			return cached, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", shared.ErrVideoNotFound, videoID)
}

// ResultsShow prints the keyword and ranking table for a video.
func (r *Runner) ResultsShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	videoID := cmd.StringArg("id")
	if videoID == "" {
		return fmt.Errorf("%w: video id", shared.ErrMissingArgument)
	}

	record, err := r.lookupRecord(ctx, videoID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(record, true)
	}

	r.writePlain("Video: %s\n\n", record.Title)

	if len(record.Keywords) == 0 {
		return r.writePlain("No keywords yet. Run 'vseo video process %s' first\n", videoID)
	}

	byKeyword := make(map[string]models.RankingEntry, len(record.Rankings))
	for _, entry := range record.Rankings {
		byKeyword[entry.Keyword] = entry
	}

	r.writePlain("%-40s %-8s %-14s %s\n", "Keyword", "Rank", "Search Volume", "Competition")
	r.writePlain("%s\n", strings.Repeat("─", 75))
	for _, keyword := range record.Keywords {
		rank, volume, competition := "N/A", "N/A", "N/A"
		if entry, ok := byKeyword[keyword]; ok {
			rank = fmt.Sprintf("%.0f", entry.Rank)
			if entry.SearchVolume != nil {
				volume = strconv.Itoa(*entry.SearchVolume)
			}
			if entry.Competition != nil {
				competition = strconv.FormatFloat(*entry.Competition, 'f', 2, 64)
			}
		}
		r.writePlain("%-40s %-8s %-14s %s\n", shared.Truncate(keyword, 38), rank, volume, competition)
	}
	return nil
}

// ResultsExport writes a video's keywords and rankings to a file.
func (r *Runner) ResultsExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	videoID := cmd.StringArg("id")
	if videoID == "" {
		return fmt.Errorf("%w: video id", shared.ErrMissingArgument)
	}

	record, err := r.lookupRecord(ctx, videoID)
	if err != nil {
		return err
	}

	format := cmd.String("format")
	output := cmd.String("output")

	switch format {
	case "csv":
		path, err := formatter.WriteCSVExport(record, output)
		if err != nil {
			return err
		}
		return r.writePlain("✓ Exported %d rankings to %s\n", len(record.Rankings), path)
	case "json":
		data, err := formatter.ToRecordJSON(record)
		if err != nil {
			return err
		}
		if output == "" {
			output = fmt.Sprintf("seo_keywords_%s.json", record.ID)
		}
		if err := os.WriteFile(output, data, 0644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		return r.writePlain("✓ Exported to %s\n", output)
	case "markdown", "md":
		data, err := formatter.ExportToMarkdown(record)
		if err != nil {
			return err
		}
		if output == "" {
			output = fmt.Sprintf("seo_keywords_%s.md", record.ID)
		}
		if err := os.WriteFile(output, data, 0644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		return r.writePlain("✓ Exported to %s\n", output)
	case "txt", "text":
		data, err := formatter.ExportToText(record)
		if err != nil {
			return err
		}
		if output == "" {
			output = fmt.Sprintf("seo_keywords_%s.txt", record.ID)
		}
		if err := os.WriteFile(output, data, 0644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		return r.writePlain("✓ Exported to %s\n", output)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, format)
	}
}
