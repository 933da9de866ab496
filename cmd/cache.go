package main

import (
	"context"
	"fmt"

	"github.com/manisai28/vseo/internal/shared"
	"github.com/manisai28/vseo/internal/tasks"
	"github.com/urfave/cli/v3"
)

// CacheSetup initializes the cache database and runs migrations.
func (r *Runner) CacheSetup(ctx context.Context, cmd *cli.Command) error {
	db, err := shared.NewDatabase(r.config.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open cache database: %w", err)
	}
	defer db.Close()

	r.logger.Info("running migrations", "path", r.config.Database.Path)
	if err := shared.RunMigrations(db); err != nil {
		return err
	}

	return r.writePlain("✓ Cache database ready at %s\n", r.config.Database.Path)
}

// CacheSync pulls the account history into the local cache.
func (r *Runner) CacheSync(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}
	if r.refresher == nil {
		return fmt.Errorf("%w: local cache unavailable, run 'vseo cache setup'", shared.ErrServiceUnavailable)
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			r.writePlain("   [%d/%d] %s\n", update.Step, update.Total, update.Message)
		}
	}()

	result, err := r.refresher.Sync(ctx, progressCh)
	close(progressCh)
	if err != nil {
		return err
	}

	r.writePlain("✓ Synced %d of %d videos", result.Updated, result.Total)
	if result.Failed > 0 {
		r.writePlain(" (%d failed)", result.Failed)
	}
	return r.writePlain("\n")
}

// CacheRefresh re-fetches rankings for every cached video.
func (r *Runner) CacheRefresh(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}
	if r.refresher == nil {
		return fmt.Errorf("%w: local cache unavailable, run 'vseo cache setup'", shared.ErrServiceUnavailable)
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			r.writePlain("   [%d/%d] %s\n", update.Step, update.Total, update.Message)
		}
	}()

	result, err := r.refresher.Refresh(ctx, progressCh)
	close(progressCh)
	if err != nil {
		return err
	}

	r.writePlain("✓ Refreshed %d videos, skipped %d unprocessed\n", result.Refreshed, result.Skipped)
	if len(result.Failed) > 0 {
		r.writePlain("Failed to refresh %d videos:\n", len(result.Failed))
		for _, id := range result.Failed {
			r.writePlain("  - %s\n", id)
		}
	}
	return nil
}

// CacheClear deletes all cached rows.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	if r.cache == nil {
		return fmt.Errorf("%w: local cache unavailable", shared.ErrServiceUnavailable)
	}
	if err := r.cache.Clear(); err != nil {
		return err
	}
	return r.writePlain("✓ Cache cleared\n")
}
