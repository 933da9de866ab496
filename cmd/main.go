package main

import (
	"context"
	"errors"
	"os"

	"github.com/manisai28/vseo/internal/repositories"
	"github.com/manisai28/vseo/internal/services"
	"github.com/manisai28/vseo/internal/session"
	"github.com/manisai28/vseo/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	stateDir, err := shared.StateDir()
	if err != nil {
		logger.Fatalf("could not resolve state directory: %v", err)
	}
	store := session.NewStore(stateDir)

	timeouts := services.Timeouts{
		Default: config.API.Timeout(),
		Upload:  config.API.UploadTimeout(),
		Stage:   config.API.StageTimeout(),
	}
	apiService := services.NewAPIService(config.API.BaseURL, nil, store)
	seoService := services.NewSEOService(apiService, timeouts)
	youtubeService := services.NewYouTubeService(apiService, timeouts)

	var cache *repositories.CacheStore
	if db, err := shared.NewDatabase(config.Database.Path); err == nil {
		shared.ConfigureDatabase(db, config.Database.MaxOpenConns, config.Database.MaxIdleConns)
		cache = repositories.NewCacheStore(db)
	} else {
		logger.Debugf("local cache unavailable: %v", err)
	}

	runner := NewRunner(RunnerOpts{
		Config:  config,
		Store:   store,
		SEO:     seoService,
		YouTube: youtubeService,
		API:     apiService,
		Cache:   cache,
		Logger:  logger,
	})

	app := &cli.Command{
		Name:     "vseo",
		Usage:    "Upload videos for SEO analysis, track keyword rankings, and publish to YouTube",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		err_ := errors.Unwrap(err)
		if errors.Is(err_, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		} else {
			logger.Fatalf("application error: %v", err)
		}
	}
}
