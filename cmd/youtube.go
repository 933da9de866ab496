package main

import (
	"context"
	"fmt"

	"github.com/manisai28/vseo/internal/shared"
	"github.com/manisai28/vseo/internal/tasks"
	"github.com/urfave/cli/v3"
	"golang.org/x/oauth2"
)

// googleEndpoint is Google's OAuth2 authorization endpoint.
var googleEndpoint = oauth2.Endpoint{
	AuthURL:  "https://accounts.google.com/o/oauth2/auth",
	TokenURL: "https://oauth2.googleapis.com/token",
}

// YouTubeConnect runs the OAuth handoff in the browser.
//
// Default is the backend's hosted flow: the service mints the
// authorization URL and exchanges the code. With --direct the exchange
// happens locally using the [google] credentials from config.toml and the
// resulting access token is registered with the backend.
func (r *Runner) YouTubeConnect(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	opts := tasks.ConnectOptions{
		Host: r.config.Server.Host,
		Port: r.config.Server.Port,
	}

	if cmd.Bool("direct") {
		creds := r.config.Google
		if creds.ClientID == "" || creds.ClientSecret == "" {
			return fmt.Errorf("%w: [google] client_id and client_secret", shared.ErrMissingConfig)
		}
		opts.OAuth = &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			RedirectURL:  creds.RedirectURI,
			Scopes:       []string{"https://www.googleapis.com/auth/youtube.upload"},
			Endpoint:     googleEndpoint,
		}
	}

	r.writePlain("Opening browser for YouTube authorization...\n")

	connected, err := r.publisher.Connect(ctx, opts)
	if err != nil {
		return err
	}
	if !connected {
		return fmt.Errorf("%w: authorization was not granted", shared.ErrAuthFailed)
	}

	return r.writePlain("✓ YouTube account connected\n")
}

// YouTubeStatus checks whether a YouTube account is connected.
func (r *Runner) YouTubeStatus(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireAuth(); err != nil {
		return err
	}

	if r.publisher.Status(ctx) {
		return r.writePlain("✓ YouTube connected\n")
	}
	return r.writePlain("✗ YouTube not connected, run 'vseo youtube connect'\n")
}

// YouTubePublish uploads a processed video's metadata to YouTube.
func (r *Runner) YouTubePublish(ctx context.Context, cmd *cli.Command) error {
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

	result, err := r.publisher.Publish(ctx, *record, cmd.String("title"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result, true)
	}

	r.writePlain("✓ Published to YouTube\n")
	if result.URL != "" {
		r.writePlain("URL: %s\n", result.URL)
	}
	r.writePlain("Title: %s\n", result.Title)
	r.writePlain("Description: %s\n", result.Description)
	r.writePlain("Tags: %d\n", len(result.Tags))
	return nil
}
