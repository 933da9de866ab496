package tasks

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/manisai28/vseo/internal/models"
	"github.com/manisai28/vseo/internal/server"
	"github.com/manisai28/vseo/internal/services"
	"github.com/manisai28/vseo/internal/shared"
	"golang.org/x/oauth2"
)

// maxDescriptionKeywords caps how many keywords the generated description embeds.
const maxDescriptionKeywords = 5

// KeywordResolver resolves a keyword set by its backend id.
type KeywordResolver interface {
	GetKeywords(ctx context.Context, keywordID string) (*models.KeywordSet, error)
}

// YouTubeBackend is the slice of the YouTube client the publish engine uses.
type YouTubeBackend interface {
	AuthURL(ctx context.Context) (string, error)
	Callback(ctx context.Context, code, state string) (bool, error)
	Status(ctx context.Context) (bool, error)
	ConnectWithToken(ctx context.Context, accessToken string) error
	Upload(ctx context.Context, videoID string, req services.PublishRequest) (*services.PublishResult, error)
}

// PublishEngine manages the YouTube connection handoff and per-video publishing.
type PublishEngine struct {
	keywords KeywordResolver
	youtube  YouTubeBackend
	logger   *log.Logger
}

// NewPublishEngine creates a PublishEngine with the provided clients.
func NewPublishEngine(keywords KeywordResolver, youtube YouTubeBackend, logger *log.Logger) *PublishEngine {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &PublishEngine{keywords: keywords, youtube: youtube, logger: logger}
}

// Status probes whether the current session has a YouTube grant.
//
// Probe failures are logged and reported as "not connected"; they never
// block the caller.
func (p *PublishEngine) Status(ctx context.Context) bool {
	connected, err := p.youtube.Status(ctx)
	if err != nil {
		p.logger.Warn("youtube status probe failed", "err", err)
		return false
	}
	return connected
}

// ConnectOptions configures the OAuth handoff.
type ConnectOptions struct {
	Host        string                  // Local callback server host
	Port        int                     // Local callback server port
	OpenBrowser func(url string) error  // Browser launcher, defaults to shared.OpenBrowser
	OAuth       *oauth2.Config          // When set, run the direct authorization-code flow
	Timeout     time.Duration           // How long to wait for the callback (default 3m)
}

// Connect runs the OAuth handoff and reports the resulting connection flag.
//
// Hosted mode asks the backend for its authorization URL, captures the
// provider redirect on a local callback server exactly once, and relays
// code and state to the backend for exchange. Direct mode (OAuth set)
// performs the code exchange locally and registers the access token with
// the backend. Neither mode resubmits a code/state pair on repeated hits;
// the callback handler rejects everything after the first.
func (p *PublishEngine) Connect(ctx context.Context, opts ConnectOptions) (bool, error) {
	if opts.OpenBrowser == nil {
		opts.OpenBrowser = shared.OpenBrowser
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 3 * time.Minute
	}
	if opts.Host == "" {
		opts.Host = "127.0.0.1"
	}

	var authURL, state string
	var handler *server.CallbackHandler

	if opts.OAuth != nil {
		state = shared.GenerateID()
		authURL = opts.OAuth.AuthCodeURL(state, oauth2.AccessTypeOffline)
		handler = server.NewCallbackHandler(server.CallbackOptions{State: state, Exchange: opts.OAuth})
	} else {
		var err error
		authURL, err = p.youtube.AuthURL(ctx)
		if err != nil {
			return false, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
		// State was minted by the backend; the handler relays it unchecked.
		handler = server.NewCallbackHandler(server.CallbackOptions{})
	}

	router := server.NewBasicRouter()
	router.Handler(handler)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", opts.Host, opts.Port),
		Handler: router,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			p.logger.Error("callback server failed", "err", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	p.logger.Info("opening browser for authorization", "url", authURL)
	if err := opts.OpenBrowser(authURL); err != nil {
		p.logger.Warn("could not open browser, visit the URL manually", "url", authURL, "err", err)
	}

	select {
	case result := <-handler.Result():
		if err := result.Error(); err != nil {
			return false, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
		}
		if opts.OAuth != nil {
			if err := p.youtube.ConnectWithToken(ctx, result.Token.AccessToken); err != nil {
				return false, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
			}
			return true, nil
		}
		connected, err := p.youtube.Callback(ctx, result.Code, result.State)
		if err != nil {
			return false, fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
		}
		return connected, nil
	case <-time.After(opts.Timeout):
		return false, fmt.Errorf("%w: timed out waiting for authorization", shared.ErrAuthFailed)
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

// Publish uploads a video's optimized metadata to YouTube.
//
// Preconditions: the record must have a generated keyword set and must not
// already be uploaded. The description embeds up to the first five
// keywords, the tag list carries all of them, and privacy defaults to
// private. The returned result holds title/description/tags/URL for user
// copy-paste.
func (p *PublishEngine) Publish(ctx context.Context, video models.VideoRecord, title string) (*services.PublishResult, error) {
	if video.KeywordsID == "" {
		return nil, fmt.Errorf("%w: process the video first", shared.ErrNotProcessed)
	}
	if video.YoutubeUploaded {
		return nil, shared.ErrAlreadyPublished
	}

	keywords := video.Keywords
	if len(keywords) == 0 {
		set, err := p.keywords.GetKeywords(ctx, video.KeywordsID)
		if err != nil {
			p.logger.Warn("could not fetch keywords for video", "video", video.ID, "err", err)
		} else {
			keywords = set.Keywords
		}
	}

	if title == "" {
		title = video.Title
	}

	result, err := p.youtube.Upload(ctx, video.ID, buildPublishRequest(title, keywords))
	if err != nil {
		var statusErr *services.StatusError
		if errors.As(err, &statusErr) && statusErr.Detail != "" {
			return nil, fmt.Errorf("youtube upload failed: %s", statusErr.Detail)
		}
		return nil, fmt.Errorf("youtube upload failed: %w", err)
	}
	return result, nil
}

// buildPublishRequest constructs the metadata payload from a title and
// the video's keyword list.
func buildPublishRequest(title string, keywords []string) services.PublishRequest {
	if title == "" {
		title = "Untitled Video"
	}

	summary := "SEO optimized content"
	if len(keywords) > 0 {
		head := keywords
		if len(head) > maxDescriptionKeywords {
			head = head[:maxDescriptionKeywords]
		}
		summary = strings.Join(head, ", ")
	}
	description := fmt.Sprintf("Video analyzed with SEO keywords: %s", summary)

	return services.PublishRequest{
		Title:         title,
		Description:   description,
		Tags:          keywords,
		PrivacyStatus: "private",
	}
}
