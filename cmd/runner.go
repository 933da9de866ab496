package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/manisai28/vseo/internal/repositories"
	"github.com/manisai28/vseo/internal/services"
	"github.com/manisai28/vseo/internal/session"
	"github.com/manisai28/vseo/internal/shared"
	"github.com/manisai28/vseo/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	store      *session.Store
	session    *session.Manager
	seo        *services.SEOService
	youtube    *services.YouTubeService
	api        *services.APIService
	httpClient *http.Client
	cache      *repositories.CacheStore
	logger     *log.Logger
	output     io.Writer
	engine     *tasks.ProcessEngine
	publisher  *tasks.PublishEngine
	refresher  *tasks.RefreshEngine
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Store      *session.Store
	SEO        *services.SEOService
	YouTube    *services.YouTubeService
	API        *services.APIService
	HTTPClient *http.Client
	Cache      *repositories.CacheStore
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	manager := session.NewManager(opts.Store, opts.SEO, opts.Logger)
	engine := tasks.NewProcessEngine(opts.SEO)
	publisher := tasks.NewPublishEngine(opts.SEO, opts.YouTube, opts.Logger)

	var refresher *tasks.RefreshEngine
	if opts.Cache != nil {
		refresher = tasks.NewRefreshEngine(opts.SEO, opts.Cache, 5.0, opts.Logger)
	}

	return &Runner{
		config:     opts.Config,
		store:      opts.Store,
		session:    manager,
		seo:        opts.SEO,
		youtube:    opts.YouTube,
		api:        opts.API,
		httpClient: opts.HTTPClient,
		cache:      opts.Cache,
		logger:     opts.Logger,
		output:     opts.Output,
		engine:     engine,
		publisher:  publisher,
		refresher:  refresher,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, videoCommand, youtubeCommand, resultsCommand, cacheCommand, notifyCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// requireAuth restores the session and fails when no user is signed in.
func (r *Runner) requireAuth() error {
	if r.session.Loading() {
		r.session.Init()
	}
	if !r.session.IsAuthenticated() {
		return fmt.Errorf("%w: run 'vseo auth login' first", shared.ErrNotAuthenticated)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
