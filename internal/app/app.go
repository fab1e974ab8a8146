// Package app wires configuration into runnable pipeline stages.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"CrossPoster/internal/config"
	"CrossPoster/internal/domain"
	"CrossPoster/internal/infrastructure/images"
	"CrossPoster/internal/infrastructure/linkedin"
	"CrossPoster/internal/infrastructure/llm"
	"CrossPoster/internal/infrastructure/snapshot"
	"CrossPoster/internal/infrastructure/twitter"
	"CrossPoster/internal/logging"
	"CrossPoster/internal/ports"
	"CrossPoster/internal/prompts"
	"CrossPoster/internal/usecase"
)

// Application builds pipeline stages from configuration. Each stage
// constructor checks the credentials it needs so a standalone stage
// run fails before any network call.
type Application struct {
	cfg    config.Config
	logger *slog.Logger
	store  ports.SnapshotStore
}

func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	return &Application{
		cfg:    cfg,
		logger: baseLogger,
		store:  snapshot.NewStore(cfg.Storage.DataDir),
	}
}

// Snapshots exposes the snapshot store so the CLI can load stage
// inputs for standalone runs.
func (a *Application) Snapshots() ports.SnapshotStore { return a.store }

// Stage resolves a stage by its CLI name.
func (a *Application) Stage(name string, force bool) (usecase.Stage, error) {
	switch name {
	case "fetch":
		return a.FetchStage()
	case "enrich":
		return a.EnrichStage()
	case "tweetify":
		return a.TweetifyStage(force)
	case "post", "publish":
		return a.PublishStage()
	}
	return nil, fmt.Errorf("%w: unknown stage %q", domain.ErrConfiguration, name)
}

// Runner assembles the full fetch-to-publish pipeline.
func (a *Application) Runner(force bool) (*usecase.Runner, error) {
	fetch, err := a.FetchStage()
	if err != nil {
		return nil, err
	}
	enrich, err := a.EnrichStage()
	if err != nil {
		return nil, err
	}
	tweetify, err := a.TweetifyStage(force)
	if err != nil {
		return nil, err
	}
	publish, err := a.PublishStage()
	if err != nil {
		return nil, err
	}

	stages := []usecase.Stage{fetch, enrich, tweetify, publish}
	return usecase.NewRunner(stages, a.cfg.Pipeline.StageDelay, a.logger.With("component", "runner")), nil
}

func (a *Application) FetchStage() (usecase.Stage, error) {
	if a.cfg.LinkedIn.AccessToken == "" {
		return nil, fmt.Errorf("%w: LINKEDIN_ACCESS_TOKEN is not set", domain.ErrConfiguration)
	}

	return usecase.NewFetchStage(usecase.FetchDeps{
		Source:     linkedin.NewClient(a.cfg.LinkedIn),
		Library:    images.NewLibrary(a.cfg.Images.Dir, a.cfg.Images.BaseURL),
		Store:      a.store,
		WindowDays: a.cfg.LinkedIn.WindowDays,
		Logger:     a.logger.With("component", "fetch"),
	}), nil
}

func (a *Application) EnrichStage() (usecase.Stage, error) {
	if a.cfg.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set", domain.ErrConfiguration)
	}
	promptStore, err := prompts.Load(a.cfg.Prompts.Path)
	if err != nil {
		return nil, err
	}

	return usecase.NewEnrichStage(usecase.EnrichDeps{
		Generator:      llm.NewOpenAIGenerator(a.cfg.OpenAI),
		Prompts:        promptStore,
		Store:          a.store,
		Profile:        a.cfg.Prompts.LinkedInProfile,
		HeadlineMax:    a.cfg.Limits.HeadlineMax,
		DescriptionMax: a.cfg.Limits.DescriptionMax,
		Logger:         a.logger.With("component", "enrich"),
	}), nil
}

func (a *Application) TweetifyStage(force bool) (usecase.Stage, error) {
	if a.cfg.OpenAI.APIKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set", domain.ErrConfiguration)
	}
	promptStore, err := prompts.Load(a.cfg.Prompts.Path)
	if err != nil {
		return nil, err
	}

	return usecase.NewTweetifyStage(usecase.TweetifyDeps{
		Generator: llm.NewOpenAIGenerator(a.cfg.OpenAI),
		Prompts:   promptStore,
		Store:     a.store,
		Profile:   a.cfg.Prompts.TweetProfile,
		TweetMax:  a.cfg.Limits.TweetMax,
		MaxImages: a.cfg.Limits.MaxImages,
		Force:     force || a.cfg.Pipeline.ForcePost,
		Logger:    a.logger.With("component", "tweetify"),
	}), nil
}

func (a *Application) PublishStage() (usecase.Stage, error) {
	x := a.cfg.X
	if x.APIKey == "" || x.APISecret == "" || x.AccessToken == "" || x.AccessTokenSecret == "" {
		return nil, fmt.Errorf("%w: X API credentials are not fully set", domain.ErrConfiguration)
	}

	logger := a.logger.With("component", "publish")
	client := twitter.NewClient(x, logger)

	return usecase.NewPublishStage(usecase.PublishDeps{
		Fetcher:   images.NewFetcher(),
		Uploader:  client,
		Publisher: client,
		Logger:    logger,
	}), nil
}

// CheckToken probes the change-log API with the configured token.
func (a *Application) CheckToken(ctx context.Context) error {
	if a.cfg.LinkedIn.AccessToken == "" {
		return fmt.Errorf("%w: LINKEDIN_ACCESS_TOKEN is not set", domain.ErrConfiguration)
	}
	return linkedin.NewClient(a.cfg.LinkedIn).CheckToken(ctx)
}
