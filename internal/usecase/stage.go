// Package usecase contains the pipeline stages and their orchestration.
package usecase

import (
	"context"
	"log/slog"

	"CrossPoster/internal/domain"
)

// Snapshot file names shared by the stages and the CLI.
const (
	FetchSnapshot  = "last_linkedin_post.json"
	EnrichSnapshot = "last_linkedin_post.enriched.json"
	TweetSnapshot  = "tweet.json"
)

// contentVarLimit caps how much source text is substituted into a
// prompt template.
const contentVarLimit = 4000

// Outcome tells the orchestrator how to proceed after a stage.
type Outcome int

const (
	// Continue hands the stage output to the next stage.
	Continue Outcome = iota
	// Skip ends the run cleanly without invoking later stages.
	Skip
)

// Stage is one pipeline step: document in, document out. Run must
// persist its output snapshot before returning Continue.
type Stage interface {
	Name() string
	Run(ctx context.Context, doc domain.Document) (domain.Document, Outcome, error)
}

func logInfo(l *slog.Logger, msg string, args ...any) {
	if l != nil {
		l.Info(msg, args...)
	}
}

func logWarn(l *slog.Logger, msg string, args ...any) {
	if l != nil {
		l.Warn(msg, args...)
	}
}
