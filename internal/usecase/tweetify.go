package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"CrossPoster/internal/dedupe"
	"CrossPoster/internal/domain"
	"CrossPoster/internal/modelout"
	"CrossPoster/internal/ports"
	"CrossPoster/internal/processing"
	"CrossPoster/internal/prompts"
)

const (
	tweetRole = "tweet_generation"
	imageHint = "Use the attached images for additional context. If any text is visible in the images, reflect it succinctly."
)

// TweetifyDeps wires the repurposing stage collaborators.
type TweetifyDeps struct {
	Generator ports.TextGenerator
	Prompts   *prompts.Store
	Store     ports.SnapshotStore
	Profile   string
	TweetMax  int
	MaxImages int
	Force     bool
	Logger    *slog.Logger
}

// TweetifyStage rewrites the post into a bounded tweet. The previous
// tweet snapshot serves as the idempotency marker: an incoming document
// with the same source URL skips the rest of the pipeline.
type TweetifyStage struct {
	deps TweetifyDeps
}

func NewTweetifyStage(deps TweetifyDeps) *TweetifyStage {
	if deps.TweetMax <= 0 {
		deps.TweetMax = 280
	}
	if deps.MaxImages <= 0 {
		deps.MaxImages = 4
	}
	return &TweetifyStage{deps: deps}
}

func (s *TweetifyStage) Name() string { return "tweetify" }

func (s *TweetifyStage) Run(ctx context.Context, doc domain.Document) (domain.Document, Outcome, error) {
	if dedupe.ShouldSkip(doc.URL, s.markerURL(), s.deps.Force) {
		logInfo(s.deps.Logger, "post already repurposed, skipping", "url", doc.URL)
		return doc, Skip, nil
	}
	if err := doc.Validate(); err != nil {
		return domain.Document{}, Continue, err
	}

	set, err := s.deps.Prompts.Select(tweetRole, s.deps.Profile, "tweet_system", "tweet_user")
	if err != nil {
		return domain.Document{}, Continue, err
	}
	if s.deps.Profile != "" && set.ID != s.deps.Profile {
		logWarn(s.deps.Logger, "prompt profile not found, using first set",
			"role", tweetRole, "profile", s.deps.Profile)
	}

	plain := processing.StripHTML(doc.Content)
	vars := map[string]string{
		"CONTENT":   processing.Truncate(plain, contentVarLimit),
		"TWEET_MAX": strconv.Itoa(s.deps.TweetMax),
	}
	system := prompts.Fill(set.Template("tweet_system"), vars, prompts.DoubleBrace)
	user := prompts.Fill(set.Template("tweet_user"), vars, prompts.DoubleBrace)

	var imageURLs []string
	for _, img := range doc.Images {
		if img.URL == "" {
			continue
		}
		imageURLs = append(imageURLs, img.URL)
		if len(imageURLs) >= s.deps.MaxImages {
			break
		}
	}
	if len(imageURLs) > 0 {
		user += "\n\n" + imageHint
	}

	reply, err := s.deps.Generator.Generate(ctx, ports.GenerationRequest{
		System:      system,
		User:        user,
		ImageURLs:   imageURLs,
		Temperature: 0.7,
		MaxTokens:   200,
	})
	if err != nil {
		return domain.Document{}, Continue, fmt.Errorf("generate tweet: %w", err)
	}

	tweet := reply
	if fields, err := modelout.Extract(reply); err == nil {
		if t := modelout.Field(fields, "tweet"); t != "" {
			tweet = t
		}
	}

	tweet = processing.SoftTrim(processing.SanitizeTweet(tweet), s.deps.TweetMax)
	if tweet == "" {
		logWarn(s.deps.Logger, "model returned no usable tweet, using trimmed source text")
		tweet = processing.SoftTrim(plain, s.deps.TweetMax)
	}

	out := doc.Clone()
	out.Content = tweet
	out.Headline = ""
	out.Description = ""

	if err := s.deps.Store.Save(TweetSnapshot, out); err != nil {
		return domain.Document{}, Continue, fmt.Errorf("save tweet snapshot: %w", err)
	}

	logInfo(s.deps.Logger, "tweet prepared", "length", len(tweet), "images", len(out.Images))
	return out, Continue, nil
}

// markerURL reads the previous tweet snapshot. Any read error means
// there is no marker, which never causes a skip.
func (s *TweetifyStage) markerURL() string {
	marker, err := s.deps.Store.Load(TweetSnapshot)
	if err != nil {
		return ""
	}
	return marker.URL
}
