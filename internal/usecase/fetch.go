package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"CrossPoster/internal/domain"
	"CrossPoster/internal/ports"
)

const (
	shareResource = "ugcPosts"
	createMethod  = "CREATE"
	feedURLPrefix = "https://www.linkedin.com/feed/update/"
)

// FetchDeps wires the fetch stage collaborators.
type FetchDeps struct {
	Source     ports.ChangeLogSource
	Library    ports.ImageLibrary
	Store      ports.SnapshotStore
	WindowDays int
	Now        func() time.Time
	Logger     *slog.Logger
}

// FetchStage builds the base document from the newest share-create
// event inside the lookback window.
type FetchStage struct {
	deps FetchDeps
}

func NewFetchStage(deps FetchDeps) *FetchStage {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.WindowDays <= 0 {
		deps.WindowDays = 3
	}
	return &FetchStage{deps: deps}
}

func (s *FetchStage) Name() string { return "fetch" }

func (s *FetchStage) Run(ctx context.Context, _ domain.Document) (domain.Document, Outcome, error) {
	since := s.deps.Now().UTC().AddDate(0, 0, -s.deps.WindowDays)

	events, err := s.deps.Source.RecentChanges(ctx, since)
	if err != nil {
		return domain.Document{}, Continue, fmt.Errorf("query change log: %w", err)
	}

	latest, found := newestShareCreate(events)
	if !found {
		logInfo(s.deps.Logger, "no new post in window", "window_days", s.deps.WindowDays)
		return domain.Document{}, Skip, nil
	}

	doc := domain.Document{
		Content:     renderParagraphs(latest.Text),
		URL:         feedURLPrefix + latest.ResourceID,
		PublishedAt: latest.CapturedAt.UTC().Format(time.RFC3339),
	}

	urls, err := s.deps.Library.ForDay(latest.CapturedAt.UTC())
	if err != nil {
		return domain.Document{}, Continue, fmt.Errorf("list post images: %w", err)
	}
	for _, u := range urls {
		doc.Images = append(doc.Images, domain.Image{URL: u})
	}

	if err := doc.Validate(); err != nil {
		return domain.Document{}, Continue, err
	}
	if err := s.deps.Store.Save(FetchSnapshot, doc); err != nil {
		return domain.Document{}, Continue, fmt.Errorf("save fetch snapshot: %w", err)
	}

	logInfo(s.deps.Logger, "post fetched",
		"url", doc.URL, "published_at", doc.PublishedAt, "images", len(doc.Images))
	return doc, Continue, nil
}

func newestShareCreate(events []ports.ChangeEvent) (ports.ChangeEvent, bool) {
	var latest ports.ChangeEvent
	var found bool
	for _, ev := range events {
		if ev.ResourceName != shareResource || ev.Method != createMethod {
			continue
		}
		if !found || ev.CapturedAt.After(latest.CapturedAt) {
			latest = ev
			found = true
		}
	}
	return latest, found
}

// renderParagraphs rebuilds HTML from share commentary: blank-line
// separated runs become paragraphs, single newlines become <br>, and
// a spacer paragraph follows each one.
func renderParagraphs(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}

	var b strings.Builder
	for _, paragraph := range strings.Split(trimmed, "\n\n") {
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(paragraph, "\n", "<br>"))
		b.WriteString("</p><p>&nbsp;</p>")
	}
	return b.String()
}
