package ports

import (
	"context"
	"time"

	"CrossPoster/internal/domain"
)

// ChangeEvent is one record returned by the source change-log feed.
type ChangeEvent struct {
	ResourceName string
	ResourceID   string
	Method       string
	CapturedAt   time.Time
	Text         string
}

// GenerationRequest describes one completion call to the text generator.
type GenerationRequest struct {
	System      string
	User        string
	ImageURLs   []string
	Temperature float32
	MaxTokens   int
}

// ChangeLogSource pulls recent member activity from the source platform.
type ChangeLogSource interface {
	RecentChanges(ctx context.Context, since time.Time) ([]ChangeEvent, error)
}

// ImageLibrary resolves locally stored post images into public URLs.
type ImageLibrary interface {
	ForDay(day time.Time) ([]string, error)
}

// TextGenerator produces completions for prompt pairs, optionally with
// image URLs attached for vision context.
type TextGenerator interface {
	Generate(ctx context.Context, req GenerationRequest) (string, error)
}

// ImageFetcher downloads raw image bytes for re-upload.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// MediaUploader pushes image bytes to the destination platform and
// returns its opaque media handle.
type MediaUploader interface {
	Upload(ctx context.Context, media []byte, altText string) (string, error)
}

// PostPublisher creates the final post from text and media handles.
type PostPublisher interface {
	CreatePost(ctx context.Context, text string, mediaIDs []string) (string, error)
}

// SnapshotStore persists stage output documents between stages.
type SnapshotStore interface {
	Save(name string, doc domain.Document) error
	Load(name string) (domain.Document, error)
}
