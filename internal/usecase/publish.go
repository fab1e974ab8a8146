package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"CrossPoster/internal/domain"
	"CrossPoster/internal/ports"
)

const postURLPrefix = "https://x.com/user/status/"

// PublishDeps wires the publish stage collaborators.
type PublishDeps struct {
	Fetcher   ports.ImageFetcher
	Uploader  ports.MediaUploader
	Publisher ports.PostPublisher
	Logger    *slog.Logger
}

// PublishStage uploads the document's images and creates the final
// post. Image failures drop the image; the post itself is all-or-nothing.
type PublishStage struct {
	deps PublishDeps
}

func NewPublishStage(deps PublishDeps) *PublishStage {
	return &PublishStage{deps: deps}
}

func (s *PublishStage) Name() string { return "publish" }

func (s *PublishStage) Run(ctx context.Context, doc domain.Document) (domain.Document, Outcome, error) {
	if err := doc.Validate(); err != nil {
		return domain.Document{}, Continue, err
	}
	if strings.TrimSpace(doc.Content) == "" {
		return domain.Document{}, Continue, fmt.Errorf("%w: post content is empty", domain.ErrValidation)
	}

	mediaIDs, report := s.uploadImages(ctx, doc.Images)
	for _, failure := range report.Failed {
		logWarn(s.deps.Logger, "image upload failed, dropping image",
			"image", failure.URL, "error", failure.Err)
	}
	if report.AllFailed() {
		logWarn(s.deps.Logger, "no image could be uploaded, posting text only",
			"images", len(doc.Images))
	}

	postID, err := s.deps.Publisher.CreatePost(ctx, doc.Content, mediaIDs)
	if err != nil {
		return domain.Document{}, Continue, fmt.Errorf("create post: %w", err)
	}

	logInfo(s.deps.Logger, "post published",
		"post_id", postID, "post_url", postURLPrefix+postID, "media", len(mediaIDs))
	return doc, Continue, nil
}

func (s *PublishStage) uploadImages(ctx context.Context, images []domain.Image) ([]string, domain.ImageReport) {
	var ids []string
	var report domain.ImageReport
	for _, img := range images {
		payload, err := s.deps.Fetcher.Fetch(ctx, img.URL)
		if err != nil {
			report.Failed = append(report.Failed, domain.ImageFailure{URL: img.URL, Err: err})
			continue
		}

		id, err := s.deps.Uploader.Upload(ctx, payload, img.Alt)
		if err != nil {
			report.Failed = append(report.Failed, domain.ImageFailure{URL: img.URL, Err: err})
			continue
		}

		ids = append(ids, id)
		report.Succeeded = append(report.Succeeded, img.URL)
	}
	return ids, report
}
