package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"CrossPoster/internal/domain"
	"CrossPoster/internal/modelout"
	"CrossPoster/internal/ports"
	"CrossPoster/internal/processing"
	"CrossPoster/internal/prompts"
)

const (
	enrichmentRole  = "linkedin_post_enrichment"
	altContextLimit = 500
)

// EnrichDeps wires the enrich stage collaborators.
type EnrichDeps struct {
	Generator      ports.TextGenerator
	Prompts        *prompts.Store
	Store          ports.SnapshotStore
	Profile        string
	HeadlineMax    int
	DescriptionMax int
	Logger         *slog.Logger
}

// EnrichStage adds SEO headline/description and fills missing image
// alt text. The fetch snapshot stays untouched.
type EnrichStage struct {
	deps EnrichDeps
}

func NewEnrichStage(deps EnrichDeps) *EnrichStage {
	if deps.HeadlineMax <= 0 {
		deps.HeadlineMax = 70
	}
	if deps.DescriptionMax <= 0 {
		deps.DescriptionMax = 160
	}
	return &EnrichStage{deps: deps}
}

func (s *EnrichStage) Name() string { return "enrich" }

func (s *EnrichStage) Run(ctx context.Context, doc domain.Document) (domain.Document, Outcome, error) {
	if err := doc.Validate(); err != nil {
		return domain.Document{}, Continue, err
	}

	set, err := s.deps.Prompts.Select(enrichmentRole, s.deps.Profile,
		"seo_system", "seo_user", "alt_system", "alt_user")
	if err != nil {
		return domain.Document{}, Continue, err
	}
	if s.deps.Profile != "" && set.ID != s.deps.Profile {
		logWarn(s.deps.Logger, "prompt profile not found, using first set",
			"role", enrichmentRole, "profile", s.deps.Profile)
	}

	plain := processing.StripHTML(doc.Content)
	out := doc.Clone()

	out.Headline, out.Description, err = s.generateSEO(ctx, set, plain)
	if err != nil {
		return domain.Document{}, Continue, err
	}

	report := s.annotateImages(ctx, set, plain, out.Images)
	for _, failure := range report.Failed {
		logWarn(s.deps.Logger, "alt text generation failed",
			"image", failure.URL, "error", failure.Err)
	}

	if err := s.deps.Store.Save(EnrichSnapshot, out); err != nil {
		return domain.Document{}, Continue, fmt.Errorf("save enrich snapshot: %w", err)
	}

	logInfo(s.deps.Logger, "post enriched",
		"headline", out.Headline, "alt_annotated", len(report.Succeeded))
	return out, Continue, nil
}

func (s *EnrichStage) generateSEO(ctx context.Context, set prompts.Set, plain string) (string, string, error) {
	vars := map[string]string{
		"CONTENT":      processing.Truncate(plain, contentVarLimit),
		"HEADLINE_MAX": strconv.Itoa(s.deps.HeadlineMax),
		"TITLE_MAX":    strconv.Itoa(s.deps.HeadlineMax),
		"DESC_MAX":     strconv.Itoa(s.deps.DescriptionMax),
	}

	reply, err := s.deps.Generator.Generate(ctx, ports.GenerationRequest{
		System:      prompts.Fill(set.Template("seo_system"), vars, prompts.DoubleBrace),
		User:        prompts.Fill(set.Template("seo_user"), vars, prompts.DoubleBrace),
		Temperature: 0.7,
		MaxTokens:   200,
	})
	if err != nil {
		return "", "", fmt.Errorf("generate seo fields: %w", err)
	}

	var headline, description string
	if fields, err := modelout.Extract(reply); err != nil {
		logWarn(s.deps.Logger, "seo reply is not JSON, keeping empty fields", "error", err)
	} else {
		headline = modelout.Field(fields, "headline")
		description = modelout.Field(fields, "description")
	}

	headline = processing.SoftTrim(processing.SanitizeField(headline), s.deps.HeadlineMax)
	description = processing.SoftTrim(processing.SanitizeField(description), s.deps.DescriptionMax)
	return headline, description, nil
}

// annotateImages fills alt text for images that have none. A failed
// call is recorded and the loop moves on to the next image.
func (s *EnrichStage) annotateImages(ctx context.Context, set prompts.Set, plain string, images []domain.Image) domain.ImageReport {
	vars := map[string]string{"CONTEXT": processing.Truncate(plain, altContextLimit)}
	system := prompts.Fill(set.Template("alt_system"), vars, prompts.DoubleBrace)
	user := prompts.Fill(set.Template("alt_user"), vars, prompts.DoubleBrace)

	var report domain.ImageReport
	for i := range images {
		if strings.TrimSpace(images[i].Alt) != "" {
			continue
		}

		reply, err := s.deps.Generator.Generate(ctx, ports.GenerationRequest{
			System:      system,
			User:        user,
			ImageURLs:   []string{images[i].URL},
			Temperature: 0.7,
			MaxTokens:   60,
		})
		if err != nil {
			report.Failed = append(report.Failed, domain.ImageFailure{URL: images[i].URL, Err: err})
			continue
		}

		images[i].Alt = processing.SanitizeField(reply)
		report.Succeeded = append(report.Succeeded, images[i].URL)
	}
	return report
}
