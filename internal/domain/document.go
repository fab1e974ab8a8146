package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// legacy snapshots carry timestamps without a zone offset
const legacyTimeLayout = "2006-01-02T15:04:05"

// Document is the unit of data flow between pipeline stages.
// Content holds HTML up to the enrichment stage and the bounded
// rewrite afterwards; URL identifies the source post and doubles
// as the idempotency key.
type Document struct {
	Content     string  `json:"content"`
	URL         string  `json:"url"`
	PublishedAt string  `json:"published_at"`
	Images      []Image `json:"images"`
	Headline    string  `json:"headline,omitempty"`
	Description string  `json:"description,omitempty"`
}

// Image is one attached post image. Alt stays empty until the
// enrichment stage fills it.
type Image struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

// Clone returns a value copy with its own images slice.
func (d Document) Clone() Document {
	out := d
	if d.Images != nil {
		out.Images = make([]Image, len(d.Images))
		copy(out.Images, d.Images)
	}
	return out
}

// Validate checks the shape every stage boundary relies on.
func (d Document) Validate() error {
	if strings.TrimSpace(d.URL) == "" {
		return fmt.Errorf("%w: document url is empty", ErrValidation)
	}
	if strings.TrimSpace(d.PublishedAt) == "" {
		return fmt.Errorf("%w: document published_at is empty", ErrValidation)
	}
	if _, err := time.Parse(time.RFC3339, d.PublishedAt); err != nil {
		if _, err := time.Parse(legacyTimeLayout, d.PublishedAt); err != nil {
			return fmt.Errorf("%w: published_at %q is not a timestamp", ErrValidation, d.PublishedAt)
		}
	}
	for i, img := range d.Images {
		if strings.TrimSpace(img.URL) == "" {
			return fmt.Errorf("%w: image %d has an empty url", ErrValidation, i)
		}
	}
	return nil
}

// MarshalJSON keeps images an array even when no image was attached.
func (d Document) MarshalJSON() ([]byte, error) {
	type alias Document
	out := alias(d)
	if out.Images == nil {
		out.Images = []Image{}
	}
	return json.Marshal(out)
}

// UnmarshalJSON migrates older snapshots that nested the SEO fields
// under a "seo" object. Flat fields win when both are present; the
// legacy top-level "title" is dropped.
func (d *Document) UnmarshalJSON(data []byte) error {
	type alias Document
	aux := struct {
		*alias
		SEO *struct {
			Headline    string `json:"headline"`
			Description string `json:"description"`
		} `json:"seo"`
	}{alias: (*alias)(d)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.SEO != nil {
		if d.Headline == "" {
			d.Headline = aux.SEO.Headline
		}
		if d.Description == "" {
			d.Description = aux.SEO.Description
		}
	}
	return nil
}

// ImageFailure records one image the stage could not process.
type ImageFailure struct {
	URL string
	Err error
}

// ImageReport is the partial-failure outcome of a per-image loop.
type ImageReport struct {
	Succeeded []string
	Failed    []ImageFailure
}

// AllFailed reports whether images were attempted and none made it.
func (r ImageReport) AllFailed() bool {
	return len(r.Succeeded) == 0 && len(r.Failed) > 0
}
