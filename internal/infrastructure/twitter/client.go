// Package twitter publishes posts and media to the destination platform.
package twitter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/oauth1"

	"CrossPoster/internal/config"
	"CrossPoster/internal/domain"
	"CrossPoster/internal/ports"
)

// Client implements media upload (v1.1) and post creation (v2) with one
// OAuth 1.0a signed HTTP client.
type Client struct {
	uploadURL string
	apiURL    string
	http      *http.Client
	logger    *slog.Logger
}

var _ ports.MediaUploader = (*Client)(nil)
var _ ports.PostPublisher = (*Client)(nil)

// NewClient wires the signed transport from the four credentials.
func NewClient(cfg config.XConfig, logger *slog.Logger) *Client {
	oauthCfg := oauth1.NewConfig(cfg.APIKey, cfg.APISecret)
	token := oauth1.NewToken(cfg.AccessToken, cfg.AccessTokenSecret)

	httpClient := oauthCfg.Client(oauth1.NoContext, token)
	httpClient.Timeout = 30 * time.Second

	return &Client{
		uploadURL: strings.TrimSuffix(cfg.UploadURL, "/"),
		apiURL:    strings.TrimSuffix(cfg.APIURL, "/"),
		http:      httpClient,
		logger:    logger,
	}
}

// Upload pushes image bytes to the media endpoint and returns the media
// id. Alt text, when present, is attached afterwards; a metadata failure
// does not fail the upload.
func (c *Client) Upload(ctx context.Context, media []byte, altText string) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("media", "media")
	if err != nil {
		return "", fmt.Errorf("build upload form: %w", err)
	}
	if _, err := part.Write(media); err != nil {
		return "", fmt.Errorf("write upload form: %w", err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close upload form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL+"/media/upload.json", &buf)
	if err != nil {
		return "", fmt.Errorf("build upload request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var uploaded struct {
		MediaIDString string `json:"media_id_string"`
	}
	if err := c.do(req, &uploaded); err != nil {
		return "", err
	}
	if uploaded.MediaIDString == "" {
		return "", fmt.Errorf("%w: upload response has no media id", domain.ErrExternalService)
	}

	if altText != "" {
		if err := c.attachAltText(ctx, uploaded.MediaIDString, altText); err != nil {
			c.warn("alt text not attached", "media_id", uploaded.MediaIDString, "error", err)
		}
	}

	return uploaded.MediaIDString, nil
}

// CreatePost creates the post from text plus any uploaded media ids and
// returns the new post id. A duplicate-content rejection surfaces as
// domain.ErrDuplicateContent.
func (c *Client) CreatePost(ctx context.Context, text string, mediaIDs []string) (string, error) {
	payload := map[string]any{"text": text}
	if len(mediaIDs) > 0 {
		payload["media"] = map[string]any{"media_ids": mediaIDs}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal post payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/tweets", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build post request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var created struct {
		Data struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := c.do(req, &created); err != nil {
		return "", err
	}
	if created.Data.ID == "" {
		return "", fmt.Errorf("%w: post response has no id", domain.ErrExternalService)
	}

	return created.Data.ID, nil
}

func (c *Client) attachAltText(ctx context.Context, mediaID, altText string) error {
	body, err := json.Marshal(map[string]any{
		"media_id": mediaID,
		"alt_text": map[string]string{"text": altText},
	})
	if err != nil {
		return fmt.Errorf("marshal metadata payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadURL+"/media/metadata/create.json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build metadata request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	return c.do(req, nil)
}

func (c *Client) do(req *http.Request, v any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", domain.ErrExternalService, req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		message := strings.TrimSpace(string(payload))
		if resp.StatusCode == http.StatusForbidden && strings.Contains(strings.ToLower(message), "duplicate content") {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateContent, message)
		}
		return fmt.Errorf("%w: %s %s returned %s: %s",
			domain.ErrExternalService, req.Method, req.URL.Path, resp.Status, message)
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode %s response: %v", domain.ErrExternalService, req.URL.Path, err)
	}
	return nil
}

func (c *Client) warn(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Warn(msg, args...)
	}
}
