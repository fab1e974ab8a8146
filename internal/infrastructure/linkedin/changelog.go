// Package linkedin queries the member change-log API of the source platform.
package linkedin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"CrossPoster/internal/config"
	"CrossPoster/internal/domain"
	"CrossPoster/internal/ports"
)

const shareContentKey = "com.linkedin.ugc.ShareContent"

// Client implements ports.ChangeLogSource against the REST change-log feed.
type Client struct {
	baseURL   string
	token     string
	version   string
	pageCount int
	http      *http.Client
}

var _ ports.ChangeLogSource = (*Client)(nil)

// NewClient builds a change-log client from configuration.
func NewClient(cfg config.LinkedInConfig) *Client {
	pageCount := cfg.PageCount
	if pageCount <= 0 {
		pageCount = 200
	}
	return &Client{
		baseURL:   strings.TrimSuffix(cfg.APIURL, "/"),
		token:     cfg.AccessToken,
		version:   cfg.Version,
		pageCount: pageCount,
		http:      &http.Client{Timeout: 20 * time.Second},
	}
}

type changeLogEnvelope struct {
	Elements []struct {
		ResourceName string `json:"resourceName"`
		ResourceID   string `json:"resourceId"`
		Method       string `json:"method"`
		CapturedAt   int64  `json:"capturedAt"`
		Activity     struct {
			SpecificContent map[string]struct {
				ShareCommentary struct {
					Text string `json:"text"`
				} `json:"shareCommentary"`
			} `json:"specificContent"`
		} `json:"activity"`
	} `json:"elements"`
}

// RecentChanges queries member activity captured after since.
func (c *Client) RecentChanges(ctx context.Context, since time.Time) ([]ports.ChangeEvent, error) {
	query := map[string]string{
		"q":         "memberAndApplication",
		"count":     strconv.Itoa(c.pageCount),
		"startTime": strconv.FormatInt(since.UnixMilli(), 10),
	}

	resp, err := c.get(ctx, query)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("%w: change log returned %s: %s",
			domain.ErrExternalService, resp.Status, strings.TrimSpace(string(payload)))
	}

	var envelope changeLogEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("%w: decode change log: %v", domain.ErrExternalService, err)
	}

	events := make([]ports.ChangeEvent, 0, len(envelope.Elements))
	for _, el := range envelope.Elements {
		events = append(events, ports.ChangeEvent{
			ResourceName: el.ResourceName,
			ResourceID:   el.ResourceID,
			Method:       el.Method,
			CapturedAt:   time.UnixMilli(el.CapturedAt).UTC(),
			Text:         el.Activity.SpecificContent[shareContentKey].ShareCommentary.Text,
		})
	}

	return events, nil
}

// CheckToken probes the change-log endpoint to classify the access token.
func (c *Client) CheckToken(ctx context.Context) error {
	resp, err := c.get(ctx, map[string]string{
		"q":     "memberAndApplication",
		"count": "10",
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: access token is invalid or expired", domain.ErrConfiguration)
	default:
		return fmt.Errorf("%w: token check returned %s", domain.ErrExternalService, resp.Status)
	}
}

func (c *Client) get(ctx context.Context, query map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/memberChangeLogs", nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	q := req.URL.Query()
	for key, value := range query {
		q.Set(key, value)
	}
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("LinkedIn-Version", c.version)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: query change log: %v", domain.ErrExternalService, err)
	}
	return resp, nil
}
