// Package images resolves locally published post images and downloads
// them for re-upload.
package images

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"CrossPoster/internal/domain"
	"CrossPoster/internal/ports"
)

// Library lists images published alongside a post. Files live in a flat
// directory and are matched by the post's publication day.
type Library struct {
	dir     string
	baseURL string
}

var _ ports.ImageLibrary = (*Library)(nil)

func NewLibrary(dir, baseURL string) *Library {
	return &Library{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// ForDay returns public URLs for every image named after the given day,
// sorted by file name. A missing directory means no images, not an error.
func (l *Library) ForDay(day time.Time) ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read images dir %s: %w", l.dir, err)
	}

	prefix := day.UTC().Format("2006-01-02")

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(name), ".jpeg") {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	urls := make([]string, 0, len(names))
	for _, name := range names {
		urls = append(urls, l.baseURL+"/"+name)
	}
	return urls, nil
}

// Fetcher downloads image bytes over HTTP.
type Fetcher struct {
	http *http.Client
}

var _ ports.ImageFetcher = (*Fetcher)(nil)

func NewFetcher() *Fetcher {
	return &Fetcher{
		http: &http.Client{Timeout: 30 * time.Second},
	}
}

func (f *Fetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build image request: %w", err)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch %s: %v", domain.ErrExternalService, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: fetch %s returned %s", domain.ErrExternalService, url, resp.Status)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrExternalService, url, err)
	}
	return payload, nil
}
