package usecase

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"CrossPoster/internal/domain"
	"CrossPoster/internal/ports"
	"CrossPoster/internal/prompts"
)

type fakeSource struct {
	events []ports.ChangeEvent
	err    error
	since  time.Time
}

func (f *fakeSource) RecentChanges(_ context.Context, since time.Time) ([]ports.ChangeEvent, error) {
	f.since = since
	return f.events, f.err
}

type fakeLibrary struct {
	urls []string
	err  error
	day  time.Time
}

func (f *fakeLibrary) ForDay(day time.Time) ([]string, error) {
	f.day = day
	return f.urls, f.err
}

// memStore keeps snapshots in a map so tests need no filesystem.
type memStore struct {
	docs    map[string]domain.Document
	saveErr error
	loadErr error
}

func newMemStore() *memStore {
	return &memStore{docs: map[string]domain.Document{}}
}

func (m *memStore) Save(name string, doc domain.Document) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.docs[name] = doc.Clone()
	return nil
}

func (m *memStore) Load(name string) (domain.Document, error) {
	if m.loadErr != nil {
		return domain.Document{}, m.loadErr
	}
	doc, ok := m.docs[name]
	if !ok {
		return domain.Document{}, fmt.Errorf("read snapshot %s: %w", name, fs.ErrNotExist)
	}
	return doc.Clone(), nil
}

type fakeGenerator struct {
	generate func(req ports.GenerationRequest) (string, error)
	requests []ports.GenerationRequest
}

func (f *fakeGenerator) Generate(_ context.Context, req ports.GenerationRequest) (string, error) {
	f.requests = append(f.requests, req)
	if f.generate == nil {
		return "", nil
	}
	return f.generate(req)
}

// repliesInOrder returns replies one by one across successive calls.
func repliesInOrder(replies ...string) func(ports.GenerationRequest) (string, error) {
	i := 0
	return func(ports.GenerationRequest) (string, error) {
		if i >= len(replies) {
			return "", nil
		}
		reply := replies[i]
		i++
		return reply, nil
	}
}

type fakeFetcher struct {
	fetch func(url string) ([]byte, error)
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	f.calls = append(f.calls, url)
	if f.fetch == nil {
		return []byte("bytes:" + url), nil
	}
	return f.fetch(url)
}

type uploadCall struct {
	media []byte
	alt   string
}

type fakeUploader struct {
	upload func(media []byte, alt string) (string, error)
	calls  []uploadCall
}

func (f *fakeUploader) Upload(_ context.Context, media []byte, alt string) (string, error) {
	f.calls = append(f.calls, uploadCall{media: media, alt: alt})
	if f.upload == nil {
		return fmt.Sprintf("media-%d", len(f.calls)), nil
	}
	return f.upload(media, alt)
}

type publishCall struct {
	text     string
	mediaIDs []string
}

type fakePublisher struct {
	create func(text string, mediaIDs []string) (string, error)
	calls  []publishCall
}

func (f *fakePublisher) CreatePost(_ context.Context, text string, mediaIDs []string) (string, error) {
	f.calls = append(f.calls, publishCall{text: text, mediaIDs: mediaIDs})
	if f.create == nil {
		return "900100", nil
	}
	return f.create(text, mediaIDs)
}

func testPrompts(t *testing.T, body string) *prompts.Store {
	t.Helper()

	path := filepath.Join(t.TempDir(), "prompts.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	store, err := prompts.Load(path)
	require.NoError(t, err)
	return store
}
