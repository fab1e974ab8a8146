package linkedin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"CrossPoster/internal/config"
	"CrossPoster/internal/domain"
)

const changeLogBody = `{
	"elements": [
		{
			"resourceName": "ugcPosts",
			"resourceId": "urn:li:share:100",
			"method": "CREATE",
			"capturedAt": 1741255200000,
			"activity": {
				"specificContent": {
					"com.linkedin.ugc.ShareContent": {
						"shareCommentary": {"text": "First line\n\nSecond paragraph"}
					}
				}
			}
		},
		{
			"resourceName": "socialActions",
			"resourceId": "urn:li:comment:1",
			"method": "CREATE",
			"capturedAt": 1741255300000
		}
	]
}`

func newTestClient(url string) *Client {
	return NewClient(config.LinkedInConfig{
		AccessToken: "secret-token",
		APIURL:      url,
		Version:     "202312",
		PageCount:   200,
	})
}

func TestRecentChanges(t *testing.T) {
	t.Parallel()

	var gotReq *http.Request
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(changeLogBody))
	}))
	defer server.Close()

	since := time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)
	events, err := newTestClient(server.URL).RecentChanges(context.Background(), since)
	require.NoError(t, err)

	require.Equal(t, "/memberChangeLogs", gotReq.URL.Path)
	require.Equal(t, "Bearer secret-token", gotReq.Header.Get("Authorization"))
	require.Equal(t, "202312", gotReq.Header.Get("LinkedIn-Version"))
	q := gotReq.URL.Query()
	require.Equal(t, "memberAndApplication", q.Get("q"))
	require.Equal(t, "200", q.Get("count"))
	require.Equal(t, "1740996000000", q.Get("startTime"))

	require.Len(t, events, 2)
	require.Equal(t, "ugcPosts", events[0].ResourceName)
	require.Equal(t, "urn:li:share:100", events[0].ResourceID)
	require.Equal(t, "CREATE", events[0].Method)
	require.Equal(t, "First line\n\nSecond paragraph", events[0].Text)
	require.Equal(t, time.UnixMilli(1741255200000).UTC(), events[0].CapturedAt)
	require.Equal(t, "", events[1].Text)
}

func TestRecentChangesHTTPError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "throttled", http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).RecentChanges(context.Background(), time.Now())
	require.Error(t, err)
	require.True(t, errors.Is(err, domain.ErrExternalService))
}

func TestCheckToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		wantErr error
	}{
		{name: "valid", status: http.StatusOK},
		{name: "expired", status: http.StatusUnauthorized, wantErr: domain.ErrConfiguration},
		{name: "unexpected", status: http.StatusInternalServerError, wantErr: domain.ErrExternalService},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			err := newTestClient(server.URL).CheckToken(context.Background())
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.True(t, errors.Is(err, tt.wantErr))
		})
	}
}
