package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"CrossPoster/internal/config"
	"CrossPoster/internal/domain"
)

const minimalPrompts = `{
  "linkedin_post_enrichment": [
    {"id": "default", "seo_system": "s", "seo_user": "u", "alt_system": "a", "alt_user": "b"}
  ],
  "tweet_generation": [
    {"id": "default", "tweet_system": "s", "tweet_user": "u"}
  ]
}`

func fullConfig(t *testing.T) config.Config {
	t.Helper()

	dir := t.TempDir()
	promptsPath := filepath.Join(dir, "prompts.json")
	require.NoError(t, os.WriteFile(promptsPath, []byte(minimalPrompts), 0o644))

	cfg := config.Config{}
	cfg.LinkedIn.AccessToken = "li-token"
	cfg.LinkedIn.APIURL = "https://api.linkedin.com/rest"
	cfg.LinkedIn.Version = "202312"
	cfg.OpenAI.APIKey = "oa-key"
	cfg.OpenAI.Model = "gpt-4o-mini"
	cfg.X.APIKey = "k"
	cfg.X.APISecret = "s"
	cfg.X.AccessToken = "t"
	cfg.X.AccessTokenSecret = "ts"
	cfg.X.UploadURL = "https://upload.twitter.com/1.1"
	cfg.X.APIURL = "https://api.twitter.com/2"
	cfg.Prompts.Path = promptsPath
	cfg.Storage.DataDir = dir
	return cfg
}

func TestRunnerBuildsWithFullConfig(t *testing.T) {
	t.Parallel()

	application := New(fullConfig(t), nil)

	runner, err := application.Runner(false)
	require.NoError(t, err)
	require.NotNil(t, runner)
}

func TestStageLookup(t *testing.T) {
	t.Parallel()

	application := New(fullConfig(t), nil)

	for _, name := range []string{"fetch", "enrich", "tweetify", "post"} {
		stage, err := application.Stage(name, false)
		require.NoError(t, err, name)
		require.NotNil(t, stage, name)
	}

	_, err := application.Stage("deploy", false)
	require.ErrorIs(t, err, domain.ErrConfiguration)
}

func TestMissingCredentialsAreConfigurationErrors(t *testing.T) {
	t.Parallel()

	t.Run("linkedin token", func(t *testing.T) {
		t.Parallel()
		cfg := fullConfig(t)
		cfg.LinkedIn.AccessToken = ""
		_, err := New(cfg, nil).FetchStage()
		require.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("openai key", func(t *testing.T) {
		t.Parallel()
		cfg := fullConfig(t)
		cfg.OpenAI.APIKey = ""
		_, err := New(cfg, nil).EnrichStage()
		require.ErrorIs(t, err, domain.ErrConfiguration)
		_, err = New(cfg, nil).TweetifyStage(false)
		require.ErrorIs(t, err, domain.ErrConfiguration)
	})

	t.Run("x credentials", func(t *testing.T) {
		t.Parallel()
		cfg := fullConfig(t)
		cfg.X.AccessTokenSecret = ""
		_, err := New(cfg, nil).PublishStage()
		require.ErrorIs(t, err, domain.ErrConfiguration)
	})
}

func TestMissingPromptsFileIsConfigurationError(t *testing.T) {
	t.Parallel()

	cfg := fullConfig(t)
	cfg.Prompts.Path = filepath.Join(t.TempDir(), "absent.json")

	_, err := New(cfg, nil).EnrichStage()
	require.ErrorIs(t, err, domain.ErrConfiguration)
}
