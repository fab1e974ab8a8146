package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	require.Equal(t, "https://api.linkedin.com/rest", cfg.LinkedIn.APIURL)
	require.Equal(t, "202312", cfg.LinkedIn.Version)
	require.Equal(t, 3, cfg.LinkedIn.WindowDays)
	require.Equal(t, 200, cfg.LinkedIn.PageCount)
	require.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	require.Equal(t, 70, cfg.Limits.HeadlineMax)
	require.Equal(t, 160, cfg.Limits.DescriptionMax)
	require.Equal(t, 280, cfg.Limits.TweetMax)
	require.Equal(t, 4, cfg.Limits.MaxImages)
	require.Equal(t, 10*time.Second, cfg.Pipeline.StageDelay)
	require.False(t, cfg.Pipeline.ForcePost)
	require.Equal(t, "prompts.json", cfg.Prompts.Path)
	require.Equal(t, ".", cfg.Storage.DataDir)
	require.Equal(t, "images", cfg.Images.Dir)
	require.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LINKEDIN_ACCESS_TOKEN", "tok")
	t.Setenv("OPENAI_MODEL", "gpt-4o")
	t.Setenv("TWEET_MAX_CHARS", "140")
	t.Setenv("TWEET_MAX_IMAGES", "2")
	t.Setenv("FORCE_POST", "yes")
	t.Setenv("STAGE_DELAY", "1s")
	t.Setenv("DATA_DIR", "/tmp/snapshots")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	require.Equal(t, "tok", cfg.LinkedIn.AccessToken)
	require.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	require.Equal(t, 140, cfg.Limits.TweetMax)
	require.Equal(t, 2, cfg.Limits.MaxImages)
	require.True(t, cfg.Pipeline.ForcePost)
	require.Equal(t, time.Second, cfg.Pipeline.StageDelay)
	require.Equal(t, "/tmp/snapshots", cfg.Storage.DataDir)
	require.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadIgnoresBadNumbers(t *testing.T) {
	t.Setenv("TWEET_MAX_CHARS", "not-a-number")
	t.Setenv("STAGE_DELAY", "soon")

	cfg := Load()

	require.Equal(t, 280, cfg.Limits.TweetMax)
	require.Equal(t, 10*time.Second, cfg.Pipeline.StageDelay)
}

func TestLoadYAMLFileMergedUnderEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `
linkedin:
  accessToken: from-file
  windowDays: 7
openai:
  model: from-file-model
limits:
  tweetMax: 200
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))

	t.Setenv("CROSSPOSTER_CONFIG", path)
	t.Setenv("OPENAI_MODEL", "from-env-model")

	cfg := Load()

	require.Equal(t, "from-file", cfg.LinkedIn.AccessToken)
	require.Equal(t, 7, cfg.LinkedIn.WindowDays)
	require.Equal(t, 200, cfg.Limits.TweetMax)
	require.Equal(t, "from-env-model", cfg.OpenAI.Model, "env wins over file")
	require.Equal(t, 160, cfg.Limits.DescriptionMax, "untouched defaults survive the merge")
}

func TestBoolFromEnv(t *testing.T) {
	t.Parallel()

	for _, v := range []string{"1", "true", "TRUE", "yes", " Yes "} {
		require.True(t, boolFromEnv(v), v)
	}
	for _, v := range []string{"", "0", "false", "no", "maybe"} {
		require.False(t, boolFromEnv(v), v)
	}
}
