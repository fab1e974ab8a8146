package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv = "CROSSPOSTER_CONFIG"

	linkedInTokenEnv   = "LINKEDIN_ACCESS_TOKEN"
	linkedInAPIURLEnv  = "LINKEDIN_API_URL"
	linkedInVersionEnv = "LINKEDIN_VERSION"
	fetchWindowEnv     = "FETCH_WINDOW_DAYS"
	fetchPageCountEnv  = "FETCH_PAGE_COUNT"

	openAIKeyEnv     = "OPENAI_API_KEY"
	openAIModelEnv   = "OPENAI_MODEL"
	openAIBaseURLEnv = "OPENAI_BASE_URL"

	xAPIKeyEnv        = "X_API_KEY"
	xAPISecretEnv     = "X_API_SECRET"
	xTokenEnv         = "X_ACCESS_TOKEN"
	xTokenSecretEnv   = "X_ACCESS_TOKEN_SECRET"
	promptsPathEnv    = "PROMPTS_PATH"
	linkedInPromptEnv = "LINKEDIN_PROMPT_PROFILE"
	tweetPromptEnv    = "TWEET_PROMPT_PROFILE"

	headlineMaxEnv = "HEADLINE_MAX_CHARS"
	descMaxEnv     = "DESC_MAX_CHARS"
	tweetMaxEnv    = "TWEET_MAX_CHARS"
	maxImagesEnv   = "TWEET_MAX_IMAGES"

	forcePostEnv  = "FORCE_POST"
	stageDelayEnv = "STAGE_DELAY"
	dataDirEnv    = "DATA_DIR"
	imagesDirEnv  = "IMAGES_DIR"
	imageBaseEnv  = "IMAGE_BASE_URL"
	logLevelEnv   = "LOG_LEVEL"
)

// Config holds the settings required across the application.
type Config struct {
	LinkedIn LinkedInConfig `yaml:"linkedin"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	X        XConfig        `yaml:"x"`
	Prompts  PromptsConfig  `yaml:"prompts"`
	Limits   LimitsConfig   `yaml:"limits"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Storage  StorageConfig  `yaml:"storage"`
	Images   ImagesConfig   `yaml:"images"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// LinkedInConfig describes the change-log query surface.
type LinkedInConfig struct {
	AccessToken string `yaml:"accessToken"`
	APIURL      string `yaml:"apiUrl"`
	Version     string `yaml:"version"`
	WindowDays  int    `yaml:"windowDays"`
	PageCount   int    `yaml:"pageCount"`
}

// OpenAIConfig defines how to contact the generative service.
type OpenAIConfig struct {
	APIKey  string `yaml:"apiKey"`
	Model   string `yaml:"model"`
	BaseURL string `yaml:"baseUrl"`
}

// XConfig wires the four destination credentials and the endpoints.
type XConfig struct {
	APIKey            string `yaml:"apiKey"`
	APISecret         string `yaml:"apiSecret"`
	AccessToken       string `yaml:"accessToken"`
	AccessTokenSecret string `yaml:"accessTokenSecret"`
	UploadURL         string `yaml:"uploadUrl"`
	APIURL            string `yaml:"apiUrl"`
}

// PromptsConfig locates the template store and the per-role selector ids.
type PromptsConfig struct {
	Path            string `yaml:"path"`
	LinkedInProfile string `yaml:"linkedinProfile"`
	TweetProfile    string `yaml:"tweetProfile"`
}

// LimitsConfig carries the output length caps.
type LimitsConfig struct {
	HeadlineMax    int `yaml:"headlineMax"`
	DescriptionMax int `yaml:"descriptionMax"`
	TweetMax       int `yaml:"tweetMax"`
	MaxImages      int `yaml:"maxImages"`
}

// PipelineConfig controls full-run pacing and the guard override.
type PipelineConfig struct {
	StageDelay time.Duration `yaml:"stageDelay"`
	ForcePost  bool          `yaml:"forcePost"`
}

// StorageConfig locates the document snapshots.
type StorageConfig struct {
	DataDir string `yaml:"dataDir"`
}

// ImagesConfig describes where local post images live and how they are
// addressed publicly.
type ImagesConfig struct {
	Dir     string `yaml:"dir"`
	BaseURL string `yaml:"baseUrl"`
}

// LoggingConfig selects the log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment
// overrides. A .env file in the working directory is folded into the
// environment first.
func Load() Config {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(linkedInTokenEnv); v != "" {
		c.LinkedIn.AccessToken = v
	}
	if v := os.Getenv(linkedInAPIURLEnv); v != "" {
		c.LinkedIn.APIURL = v
	}
	if v := os.Getenv(linkedInVersionEnv); v != "" {
		c.LinkedIn.Version = v
	}
	if v := intFromEnv(fetchWindowEnv); v > 0 {
		c.LinkedIn.WindowDays = v
	}
	if v := intFromEnv(fetchPageCountEnv); v > 0 {
		c.LinkedIn.PageCount = v
	}

	if v := os.Getenv(openAIKeyEnv); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv(openAIModelEnv); v != "" {
		c.OpenAI.Model = v
	}
	if v := os.Getenv(openAIBaseURLEnv); v != "" {
		c.OpenAI.BaseURL = v
	}

	if v := os.Getenv(xAPIKeyEnv); v != "" {
		c.X.APIKey = v
	}
	if v := os.Getenv(xAPISecretEnv); v != "" {
		c.X.APISecret = v
	}
	if v := os.Getenv(xTokenEnv); v != "" {
		c.X.AccessToken = v
	}
	if v := os.Getenv(xTokenSecretEnv); v != "" {
		c.X.AccessTokenSecret = v
	}

	if v := os.Getenv(promptsPathEnv); v != "" {
		c.Prompts.Path = v
	}
	if v := os.Getenv(linkedInPromptEnv); v != "" {
		c.Prompts.LinkedInProfile = v
	}
	if v := os.Getenv(tweetPromptEnv); v != "" {
		c.Prompts.TweetProfile = v
	}

	if v := intFromEnv(headlineMaxEnv); v > 0 {
		c.Limits.HeadlineMax = v
	}
	if v := intFromEnv(descMaxEnv); v > 0 {
		c.Limits.DescriptionMax = v
	}
	if v := intFromEnv(tweetMaxEnv); v > 0 {
		c.Limits.TweetMax = v
	}
	if v := intFromEnv(maxImagesEnv); v > 0 {
		c.Limits.MaxImages = v
	}

	if v := os.Getenv(forcePostEnv); v != "" {
		c.Pipeline.ForcePost = boolFromEnv(v)
	}
	if v := os.Getenv(stageDelayEnv); v != "" {
		if d, err := time.ParseDuration(v); err != nil {
			log.Printf("config: invalid %s %q: %v (keeping %s)", stageDelayEnv, v, err, c.Pipeline.StageDelay)
		} else {
			c.Pipeline.StageDelay = d
		}
	}

	if v := os.Getenv(dataDirEnv); v != "" {
		c.Storage.DataDir = v
	}
	if v := os.Getenv(imagesDirEnv); v != "" {
		c.Images.Dir = v
	}
	if v := os.Getenv(imageBaseEnv); v != "" {
		c.Images.BaseURL = v
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
}

func intFromEnv(key string) int {
	raw := os.Getenv(key)
	if raw == "" {
		return 0
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config: invalid %s %q: %v (keeping default)", key, raw, err)
		return 0
	}
	return v
}

func boolFromEnv(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1", "true", "yes":
		return true
	}
	return false
}

func mergeConfig(base, override Config) Config {
	if override.LinkedIn.AccessToken != "" {
		base.LinkedIn.AccessToken = override.LinkedIn.AccessToken
	}
	if override.LinkedIn.APIURL != "" {
		base.LinkedIn.APIURL = override.LinkedIn.APIURL
	}
	if override.LinkedIn.Version != "" {
		base.LinkedIn.Version = override.LinkedIn.Version
	}
	if override.LinkedIn.WindowDays > 0 {
		base.LinkedIn.WindowDays = override.LinkedIn.WindowDays
	}
	if override.LinkedIn.PageCount > 0 {
		base.LinkedIn.PageCount = override.LinkedIn.PageCount
	}

	if override.OpenAI.APIKey != "" {
		base.OpenAI.APIKey = override.OpenAI.APIKey
	}
	if override.OpenAI.Model != "" {
		base.OpenAI.Model = override.OpenAI.Model
	}
	if override.OpenAI.BaseURL != "" {
		base.OpenAI.BaseURL = override.OpenAI.BaseURL
	}

	if override.X.APIKey != "" {
		base.X.APIKey = override.X.APIKey
	}
	if override.X.APISecret != "" {
		base.X.APISecret = override.X.APISecret
	}
	if override.X.AccessToken != "" {
		base.X.AccessToken = override.X.AccessToken
	}
	if override.X.AccessTokenSecret != "" {
		base.X.AccessTokenSecret = override.X.AccessTokenSecret
	}
	if override.X.UploadURL != "" {
		base.X.UploadURL = override.X.UploadURL
	}
	if override.X.APIURL != "" {
		base.X.APIURL = override.X.APIURL
	}

	if override.Prompts.Path != "" {
		base.Prompts.Path = override.Prompts.Path
	}
	if override.Prompts.LinkedInProfile != "" {
		base.Prompts.LinkedInProfile = override.Prompts.LinkedInProfile
	}
	if override.Prompts.TweetProfile != "" {
		base.Prompts.TweetProfile = override.Prompts.TweetProfile
	}

	if override.Limits.HeadlineMax > 0 {
		base.Limits.HeadlineMax = override.Limits.HeadlineMax
	}
	if override.Limits.DescriptionMax > 0 {
		base.Limits.DescriptionMax = override.Limits.DescriptionMax
	}
	if override.Limits.TweetMax > 0 {
		base.Limits.TweetMax = override.Limits.TweetMax
	}
	if override.Limits.MaxImages > 0 {
		base.Limits.MaxImages = override.Limits.MaxImages
	}

	if override.Pipeline.StageDelay > 0 {
		base.Pipeline.StageDelay = override.Pipeline.StageDelay
	}
	if override.Pipeline.ForcePost {
		base.Pipeline.ForcePost = true
	}

	if override.Storage.DataDir != "" {
		base.Storage.DataDir = override.Storage.DataDir
	}
	if override.Images.Dir != "" {
		base.Images.Dir = override.Images.Dir
	}
	if override.Images.BaseURL != "" {
		base.Images.BaseURL = override.Images.BaseURL
	}
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	return Config{
		LinkedIn: LinkedInConfig{
			APIURL:     "https://api.linkedin.com/rest",
			Version:    "202312",
			WindowDays: 3,
			PageCount:  200,
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		X: XConfig{
			UploadURL: "https://upload.twitter.com/1.1",
			APIURL:    "https://api.twitter.com/2",
		},
		Prompts: PromptsConfig{
			Path: "prompts.json",
		},
		Limits: LimitsConfig{
			HeadlineMax:    70,
			DescriptionMax: 160,
			TweetMax:       280,
			MaxImages:      4,
		},
		Pipeline: PipelineConfig{
			StageDelay: 10 * time.Second,
		},
		Storage: StorageConfig{
			DataDir: ".",
		},
		Images: ImagesConfig{
			Dir:     "images",
			BaseURL: "https://images.example.org/posts",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
