package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ModeVideo      = "video"
	ModeTranscript = "transcript"

	defaultModel         = "gemini-2.5-pro"
	defaultTeam          = "marketing"
	defaultUseCase       = "creator-briefs"
	defaultMaxRetries    = 3
	defaultAnthropicMax  = 4096
	defaultOpenAIMax     = 4096
	defaultSettleDelay   = 500 * time.Millisecond
	defaultPollInterval  = 2 * time.Second
	defaultWhisperLang   = "en"
	defaultWhisperPrompt = "Transcribe exactly as spoken, including casual speech like 'wanna', 'gonna', etc."
)

// DefaultFallbackModels is used when gateway.fallback_models is not set.
var DefaultFallbackModels = []string{
	"gemini-2.5-pro",
	"gemini-2.5-flash",
	"gemini-2.0-flash-001",
	"gemini-2.0-flash-lite-001",
	"anthropic.claude-3-sonnet-20240229-v1:0",
}

var defaultVideoExtensions = []string{".mp4", ".avi", ".mov", ".mkv", ".webm"}

type Config struct {
	Paths   PathsConfig   `yaml:"paths"`
	Files   FilesConfig   `yaml:"files"`
	Gateway GatewayConfig `yaml:"gateway"`
	Whisper WhisperConfig `yaml:"whisper"`
	Brief   BriefConfig   `yaml:"brief"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Watch   WatchConfig   `yaml:"watch"`
}

type PathsConfig struct {
	Input        string `yaml:"input"`
	Transcripts  string `yaml:"transcripts"`
	Briefs       string `yaml:"briefs"`
	SystemPrompt string `yaml:"system_prompt"`
}

type FilesConfig struct {
	VideoExtensions     []string `yaml:"video_extensions"`
	TranscriptExtension string   `yaml:"transcript_extension"`
	BriefExtension      string   `yaml:"brief_extension"`
}

type GatewayConfig struct {
	Team           string            `yaml:"team"`
	UseCase        string            `yaml:"use_case"`
	DefaultModel   string            `yaml:"default_model"`
	FallbackModels []string          `yaml:"fallback_models"`
	Families       map[string]string `yaml:"families"`
	MaxRetries     int               `yaml:"max_retries"`
	Gemini         GeminiConfig      `yaml:"gemini"`
	Anthropic      AnthropicConfig   `yaml:"anthropic"`
	OpenAI         OpenAIConfig      `yaml:"openai"`
}

type GeminiConfig struct {
	APIKey       string        `yaml:"api_key"`
	Backend      string        `yaml:"backend"`
	Project      string        `yaml:"project"`
	Location     string        `yaml:"location"`
	BaseURL      string        `yaml:"base_url"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

type AnthropicConfig struct {
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	MaxTokens int64  `yaml:"max_tokens"`
}

type OpenAIConfig struct {
	APIKey    string `yaml:"api_key"`
	BaseURL   string `yaml:"base_url"`
	MaxTokens int64  `yaml:"max_tokens"`
}

type WhisperConfig struct {
	ModelPath  string   `yaml:"model_path"`
	BinaryPath string   `yaml:"binary_path"`
	Language   string   `yaml:"language"`
	Prompt     string   `yaml:"prompt"`
	Threads    int      `yaml:"threads"`
	Device     string   `yaml:"device"`
	ExtraArgs  []string `yaml:"extra_args"`
	TempDir    string   `yaml:"temp_dir"`
}

type BriefConfig struct {
	Mode      string `yaml:"mode"`
	Overwrite bool   `yaml:"overwrite"`
	Docx      bool   `yaml:"docx"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type MetricsConfig struct {
	Textfile string `yaml:"textfile"`
	Listen   string `yaml:"listen"`
}

type WatchConfig struct {
	SettleDelay time.Duration `yaml:"settle_delay"`
}

// Load reads the YAML file at path, applies credentials from the environment
// (a .env file in the working directory is honoured) and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Missing .env is fine; variables may come from the real environment.
	_ = godotenv.Load()
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	setFromEnv(&c.Gateway.Gemini.APIKey, "GEMINI_API_KEY", "GOOGLE_API_KEY")
	setFromEnv(&c.Gateway.Gemini.Project, "GOOGLE_CLOUD_PROJECT")
	setFromEnv(&c.Gateway.Gemini.Location, "GOOGLE_CLOUD_LOCATION")
	setFromEnv(&c.Gateway.Anthropic.APIKey, "ANTHROPIC_API_KEY")
	setFromEnv(&c.Gateway.Anthropic.BaseURL, "ANTHROPIC_BASE_URL")
	setFromEnv(&c.Gateway.OpenAI.APIKey, "OPENAI_API_KEY")
	setFromEnv(&c.Gateway.OpenAI.BaseURL, "OPENAI_BASE_URL")
}

// setFromEnv fills an empty field from the first non-empty variable.
func setFromEnv(field *string, keys ...string) {
	if *field != "" {
		return
	}
	for _, key := range keys {
		if v := os.Getenv(key); v != "" {
			*field = v
			return
		}
	}
}

func (c *Config) Validate() error {
	if c.Paths.Input == "" {
		return fmt.Errorf("paths.input is required")
	}
	if c.Paths.Briefs == "" {
		return fmt.Errorf("paths.briefs is required")
	}

	if c.Brief.Mode == "" {
		c.Brief.Mode = ModeVideo
	}
	switch c.Brief.Mode {
	case ModeVideo, ModeTranscript:
	default:
		return fmt.Errorf("brief.mode must be %q or %q, got %q", ModeVideo, ModeTranscript, c.Brief.Mode)
	}
	if c.Brief.Mode == ModeTranscript {
		if c.Whisper.BinaryPath == "" {
			return fmt.Errorf("whisper.binary_path is required in transcript mode")
		}
		if c.Whisper.ModelPath == "" {
			return fmt.Errorf("whisper.model_path is required in transcript mode")
		}
	}

	if c.Paths.Transcripts == "" {
		c.Paths.Transcripts = "output/transcripts"
	}
	if c.Paths.SystemPrompt == "" {
		c.Paths.SystemPrompt = "config/system_prompt.txt"
	}
	if len(c.Files.VideoExtensions) == 0 {
		c.Files.VideoExtensions = append([]string(nil), defaultVideoExtensions...)
	}
	c.Files.TranscriptExtension = dotted(c.Files.TranscriptExtension, ".txt")
	c.Files.BriefExtension = dotted(c.Files.BriefExtension, ".md")

	if c.Gateway.DefaultModel == "" {
		c.Gateway.DefaultModel = defaultModel
	}
	if c.Gateway.FallbackModels == nil {
		c.Gateway.FallbackModels = append([]string(nil), DefaultFallbackModels...)
	}
	if c.Gateway.Team == "" {
		c.Gateway.Team = defaultTeam
	}
	if c.Gateway.UseCase == "" {
		c.Gateway.UseCase = defaultUseCase
	}
	if c.Gateway.MaxRetries <= 0 {
		c.Gateway.MaxRetries = defaultMaxRetries
	}
	if c.Gateway.Gemini.PollInterval <= 0 {
		c.Gateway.Gemini.PollInterval = defaultPollInterval
	}
	if c.Gateway.Anthropic.MaxTokens <= 0 {
		c.Gateway.Anthropic.MaxTokens = defaultAnthropicMax
	}
	if c.Gateway.OpenAI.MaxTokens <= 0 {
		c.Gateway.OpenAI.MaxTokens = defaultOpenAIMax
	}
	for id, family := range c.Gateway.Families {
		switch strings.ToLower(family) {
		case "gemini", "claude", "generic":
		default:
			return fmt.Errorf("gateway.families[%s]: unknown family %q", id, family)
		}
	}

	if c.Whisper.Language == "" {
		c.Whisper.Language = defaultWhisperLang
	}
	if c.Whisper.Prompt == "" {
		c.Whisper.Prompt = defaultWhisperPrompt
	}
	if c.Whisper.Threads == 0 {
		c.Whisper.Threads = 8
	}
	if c.Whisper.Device == "" {
		c.Whisper.Device = "cpu"
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Watch.SettleDelay <= 0 {
		c.Watch.SettleDelay = defaultSettleDelay
	}

	return nil
}

func dotted(ext, fallback string) string {
	if ext == "" {
		return fallback
	}
	if !strings.HasPrefix(ext, ".") {
		return "." + ext
	}
	return ext
}
