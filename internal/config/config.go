package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

const (
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"

	DefaultBasePath = "/api/v1/image/analysis"
)

// Config holds every runtime setting. Values come from Default, then an
// optional YAML file, then environment variables.
type Config struct {
	Port           string  `yaml:"port" env:"PORT"`
	BasePath       string  `yaml:"base_path" env:"BASE_PATH"`
	ImagesDir      string  `yaml:"images_dir" env:"IMAGES_DIR"`
	Provider       string  `yaml:"provider" env:"IMAGE_ANALYSIS_PROVIDER"`
	Model          string  `yaml:"model" env:"IMAGE_ANALYSIS_MODEL"`
	Temperature    float64 `yaml:"temperature" env:"IMAGE_ANALYSIS_TEMPERATURE"`
	MaxUploadBytes int64   `yaml:"max_upload_bytes" env:"MAX_UPLOAD_BYTES"`
	LogLevel       string  `yaml:"log_level" env:"LOG_LEVEL"`

	Fetch     FetchConfig     `yaml:"fetch" envPrefix:"FETCH_"`
	Ollama    OllamaConfig    `yaml:"ollama" envPrefix:"OLLAMA_"`
	OpenAI    OpenAIConfig    `yaml:"openai" envPrefix:"OPENAI_"`
	Gemini    GeminiConfig    `yaml:"gemini" envPrefix:"GEMINI_"`
	Anthropic AnthropicConfig `yaml:"anthropic" envPrefix:"ANTHROPIC_"`
}

// FetchConfig bounds how long URL image checks may take
type FetchConfig struct {
	ConnectTimeout time.Duration `yaml:"connect_timeout" env:"CONNECT_TIMEOUT"`
	ReadTimeout    time.Duration `yaml:"read_timeout" env:"READ_TIMEOUT"`
}

type OllamaConfig struct {
	URL   string `yaml:"url" env:"URL"`
	Model string `yaml:"model" env:"MODEL"`
}

type OpenAIConfig struct {
	APIKey  string `yaml:"api_key" env:"API_KEY"`
	BaseURL string `yaml:"base_url" env:"BASE_URL"`
	Model   string `yaml:"model" env:"MODEL"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key" env:"API_KEY"`
	Model  string `yaml:"model" env:"MODEL"`
}

type AnthropicConfig struct {
	APIKey    string `yaml:"api_key" env:"API_KEY"`
	BaseURL   string `yaml:"base_url" env:"BASE_URL"`
	Model     string `yaml:"model" env:"MODEL"`
	MaxTokens int64  `yaml:"max_tokens" env:"MAX_TOKENS"`
}

// Default returns the built-in configuration
func Default() Config {
	return Config{
		Port:           "8888",
		BasePath:       DefaultBasePath,
		ImagesDir:      "images",
		Provider:       ProviderOllama,
		Temperature:    0.1,
		MaxUploadBytes: 10 * 1024 * 1024,
		LogLevel:       "info",
		Fetch: FetchConfig{
			ConnectTimeout: 5 * time.Second,
			ReadTimeout:    5 * time.Second,
		},
		Ollama: OllamaConfig{
			URL: "http://localhost:11434",
		},
		Anthropic: AnthropicConfig{
			MaxTokens: 4096,
		},
	}
}

// Load builds the configuration. path may be empty, in which case only
// defaults and environment variables apply.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
		slog.Debug("Loaded config file", "path", path)
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse environment: %w", err)
	}

	cfg.Provider = strings.ToLower(strings.TrimSpace(cfg.Provider))
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate reports settings that would make the server unusable
func (c Config) Validate() error {
	var errs []error

	switch c.Provider {
	case ProviderOllama, ProviderOpenAI, ProviderGemini, ProviderAnthropic:
	default:
		errs = append(errs, fmt.Errorf("unsupported provider: %s", c.Provider))
	}
	if c.Fetch.ConnectTimeout <= 0 {
		errs = append(errs, errors.New("fetch.connect_timeout must be positive"))
	}
	if c.Fetch.ReadTimeout <= 0 {
		errs = append(errs, errors.New("fetch.read_timeout must be positive"))
	}
	if c.MaxUploadBytes <= 0 {
		errs = append(errs, errors.New("max_upload_bytes must be positive"))
	}
	if !strings.HasPrefix(c.BasePath, "/") {
		errs = append(errs, fmt.Errorf("base_path must start with /: %q", c.BasePath))
	}

	return errors.Join(errs...)
}

// ModelName returns the configured model, falling back to a per-provider default
func (c Config) ModelName() string {
	if c.Model != "" {
		return c.Model
	}

	switch c.Provider {
	case ProviderOpenAI:
		if c.OpenAI.Model != "" {
			return c.OpenAI.Model
		}
		return "gpt-4o"
	case ProviderOllama:
		if c.Ollama.Model != "" {
			return c.Ollama.Model
		}
		return "mistral-small3.2:24b"
	case ProviderGemini:
		if c.Gemini.Model != "" {
			return c.Gemini.Model
		}
		return "gemini-1.5-flash"
	case ProviderAnthropic:
		if c.Anthropic.Model != "" {
			return c.Anthropic.Model
		}
		return "claude-sonnet-4-5-20250929"
	default:
		return ""
	}
}

// SlogLevel converts the configured level name to a slog level
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
