package factory

import (
	"fmt"

	"github.com/lehigh-university-libraries/imagelens/internal/claude"
	"github.com/lehigh-university-libraries/imagelens/internal/config"
	"github.com/lehigh-university-libraries/imagelens/internal/gemini"
	"github.com/lehigh-university-libraries/imagelens/internal/httplog"
	"github.com/lehigh-university-libraries/imagelens/internal/ollama"
	"github.com/lehigh-university-libraries/imagelens/internal/openai"
	"github.com/lehigh-university-libraries/imagelens/internal/providers"
)

// New returns the provider selected by cfg.Provider
func New(cfg config.Config) (providers.Provider, error) {
	switch cfg.Provider {
	case config.ProviderOllama:
		return ollama.New(cfg.Ollama.URL, httplog.NewClient(0)), nil
	case config.ProviderOpenAI:
		return openai.New(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, httplog.NewClient(0)), nil
	case config.ProviderGemini:
		return gemini.New(cfg.Gemini.APIKey), nil
	case config.ProviderAnthropic:
		return claude.New(cfg.Anthropic.APIKey, cfg.Anthropic.BaseURL, cfg.Anthropic.MaxTokens, httplog.NewClient(0)), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Provider)
	}
}
