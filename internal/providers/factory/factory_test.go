package factory

import (
	"testing"

	"github.com/lehigh-university-libraries/imagelens/internal/claude"
	"github.com/lehigh-university-libraries/imagelens/internal/config"
	"github.com/lehigh-university-libraries/imagelens/internal/gemini"
	"github.com/lehigh-university-libraries/imagelens/internal/ollama"
	"github.com/lehigh-university-libraries/imagelens/internal/openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		provider string
		expected any
	}{
		{config.ProviderOllama, &ollama.Ollama{}},
		{config.ProviderOpenAI, &openai.OpenAI{}},
		{config.ProviderGemini, &gemini.Gemini{}},
		{config.ProviderAnthropic, &claude.Claude{}},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			cfg := config.Default()
			cfg.Provider = tt.provider
			p, err := New(cfg)
			require.NoError(t, err)
			assert.IsType(t, tt.expected, p)
		})
	}
}

func TestNewUnknown(t *testing.T) {
	cfg := config.Default()
	cfg.Provider = "watson"
	_, err := New(cfg)
	assert.EqualError(t, err, "unsupported provider: watson")
}
