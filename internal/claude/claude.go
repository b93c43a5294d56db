package claude

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/lehigh-university-libraries/imagelens/internal/httplog"
	"github.com/lehigh-university-libraries/imagelens/internal/providers"
)

const (
	DefaultBaseURL   = "https://api.anthropic.com"
	DefaultMaxTokens = 4096
)

// Claude is a provider for the Anthropic Messages API
type Claude struct {
	client    *anthropic.Client
	apiKey    string
	maxTokens int64
}

// New returns a new Claude provider. Retries are disabled; a failed call is
// reported to the caller as is.
func New(apiKey, baseURL string, maxTokens int64, httpClient *http.Client) *Claude {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if httpClient == nil {
		httpClient = httplog.NewClient(0)
	}
	client := anthropic.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithHTTPClient(httpClient),
		option.WithMaxRetries(0),
	)
	return &Claude{client: &client, apiKey: apiKey, maxTokens: maxTokens}
}

// Complete sends the images followed by the prompt in a single user turn
func (c *Claude) Complete(ctx context.Context, req providers.Request) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("ANTHROPIC_API_KEY not set")
	}

	resp, err := c.client.Messages.New(ctx, buildParams(req, c.maxTokens))
	if err != nil {
		return "", fmt.Errorf("claude API call: %w", err)
	}

	var sb strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			sb.WriteString(block.AsText().Text)
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("no text content returned from Claude")
	}
	return sb.String(), nil
}

func buildParams(req providers.Request, maxTokens int64) anthropic.MessageNewParams {
	blocks := make([]anthropic.ContentBlockParamUnion, 0, len(req.Images)+1)
	for _, img := range req.Images {
		blocks = append(blocks, anthropic.NewImageBlockBase64(img.MIMEType, base64.StdEncoding.EncodeToString(img.Data)))
	}
	blocks = append(blocks, anthropic.NewTextBlock(req.Prompt))

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   maxTokens,
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(blocks...)},
		Temperature: anthropic.Float(req.Temperature),
	}
	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemPrompt}}
	}
	return params
}
