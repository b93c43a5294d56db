package gemini

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/lehigh-university-libraries/imagelens/internal/providers"
	"google.golang.org/api/option"
)

// Gemini is a provider for Google Gemini
type Gemini struct {
	apiKey string
}

// New returns a new Gemini provider
func New(apiKey string) *Gemini {
	return &Gemini{apiKey: apiKey}
}

// Complete sends the prompt followed by each image as an inline blob
func (g *Gemini) Complete(ctx context.Context, req providers.Request) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("GEMINI_API_KEY environment variable not set")
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create new gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(req.Model)
	model.SetTemperature(float32(req.Temperature))
	if req.SystemPrompt != "" {
		model.SystemInstruction = &genai.Content{
			Parts: []genai.Part{genai.Text(req.SystemPrompt)},
		}
	}

	resp, err := model.GenerateContent(ctx, buildParts(req)...)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	return extractText(resp)
}

func buildParts(req providers.Request) []genai.Part {
	parts := make([]genai.Part, 0, len(req.Images)+1)
	parts = append(parts, genai.Text(req.Prompt))
	for _, img := range req.Images {
		parts = append(parts, genai.Blob{MIMEType: img.MIMEType, Data: img.Data})
	}
	return parts
}

func extractText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned from Gemini")
	}

	candidate := resp.Candidates[0]
	if candidate.Content == nil || len(candidate.Content.Parts) == 0 {
		return "", fmt.Errorf("empty content returned from Gemini")
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			sb.WriteString(string(txt))
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("unexpected response format from Gemini")
	}

	return sb.String(), nil
}
