package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/lehigh-university-libraries/imagelens/internal/httplog"
	"github.com/lehigh-university-libraries/imagelens/internal/providers"
)

const DefaultBaseURL = "https://api.openai.com/v1"

// OpenAI is a provider for the OpenAI chat completions API and compatible servers
type OpenAI struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// New returns a new OpenAI provider
func New(apiKey, baseURL string, httpClient *http.Client) *OpenAI {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = httplog.NewClient(0)
	}
	return &OpenAI{
		apiKey:     apiKey,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Complete sends the system prompt, the user prompt and the images as data URLs
func (o *OpenAI) Complete(ctx context.Context, req providers.Request) (string, error) {
	if o.apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not set")
	}

	content := []map[string]interface{}{
		{
			"type": "text",
			"text": req.Prompt,
		},
	}
	for _, img := range req.Images {
		content = append(content, map[string]interface{}{
			"type": "image_url",
			"image_url": map[string]string{
				"url": "data:" + img.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(img.Data),
			},
		})
	}

	requestBody, err := json.Marshal(map[string]interface{}{
		"model": req.Model,
		"messages": []map[string]interface{}{
			{
				"role":    "system",
				"content": req.SystemPrompt,
			},
			{
				"role":    "user",
				"content": content,
			},
		},
		"temperature": req.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/chat/completions", bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("received non-200 status code: %d - %s", resp.StatusCode, string(body))
	}

	var response struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no choices returned from OpenAI")
	}

	return response.Choices[0].Message.Content, nil
}
