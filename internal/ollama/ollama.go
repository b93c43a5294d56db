package ollama

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

const DefaultURL = "http://localhost:11434"

// Ollama is a provider for a local or remote Ollama server
type Ollama struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a new Ollama provider
func New(baseURL string, httpClient *http.Client) *Ollama {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if httpClient == nil {
		httpClient = httplog.NewClient(0)
	}
	return &Ollama{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: httpClient,
	}
}

// Complete sends the prompt and images to /api/generate
func (o *Ollama) Complete(ctx context.Context, req providers.Request) (string, error) {
	images := make([]string, 0, len(req.Images))
	for _, img := range req.Images {
		images = append(images, base64.StdEncoding.EncodeToString(img.Data))
	}

	requestBody, err := json.Marshal(map[string]interface{}{
		"model":  req.Model,
		"system": req.SystemPrompt,
		"prompt": req.Prompt,
		"images": images,
		"stream": false,
		"options": map[string]interface{}{
			"temperature": req.Temperature,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request body: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", o.baseURL+"/api/generate", bytes.NewBuffer(requestBody))
	if err != nil {
		return "", fmt.Errorf("failed to create new request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

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
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response body: %w", err)
	}

	return response.Response, nil
}
