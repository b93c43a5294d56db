package providers

import (
	"context"
)

// Image is a resolved image attached to a request
type Image struct {
	MIMEType string
	Data     []byte
}

// Request is a single multimodal completion request
type Request struct {
	Model        string
	Temperature  float64
	SystemPrompt string
	Prompt       string
	Images       []Image
}

// Provider defines the interface for a multimodal chat model
type Provider interface {
	Complete(ctx context.Context, req Request) (string, error)
}
