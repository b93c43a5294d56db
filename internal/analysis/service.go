package analysis

import (
	"context"
	"log/slog"
	"time"

	"github.com/lehigh-university-libraries/imagelens/internal/media"
	"github.com/lehigh-university-libraries/imagelens/internal/models"
	"github.com/lehigh-university-libraries/imagelens/internal/providers"
)

// Service validates input, normalizes images and asks the model about them
type Service struct {
	normalizer  *media.Normalizer
	provider    providers.Provider
	model       string
	temperature float64
}

func NewService(normalizer *media.Normalizer, provider providers.Provider, model string, temperature float64) *Service {
	return &Service{
		normalizer:  normalizer,
		provider:    provider,
		model:       model,
		temperature: temperature,
	}
}

// AnalyzeFromLibrary analyzes a single image from the bundled image library
func (s *Service) AnalyzeFromLibrary(ctx context.Context, fileName, prompt string) (*models.AnalysisResponse, error) {
	if err := ValidatePrompt(prompt); err != nil {
		return nil, err
	}

	item, err := s.normalizer.FromLibrary(fileName)
	if err != nil {
		return nil, err
	}

	return s.Analyze(ctx, prompt, []media.Item{item})
}

// AnalyzeUploads analyzes uploaded files
func (s *Service) AnalyzeUploads(ctx context.Context, uploads []media.Upload, prompt string) (*models.AnalysisResponse, error) {
	if err := ValidatePrompt(prompt); err != nil {
		return nil, err
	}

	items, err := s.normalizer.FromUploads(uploads)
	if err != nil {
		return nil, err
	}

	return s.Analyze(ctx, prompt, items)
}

// AnalyzeURLs analyzes images served at the given URLs
func (s *Service) AnalyzeURLs(ctx context.Context, urls []string, prompt string) (*models.AnalysisResponse, error) {
	if err := ValidatePrompt(prompt); err != nil {
		return nil, err
	}

	items, err := s.normalizer.FromURLs(ctx, urls)
	if err != nil {
		return nil, err
	}

	return s.Analyze(ctx, prompt, items)
}

// AnalyzeBase64 analyzes Base64 encoded images
func (s *Service) AnalyzeBase64(ctx context.Context, images []models.Base64Image, prompt string) (*models.AnalysisResponse, error) {
	if err := ValidatePrompt(prompt); err != nil {
		return nil, err
	}

	items, err := s.normalizer.FromBase64(images)
	if err != nil {
		return nil, err
	}

	return s.Analyze(ctx, prompt, items)
}

// Analyze sends the prompt and images to the model in a single call
func (s *Service) Analyze(ctx context.Context, prompt string, items []media.Item) (*models.AnalysisResponse, error) {
	if len(items) == 0 {
		return nil, models.NewProcessingError("No valid images were provided for analysis.", nil)
	}

	images := make([]providers.Image, 0, len(items))
	for _, item := range items {
		data, err := item.Resolve(ctx)
		if err != nil {
			return nil, models.NewProcessingError("Failed to read image content.", err)
		}
		images = append(images, providers.Image{MIMEType: item.MIMEType, Data: data})
	}

	start := time.Now()
	text, err := s.provider.Complete(ctx, providers.Request{
		Model:        s.model,
		Temperature:  s.temperature,
		SystemPrompt: SystemPrompt,
		Prompt:       prompt,
		Images:       images,
	})
	if err != nil {
		slog.Error("Model call failed", "model", s.model, "images", len(images), "err", err)
		return nil, models.NewProcessingError("Failed to analyze images.", err)
	}
	slog.Info("Image analysis completed", "model", s.model, "images", len(images), "length", len(text), "duration", time.Since(start))

	if IsRefusal(text) {
		return nil, models.NewProcessingError("The provided prompt is not related to image analysis.", nil)
	}

	return &models.AnalysisResponse{Response: text}, nil
}
