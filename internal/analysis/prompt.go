package analysis

import (
	"strings"

	"github.com/lehigh-university-libraries/imagelens/internal/models"
)

// RefusalResponse is the exact phrase the model is told to answer with when
// a prompt has nothing to do with the supplied images.
const RefusalResponse = "Error: I can only analyze images and answer related questions."

// SystemPrompt defines the assistant persona sent with every request
const SystemPrompt = `You are an AI assistant that specializes in image analysis.
Your task is to analyze the provided image(s) and answer the user's question about them.
If the user's prompt is not related to analyzing the image(s),
respond with the exact phrase: '` + RefusalResponse + `'
`

// IsRefusal reports whether the model answered with the refusal phrase.
// Case and surrounding whitespace are ignored.
func IsRefusal(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), RefusalResponse)
}

// ValidatePrompt rejects empty and whitespace-only prompts
func ValidatePrompt(prompt string) error {
	if strings.TrimSpace(prompt) == "" {
		return models.NewProcessingError("Prompt cannot be empty.", nil)
	}
	return nil
}
