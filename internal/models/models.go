package models

// URLAnalysisRequest is the JSON body accepted by the URL and image library
// endpoints. The library endpoint only reads FileName and Prompt.
type URLAnalysisRequest struct {
	ImageURLs []string `json:"imageUrls"`
	Prompt    string   `json:"prompt"`
	FileName  string   `json:"fileName"`
}

// Base64Image is a single image encoded as a Base64 string with its MIME type
type Base64Image struct {
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"`
}

// Base64AnalysisRequest is the JSON body accepted by the Base64 endpoint
type Base64AnalysisRequest struct {
	Images []Base64Image `json:"images"`
	Prompt string        `json:"prompt"`
}

// AnalysisResponse carries the model's answer, or the failure message on errors
type AnalysisResponse struct {
	Response string `json:"response"`
}
