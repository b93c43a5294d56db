package media

import (
	"fmt"
	"mime"
	"strings"
)

const (
	MIMETypeJPEG = "image/jpeg"
	MIMETypePNG  = "image/png"
	MIMETypeGIF  = "image/gif"
	MIMETypeWEBP = "image/webp"
	MIMETypeBMP  = "image/bmp"
	MIMETypeTIFF = "image/tiff"
)

// uploadTypes maps declared upload content types to the MIME type sent to the model
var uploadTypes = map[string]string{
	"image/jpeg": MIMETypeJPEG,
	"image/jpg":  MIMETypeJPEG,
	"image/png":  MIMETypePNG,
	"image/gif":  MIMETypeGIF,
	"image/webp": MIMETypeWEBP,
	"image/bmp":  MIMETypeBMP,
	"image/tiff": MIMETypeTIFF,
}

// UploadMIMEType resolves the declared content type of an uploaded file.
// Unknown or missing types fall back to PNG.
func UploadMIMEType(contentType string) string {
	if t, ok := uploadTypes[strings.ToLower(strings.TrimSpace(contentType))]; ok {
		return t
	}
	return MIMETypePNG
}

// parseImageType parses a MIME type string, drops any parameters and
// requires the image top-level type.
func parseImageType(value string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(value)
	if err != nil {
		return "", fmt.Errorf("failed to parse MIME type %q: %w", value, err)
	}
	if !strings.HasPrefix(mediaType, "image/") {
		return "", fmt.Errorf("MIME type %q is not an image type", mediaType)
	}
	return mediaType, nil
}
