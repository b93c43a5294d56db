package analysis

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"
	"time"

	"github.com/lehigh-university-libraries/imagelens/internal/media"
	"github.com/lehigh-university-libraries/imagelens/internal/models"
	"github.com/lehigh-university-libraries/imagelens/internal/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var jpegBytes = []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}

type fakeProvider struct {
	response string
	err      error
	calls    int
	last     providers.Request
}

func (f *fakeProvider) Complete(_ context.Context, req providers.Request) (string, error) {
	f.calls++
	f.last = req
	return f.response, f.err
}

func newTestService(p providers.Provider) *Service {
	library := fstest.MapFS{"cat.jpg": {Data: jpegBytes}}
	normalizer := media.NewNormalizer(library, "images", media.NewFetcher(time.Second, time.Second))
	return NewService(normalizer, p, "test-model", 0.1)
}

func requireMessage(t *testing.T, err error, message string) {
	t.Helper()
	var pe *models.ProcessingError
	require.True(t, errors.As(err, &pe), "expected ProcessingError, got %T: %v", err, err)
	assert.Equal(t, message, pe.Message)
}

func TestValidatePrompt(t *testing.T) {
	tests := []struct {
		name    string
		prompt  string
		wantErr bool
	}{
		{"empty", "", true},
		{"spaces", "   ", true},
		{"tabs and newlines", "\t\n", true},
		{"text", "What is in this picture?", false},
		{"padded text", "  describe  ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePrompt(tt.prompt)
			if tt.wantErr {
				requireMessage(t, err, "Prompt cannot be empty.")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestIsRefusal(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{RefusalResponse, true},
		{"error: i can only analyze images and answer related questions.", true},
		{"ERROR: I CAN ONLY ANALYZE IMAGES AND ANSWER RELATED QUESTIONS.", true},
		{"  " + RefusalResponse + "\n", true},
		{"Error: I can only analyze images", false},
		{"A cat sitting on a mat.", false},
		{"", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, IsRefusal(tt.text), "text %q", tt.text)
	}
}

func TestBlankPromptFailsBeforeIO(t *testing.T) {
	var hits int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Header().Set("Content-Type", "image/png")
	}))
	defer server.Close()

	p := &fakeProvider{response: "unused"}
	s := newTestService(p)
	ctx := context.Background()

	_, err := s.AnalyzeFromLibrary(ctx, "missing.jpg", " ")
	requireMessage(t, err, "Prompt cannot be empty.")

	_, err = s.AnalyzeUploads(ctx, nil, "")
	requireMessage(t, err, "Prompt cannot be empty.")

	_, err = s.AnalyzeURLs(ctx, []string{server.URL}, "\t")
	requireMessage(t, err, "Prompt cannot be empty.")

	_, err = s.AnalyzeBase64(ctx, []models.Base64Image{{MIMEType: "bogus", Data: "!!"}}, "")
	requireMessage(t, err, "Prompt cannot be empty.")

	assert.Zero(t, hits)
	assert.Zero(t, p.calls)
}

func TestAnalyzeFromLibrary(t *testing.T) {
	p := &fakeProvider{response: "A tabby cat."}
	s := newTestService(p)

	resp, err := s.AnalyzeFromLibrary(context.Background(), "cat.jpg", "What animal is this?")
	require.NoError(t, err)
	assert.Equal(t, "A tabby cat.", resp.Response)

	require.Equal(t, 1, p.calls)
	assert.Equal(t, "test-model", p.last.Model)
	assert.Equal(t, 0.1, p.last.Temperature)
	assert.Equal(t, SystemPrompt, p.last.SystemPrompt)
	assert.Equal(t, "What animal is this?", p.last.Prompt)
	require.Len(t, p.last.Images, 1)
	assert.Equal(t, "image/jpeg", p.last.Images[0].MIMEType)
	assert.Equal(t, jpegBytes, p.last.Images[0].Data)
}

func TestAnalyzeFromLibraryMissingFile(t *testing.T) {
	p := &fakeProvider{response: "unused"}
	s := newTestService(p)

	_, err := s.AnalyzeFromLibrary(context.Background(), "dog.jpg", "describe")
	requireMessage(t, err, "File not found in image library: images/dog.jpg")
	assert.Zero(t, p.calls)
}

func TestAnalyzeUploads(t *testing.T) {
	p := &fakeProvider{response: "Two images."}
	s := newTestService(p)

	uploads := []media.Upload{
		{Filename: "a.png", ContentType: "image/png", Data: []byte("png")},
		{Filename: "empty.gif", ContentType: "image/gif"},
		{Filename: "b.bin", ContentType: "application/octet-stream", Data: []byte("bin")},
	}
	resp, err := s.AnalyzeUploads(context.Background(), uploads, "compare")
	require.NoError(t, err)
	assert.Equal(t, "Two images.", resp.Response)

	require.Len(t, p.last.Images, 2)
	assert.Equal(t, "image/png", p.last.Images[0].MIMEType)
	assert.Equal(t, "image/png", p.last.Images[1].MIMEType)
}

func TestAnalyzeURLs(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/webp")
		_, _ = w.Write([]byte("webp-data"))
	}))
	defer server.Close()

	p := &fakeProvider{response: "A landscape."}
	s := newTestService(p)

	resp, err := s.AnalyzeURLs(context.Background(), []string{server.URL + "/a.webp"}, "describe")
	require.NoError(t, err)
	assert.Equal(t, "A landscape.", resp.Response)
	require.Len(t, p.last.Images, 1)
	assert.Equal(t, "image/webp", p.last.Images[0].MIMEType)
	assert.Equal(t, []byte("webp-data"), p.last.Images[0].Data)
}

func TestAnalyzeURLsReadFailure(t *testing.T) {
	// Content type passes validation but the later download is refused.
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.Header().Set("Content-Type", "image/png")
		if requests > 1 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("png"))
	}))
	defer server.Close()

	p := &fakeProvider{response: "unused"}
	s := newTestService(p)

	_, err := s.AnalyzeURLs(context.Background(), []string{server.URL}, "describe")
	requireMessage(t, err, "Failed to read image content.")
	assert.Zero(t, p.calls)
}

func TestAnalyzeBase64(t *testing.T) {
	p := &fakeProvider{response: "A chart."}
	s := newTestService(p)

	encoded := base64.StdEncoding.EncodeToString(jpegBytes)
	resp, err := s.AnalyzeBase64(context.Background(), []models.Base64Image{
		{MIMEType: "image/jpeg", Data: encoded},
	}, "what is this")
	require.NoError(t, err)
	assert.Equal(t, "A chart.", resp.Response)
	require.Len(t, p.last.Images, 1)
	assert.Equal(t, jpegBytes, p.last.Images[0].Data)
}

func TestAnalyzeBase64BatchIsAllOrNothing(t *testing.T) {
	p := &fakeProvider{response: "unused"}
	s := newTestService(p)

	encoded := base64.StdEncoding.EncodeToString(jpegBytes)
	_, err := s.AnalyzeBase64(context.Background(), []models.Base64Image{
		{MIMEType: "image/jpeg", Data: encoded},
		{MIMEType: "image/png", Data: ""},
	}, "describe")
	requireMessage(t, err, "Base64 image data and MIME type cannot be empty.")
	assert.Zero(t, p.calls)
}

func TestAnalyze(t *testing.T) {
	item := media.Item{MIMEType: "image/png", Source: media.BytesSource("png")}

	t.Run("no images", func(t *testing.T) {
		p := &fakeProvider{response: "unused"}
		_, err := newTestService(p).Analyze(context.Background(), "describe", nil)
		requireMessage(t, err, "No valid images were provided for analysis.")
		assert.Zero(t, p.calls)
	})

	t.Run("unreadable image", func(t *testing.T) {
		p := &fakeProvider{response: "unused"}
		bad := media.Item{MIMEType: "image/png", Source: media.BytesSource(nil)}
		_, err := newTestService(p).Analyze(context.Background(), "describe", []media.Item{item, bad})
		requireMessage(t, err, "Failed to read image content.")
		assert.Zero(t, p.calls)
	})

	t.Run("model failure", func(t *testing.T) {
		cause := errors.New("connection refused")
		p := &fakeProvider{err: cause}
		_, err := newTestService(p).Analyze(context.Background(), "describe", []media.Item{item})
		requireMessage(t, err, "Failed to analyze images.")
		assert.ErrorIs(t, err, cause)
		assert.Equal(t, "Failed to analyze images: connection refused", err.Error())
		assert.Equal(t, 1, p.calls)
	})

	t.Run("refusal in any case", func(t *testing.T) {
		for _, text := range []string{RefusalResponse, "error: I CAN ONLY analyze images and answer related questions."} {
			p := &fakeProvider{response: text}
			_, err := newTestService(p).Analyze(context.Background(), "what is the capital of France?", []media.Item{item})
			requireMessage(t, err, "The provided prompt is not related to image analysis.")
		}
	})

	t.Run("answer returned verbatim", func(t *testing.T) {
		p := &fakeProvider{response: "  A red square.\n"}
		resp, err := newTestService(p).Analyze(context.Background(), "describe", []media.Item{item})
		require.NoError(t, err)
		assert.Equal(t, "  A red square.\n", resp.Response)
	})
}
