package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lehigh-university-libraries/imagelens/internal/providers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComplete(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"response":"A tabby cat on a sofa."}`))
	}))
	defer server.Close()

	text, err := New(server.URL+"/", nil).Complete(context.Background(), providers.Request{
		Model:        "llava",
		SystemPrompt: "system",
		Prompt:       "What is in this image?",
		Images:       []providers.Image{{MIMEType: "image/jpeg", Data: []byte("abc")}},
	})
	require.NoError(t, err)
	assert.Equal(t, "A tabby cat on a sofa.", text)

	assert.Equal(t, "llava", got["model"])
	assert.Equal(t, "system", got["system"])
	assert.Equal(t, "What is in this image?", got["prompt"])
	assert.Equal(t, []any{"YWJj"}, got["images"])
	assert.Equal(t, false, got["stream"])
}

func TestCompleteNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	_, err := New(server.URL, nil).Complete(context.Background(), providers.Request{Model: "missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
