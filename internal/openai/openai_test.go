package openai

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
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string          `json:"role"`
			Content json.RawMessage `json:"content"`
		} `json:"messages"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Two dogs playing."}}]}`))
	}))
	defer server.Close()

	text, err := New("sk-test", server.URL+"/v1", nil).Complete(context.Background(), providers.Request{
		Model:        "gpt-4o",
		SystemPrompt: "system",
		Prompt:       "Describe",
		Images: []providers.Image{
			{MIMEType: "image/png", Data: []byte("abc")},
			{MIMEType: "image/webp", Data: []byte("xyz")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Two dogs playing.", text)

	assert.Equal(t, "gpt-4o", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.JSONEq(t, `"system"`, string(got.Messages[0].Content))
	assert.JSONEq(t, `[
		{"type":"text","text":"Describe"},
		{"type":"image_url","image_url":{"url":"data:image/png;base64,YWJj"}},
		{"type":"image_url","image_url":{"url":"data:image/webp;base64,eHl6"}}
	]`, string(got.Messages[1].Content))
}

func TestCompleteRequiresAPIKey(t *testing.T) {
	_, err := New("", "", nil).Complete(context.Background(), providers.Request{})
	assert.EqualError(t, err, "OPENAI_API_KEY not set")
}

func TestCompleteNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	_, err := New("sk-test", server.URL, nil).Complete(context.Background(), providers.Request{})
	assert.EqualError(t, err, "no choices returned from OpenAI")
}
