package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/NomadCrew/nomad-diary-backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain object", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"prose around", "Here is the itinerary: {\"a\":{\"b\":2}} enjoy!", `{"a":{"b":2}}`},
		{"array", "  [1,2]  ", `[1,2]`},
		{"no json", "sorry", "sorry"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanJSON(tt.in))
		})
	}
}

func TestOpenAI_CompleteJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body["model"])
		format := body["response_format"].(map[string]any)
		assert.Equal(t, "json_object", format["type"])
		msgs := body["messages"].([]any)
		assert.Len(t, msgs, 2)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","choices":[{"index":0,"message":{"role":"assistant","content":"{\"itineraryOptions\":[]}"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c := NewOpenAI(OpenAIConfig{APIKey: "sk-test", BaseURL: srv.URL + "/v1", Model: "gpt-4o-mini", Temperature: 0.7})
	out, err := c.CompleteJSON(context.Background(), Request{System: "json only", Prompt: "plan"})
	require.NoError(t, err)
	assert.Equal(t, `{"itineraryOptions":[]}`, out)
	assert.Equal(t, "openai", c.Name())
}

func TestOpenAI_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","choices":[]}`))
	}))
	defer srv.Close()

	c := NewOpenAI(OpenAIConfig{APIKey: "k", BaseURL: srv.URL, Model: "m"})
	_, err := c.CompleteJSON(context.Background(), Request{Prompt: "x"})
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestOpenAI_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":{"message":"overloaded","type":"server_error"}}`))
	}))
	defer srv.Close()

	c := NewOpenAI(OpenAIConfig{APIKey: "k", BaseURL: srv.URL, Model: "m"})
	_, err := c.CompleteJSON(context.Background(), Request{Prompt: "x"})
	assert.Error(t, err)
}

func TestGemini_CompleteJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-2.0-flash:generateContent")

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gen := body["generationConfig"].(map[string]any)
		assert.Equal(t, "application/json", gen["responseMimeType"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"` +
			"```json\\n{\\\"finalItinerary\\\":{}}\\n```" + `"}]}}]}`))
	}))
	defer srv.Close()

	g, err := NewGemini(context.Background(), GeminiConfig{
		APIKey:      "g-key",
		Model:       "gemini-2.0-flash",
		Temperature: 0.5,
		BaseURL:     srv.URL + "/",
		HTTPClient:  srv.Client(),
	})
	require.NoError(t, err)

	out, err := g.CompleteJSON(context.Background(), Request{System: "json only", Prompt: "finalize"})
	require.NoError(t, err)
	assert.Equal(t, `{"finalItinerary":{}}`, out)
}

func TestNew_SelectsProvider(t *testing.T) {
	c, err := New(context.Background(), config.AIConfig{Provider: "openai", OpenAIAPIKey: "k", Model: "m"})
	require.NoError(t, err)
	assert.Equal(t, "openai", c.Name())

	_, err = New(context.Background(), config.AIConfig{Provider: "claude"})
	assert.Error(t, err)
}
