// Package llm wraps the JSON-mode chat completion APIs the planner uses.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/NomadCrew/nomad-diary-backend/config"
)

// ErrEmptyResponse is returned when a provider answers without any text.
var ErrEmptyResponse = errors.New("provider returned an empty completion")

// Request is a single-turn completion that must answer with one JSON value.
type Request struct {
	System string
	Prompt string
}

// Completer returns the raw JSON text of a completion.
type Completer interface {
	CompleteJSON(ctx context.Context, req Request) (string, error)
	Name() string
}

// New builds the completer selected by cfg.Provider.
func New(ctx context.Context, cfg config.AIConfig) (Completer, error) {
	switch strings.ToLower(cfg.Provider) {
	case config.AIProviderGemini:
		return NewGemini(ctx, GeminiConfig{
			APIKey:      cfg.GeminiAPIKey,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
		})
	case config.AIProviderOpenAI:
		return NewOpenAI(OpenAIConfig{
			APIKey:      cfg.OpenAIAPIKey,
			BaseURL:     cfg.OpenAIBaseURL,
			Model:       cfg.Model,
			Temperature: cfg.Temperature,
		}), nil
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}
}

// CleanJSON strips markdown fences and any prose around the outermost JSON
// object or array.
func CleanJSON(text string) string {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```JSON")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	s = strings.TrimSpace(s)

	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return s
	}
	closer := byte('}')
	if s[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(s, closer)
	if end < start {
		return s[start:]
	}
	return s[start : end+1]
}
