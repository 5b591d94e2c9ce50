package llm

import (
	"context"
)

type ProviderName string

const (
	Gemini     ProviderName = "gemini"
	Groq       ProviderName = "groq"
	OpenRouter ProviderName = "openrouter"
)

// Provider sends one composed prompt to an upstream model and returns the reply text.
type Provider interface {
	Name() ProviderName
	Type() string // e.g., "google", "openai"
	Complete(ctx context.Context, apiKey, prompt string) (string, error)
}
