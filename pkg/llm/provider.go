package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// LLMProvider defines the contract for any LLM backend
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// VisionProvider analyzes an image (URL or data URI) guided by a text prompt
// and returns the model's free-text analysis.
type VisionProvider interface {
	AnalyzeImage(ctx context.Context, prompt, imageURL string, options ...Option) (string, error)
}

// SearchOptions tune a web-search-augmented generation call.
type SearchOptions struct {
	ContextSize  string                 // "low", "medium", "high"
	UserLocation map[string]interface{} // optional geo hint
}

// SearchProvider runs a web-search-augmented generation and returns free text
// containing inline source URLs.
type SearchProvider interface {
	SearchGenerate(ctx context.Context, prompt string, opts SearchOptions) (string, error)
}

// ModerationOutcome is the structured triple returned by a moderation
// endpoint: an overall flag plus per-category flags and scores.
type ModerationOutcome struct {
	Flagged        bool
	Categories     map[string]bool
	CategoryScores map[string]float64
}

// ModerationProvider classifies text against a hosted moderation model.
type ModerationProvider interface {
	Moderate(ctx context.Context, input string) (*ModerationOutcome, error)
}
