// Package ai defines the provider-agnostic contract every AI
// integration implements: structured input in, structured analysis
// result or typed failure out. The transcription and text-analysis
// providers are independent implementations of the same interface,
// selected by explicit configuration.
package ai

import (
	"context"
	"encoding/json"
)

// Service is the capability both AI integrations implement.
type Service interface {
	// Analyze processes the input and returns a structured result.
	// Input validation happens before any network call; validation
	// failures surface as *ErrInvalidInput with no attempt made.
	Analyze(ctx context.Context, input Input) (*Result, error)

	// Name identifies the provider, e.g. "whisper" or "gemini".
	Name() string
}

// Input carries the payload for one analysis call. Exactly one of
// Audio or Text is set; which one depends on the provider.
type Input struct {
	Audio *AudioInput
	Text  *TextInput
}

// AudioInput is a raw audio payload with its declared format.
type AudioInput struct {
	Data     []byte
	Format   string // file extension without the dot, e.g. "mp3"
	Language string // BCP-47 hint; defaults to Arabic for recitations
	Prompt   string // optional vocabulary hint for the transcriber
}

// TextInput is a textual context/prompt for analysis.
type TextInput struct {
	Prompt string
}

// Result is the standardized shape every provider returns.
type Result struct {
	// Payload is the provider-specific structured output, e.g. a
	// transcript object or categorized coaching findings.
	Payload json.RawMessage

	// Confidence is the provider's self-reported confidence. Callers
	// clamp it into [0.0, 1.0] before persisting.
	Confidence float64

	Provider string
	Model    string
}
