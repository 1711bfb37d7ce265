package ai

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/llms/googleai"
)

// NewTranscriptionService builds the configured speech-to-text
// provider, wrapped in the retry policy. Provider selection is an
// explicit configuration choice, never runtime type inspection.
func NewTranscriptionService(provider, apiKey, model string, retry RetryConfig) (Service, error) {
	switch provider {
	case "whisper", "":
		svc, err := NewWhisperService(apiKey, model)
		if err != nil {
			return nil, err
		}
		return WithRetry(svc, retry), nil
	default:
		return nil, fmt.Errorf("unsupported transcription provider: %s", provider)
	}
}

// NewAnalysisService builds the configured text-analysis provider,
// wrapped in the retry policy. The underlying client is constructed
// once here and lives for the process lifetime.
func NewAnalysisService(ctx context.Context, provider, apiKey, model string, retry RetryConfig) (Service, error) {
	switch provider {
	case "gemini", "":
		if apiKey == "" {
			return nil, fmt.Errorf("gemini API key is required but not provided")
		}
		llm, err := googleai.New(ctx,
			googleai.WithAPIKey(apiKey),
			googleai.WithDefaultModel(model),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create gemini client: %w", err)
		}
		svc, err := NewGeminiService(llm, model)
		if err != nil {
			return nil, err
		}
		return WithRetry(svc, retry), nil
	default:
		return nil, fmt.Errorf("unsupported analysis provider: %s", provider)
	}
}
