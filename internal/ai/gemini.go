package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// geminiService analyzes textual practice context through a langchaingo
// chat model (Gemini in production, anything llms.Model in tests).
type geminiService struct {
	llm       llms.Model
	modelName string
}

// NewGeminiService constructs the text-analysis provider around an
// already-configured model client.
func NewGeminiService(llm llms.Model, modelName string) (Service, error) {
	if llm == nil {
		return nil, fmt.Errorf("analysis model client is required but not provided")
	}
	if modelName == "" {
		return nil, fmt.Errorf("analysis model name is required but not provided")
	}
	return &geminiService{llm: llm, modelName: modelName}, nil
}

func (s *geminiService) Name() string { return "gemini" }

func (s *geminiService) Analyze(ctx context.Context, input Input) (*Result, error) {
	if input.Text == nil || strings.TrimSpace(input.Text.Prompt) == "" {
		return nil, &ErrInvalidInput{Reason: "prompt context must not be empty"}
	}

	completion, err := llms.GenerateFromSinglePrompt(ctx, s.llm, input.Text.Prompt,
		llms.WithTemperature(0.3),
		llms.WithModel(s.modelName),
	)
	if err != nil {
		return nil, mapModelError(err)
	}

	payload, err := extractJSONObject(completion)
	if err != nil {
		return nil, err
	}

	return &Result{
		Payload:    payload,
		Confidence: payloadConfidence(payload),
		Provider:   s.Name(),
		Model:      s.modelName,
	}, nil
}

// extractJSONObject pulls the JSON object out of a completion that may
// be wrapped in markdown fences or surrounding prose.
func extractJSONObject(completion string) (json.RawMessage, error) {
	cleaned := strings.TrimSpace(completion)

	// Strip markdown code fences if the model wrapped its output.
	if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
		cleaned = strings.TrimPrefix(cleaned, "```")
		if end := strings.LastIndex(cleaned, "```"); end != -1 {
			cleaned = cleaned[:end]
		}
		cleaned = strings.TrimSpace(cleaned)
	}

	jsonStart := strings.Index(cleaned, "{")
	jsonEnd := strings.LastIndex(cleaned, "}")
	if jsonStart == -1 || jsonEnd == -1 || jsonEnd <= jsonStart {
		return nil, &ErrInvalidResponse{
			Content: cleaned,
			Err:     fmt.Errorf("no JSON object found in model response"),
		}
	}

	extracted := cleaned[jsonStart : jsonEnd+1]
	if !json.Valid([]byte(extracted)) {
		return nil, &ErrInvalidResponse{
			Content: extracted,
			Err:     fmt.Errorf("model response is not valid JSON"),
		}
	}
	return json.RawMessage(extracted), nil
}

// payloadConfidence reads the model's self-reported confidence_score
// when present, otherwise falls back to a conservative default.
func payloadConfidence(payload json.RawMessage) float64 {
	var probe struct {
		ConfidenceScore *float64 `json:"confidence_score"`
		Confidence      *float64 `json:"confidence"`
	}
	if err := json.Unmarshal(payload, &probe); err == nil {
		if probe.ConfidenceScore != nil {
			return *probe.ConfidenceScore
		}
		if probe.Confidence != nil {
			return *probe.Confidence
		}
	}
	return 0.7
}

// mapModelError classifies langchaingo errors into the contract's
// taxonomy. The SDK does not expose typed HTTP errors, so this leans
// on status-code markers in the message.
func mapModelError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") || strings.Contains(msg, "resource_exhausted"):
		return &ErrRateLimit{Err: err}
	case strings.Contains(msg, "api key") || strings.Contains(msg, "401") ||
		strings.Contains(msg, "403") || strings.Contains(msg, "unauthenticated") ||
		strings.Contains(msg, "permission_denied"):
		return &ErrAuth{Err: err}
	case strings.Contains(msg, "400") || strings.Contains(msg, "invalid_argument"):
		return &ErrBadRequest{Err: err}
	default:
		return &ErrUnavailable{Err: err}
	}
}
