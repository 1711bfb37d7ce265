package ai

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tmc/langchaingo/llms"
)

// stubModel satisfies llms.Model for constructor and validation tests;
// it is never reached by them.
type stubModel struct{}

func (stubModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: `{"summary": "stub"}`}}}, nil
}

func (stubModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return `{"summary": "stub"}`, nil
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name       string
		completion string
		want       string
		wantErr    bool
	}{
		{
			name:       "bare object",
			completion: `{"summary": "ok"}`,
			want:       `{"summary": "ok"}`,
		},
		{
			name:       "markdown fenced",
			completion: "```json\n{\"summary\": \"ok\"}\n```",
			want:       `{"summary": "ok"}`,
		},
		{
			name:       "surrounded by prose",
			completion: `Here is your analysis: {"summary": "ok"} Hope it helps!`,
			want:       `{"summary": "ok"}`,
		},
		{
			name:       "no object at all",
			completion: "I cannot produce JSON today.",
			wantErr:    true,
		},
		{
			name:       "braces but invalid json",
			completion: `{"summary": }`,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := extractJSONObject(tt.completion)
			if tt.wantErr {
				var invResp *ErrInvalidResponse
				assert.ErrorAs(t, err, &invResp)
				return
			}
			assert.NoError(t, err)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestPayloadConfidence(t *testing.T) {
	assert.Equal(t, 0.85, payloadConfidence(json.RawMessage(`{"confidence_score": 0.85}`)))
	assert.Equal(t, 0.6, payloadConfidence(json.RawMessage(`{"confidence": 0.6}`)))
	assert.Equal(t, 0.7, payloadConfidence(json.RawMessage(`{"summary": "no score"}`)))
}

func TestMapModelError(t *testing.T) {
	var rl *ErrRateLimit
	assert.ErrorAs(t, mapModelError(errors.New("googleapi: Error 429: rate limit exceeded")), &rl)

	var auth *ErrAuth
	assert.ErrorAs(t, mapModelError(errors.New("API key not valid")), &auth)

	var bad *ErrBadRequest
	assert.ErrorAs(t, mapModelError(errors.New("googleapi: Error 400: INVALID_ARGUMENT")), &bad)

	var unavailable *ErrUnavailable
	assert.ErrorAs(t, mapModelError(errors.New("connection reset by peer")), &unavailable)

	assert.Equal(t, context.DeadlineExceeded, mapModelError(context.DeadlineExceeded))
}

func TestGeminiService_EmptyPromptRejected(t *testing.T) {
	svc, err := NewGeminiService(stubModel{}, "gemini-2.0-flash")
	assert.NoError(t, err)

	_, err = svc.Analyze(context.Background(), Input{Text: &TextInput{Prompt: "   "}})
	assert.True(t, IsInvalidInput(err))

	_, err = svc.Analyze(context.Background(), Input{})
	assert.True(t, IsInvalidInput(err))
}

func TestGeminiService_AnalyzeParsesCompletion(t *testing.T) {
	svc, err := NewGeminiService(stubModel{}, "gemini-2.0-flash")
	assert.NoError(t, err)

	result, err := svc.Analyze(context.Background(), Input{Text: &TextInput{Prompt: "analyze this"}})

	assert.NoError(t, err)
	assert.Equal(t, "gemini", result.Provider)
	assert.Equal(t, "gemini-2.0-flash", result.Model)
	assert.JSONEq(t, `{"summary": "stub"}`, string(result.Payload))
	assert.Equal(t, 0.7, result.Confidence)
}

func TestNewGeminiService_RequiresModel(t *testing.T) {
	_, err := NewGeminiService(nil, "gemini-2.0-flash")
	assert.Error(t, err)

	_, err = NewGeminiService(stubModel{}, "")
	assert.Error(t, err)
}
