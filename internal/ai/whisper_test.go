package ai

import (
	"encoding/json"
	"errors"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
)

func TestNewWhisperService(t *testing.T) {
	_, err := NewWhisperService("", "whisper-1")
	assert.Error(t, err, "missing API key is a configuration error")

	svc, err := NewWhisperService("sk-test", "")
	assert.NoError(t, err)
	assert.Equal(t, "whisper", svc.Name())
}

func TestValidateAudioInput(t *testing.T) {
	tests := []struct {
		name    string
		input   Input
		wantErr string
	}{
		{
			name:    "missing audio",
			input:   Input{},
			wantErr: "audio payload is required",
		},
		{
			name:    "empty file",
			input:   Input{Audio: &AudioInput{Format: "mp3"}},
			wantErr: "audio file is empty",
		},
		{
			name:    "oversized file",
			input:   Input{Audio: &AudioInput{Data: make([]byte, maxAudioBytes+1), Format: "mp3"}},
			wantErr: "too large",
		},
		{
			name:    "unsupported format",
			input:   Input{Audio: &AudioInput{Data: []byte("x"), Format: "aiff"}},
			wantErr: "unsupported audio format",
		},
		{
			name:  "supported format with leading dot",
			input: Input{Audio: &AudioInput{Data: []byte("x"), Format: ".wav"}},
		},
		{
			name:  "uppercase format accepted",
			input: Input{Audio: &AudioInput{Data: []byte("x"), Format: "OGG"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAudioInput(tt.input)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, IsInvalidInput(err))
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestTranscriptionConfidence(t *testing.T) {
	// Segment logprobs: avg_logprob + 1, clamped to [0, 1], averaged.
	var resp openai.AudioResponse
	err := json.Unmarshal([]byte(`{"segments": [
		{"avg_logprob": -0.2},
		{"avg_logprob": -0.4},
		{"avg_logprob": -2.0}
	]}`), &resp)
	assert.NoError(t, err)
	assert.InDelta(t, (0.8+0.6+0.0)/3.0, transcriptionConfidence(resp), 0.0001)

	// Without segments, fall back on transcript length.
	long := openai.AudioResponse{Text: string(make([]byte, 60))}
	assert.Equal(t, 0.85, transcriptionConfidence(long))
	medium := openai.AudioResponse{Text: "short but not tiny"}
	assert.Equal(t, 0.70, transcriptionConfidence(medium))
	tiny := openai.AudioResponse{Text: "hi"}
	assert.Equal(t, 0.50, transcriptionConfidence(tiny))
}

func TestMapOpenAIError(t *testing.T) {
	var rl *ErrRateLimit
	assert.ErrorAs(t, mapOpenAIError(&openai.APIError{HTTPStatusCode: 429}), &rl)

	var unavailable *ErrUnavailable
	assert.ErrorAs(t, mapOpenAIError(&openai.APIError{HTTPStatusCode: 503}), &unavailable)

	var auth *ErrAuth
	assert.ErrorAs(t, mapOpenAIError(&openai.APIError{HTTPStatusCode: 401}), &auth)

	var bad *ErrBadRequest
	assert.ErrorAs(t, mapOpenAIError(&openai.APIError{HTTPStatusCode: 422}), &bad)

	// Network-level failures default to transient.
	assert.ErrorAs(t, mapOpenAIError(errors.New("dial tcp: i/o timeout")), &unavailable)
}
