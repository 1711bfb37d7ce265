package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"quran-coach/internal/util"

	openai "github.com/sashabaranov/go-openai"
)

// Whisper's documented upload limit.
const maxAudioBytes = 25 * 1024 * 1024

// supportedAudioFormats is the fixed allow-list for uploads.
var supportedAudioFormats = map[string]bool{
	"mp3": true, "mp4": true, "mpeg": true, "mpga": true,
	"m4a": true, "wav": true, "webm": true, "ogg": true, "flac": true,
}

// defaultRecitationPrompt biases the transcriber towards Quranic
// vocabulary when the caller provides no hint.
const defaultRecitationPrompt = "بسم الله الرحمن الرحيم، القرآن الكريم، السورة، الآية، التلاوة، التجويد"

// Transcript is the payload shape the whisper service produces.
type Transcript struct {
	Text     string              `json:"text"`
	Language string              `json:"language"`
	Duration float64             `json:"duration"`
	Segments []TranscriptSegment `json:"segments,omitempty"`
}

// TranscriptSegment is one timestamped slice of the transcript.
type TranscriptSegment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// whisperService transcribes recitation audio through the OpenAI
// Whisper API.
type whisperService struct {
	client *openai.Client
	model  string
}

// NewWhisperService constructs the transcription provider. A missing
// API key is a configuration error caught here, not at call time.
func NewWhisperService(apiKey, model string) (Service, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("whisper API key is required but not provided")
	}
	if model == "" {
		model = openai.Whisper1
	}
	return &whisperService{
		client: openai.NewClient(apiKey),
		model:  model,
	}, nil
}

func (s *whisperService) Name() string { return "whisper" }

func (s *whisperService) Analyze(ctx context.Context, input Input) (*Result, error) {
	if err := validateAudioInput(input); err != nil {
		return nil, err
	}
	audio := input.Audio

	language := audio.Language
	if language == "" {
		language = "ar"
	}
	prompt := audio.Prompt
	if prompt == "" {
		prompt = defaultRecitationPrompt
	}

	resp, err := s.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:       s.model,
		FilePath:    "recitation." + strings.ToLower(audio.Format),
		Reader:      bytes.NewReader(audio.Data),
		Language:    language,
		Prompt:      prompt,
		Format:      openai.AudioResponseFormatVerboseJSON,
		Temperature: 0, // deterministic transcripts for religious content
	})
	if err != nil {
		return nil, mapOpenAIError(err)
	}

	transcript := Transcript{
		Text:     resp.Text,
		Language: resp.Language,
		Duration: resp.Duration,
	}
	for _, seg := range resp.Segments {
		transcript.Segments = append(transcript.Segments, TranscriptSegment{
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		})
	}

	payload, err := json.Marshal(transcript)
	if err != nil {
		return nil, &ErrInvalidResponse{Err: fmt.Errorf("marshal transcript: %w", err)}
	}

	return &Result{
		Payload:    payload,
		Confidence: transcriptionConfidence(resp),
		Provider:   s.Name(),
		Model:      s.model,
	}, nil
}

// validateAudioInput runs the pre-call checks: size limit, format
// allow-list, non-empty payload.
func validateAudioInput(input Input) error {
	if input.Audio == nil {
		return &ErrInvalidInput{Reason: "audio payload is required"}
	}
	audio := input.Audio
	if len(audio.Data) == 0 {
		return &ErrInvalidInput{Reason: "audio file is empty"}
	}
	if len(audio.Data) > maxAudioBytes {
		return &ErrInvalidInput{Reason: fmt.Sprintf(
			"audio file too large: %d bytes (max: %d bytes)", len(audio.Data), maxAudioBytes)}
	}
	format := strings.ToLower(strings.TrimPrefix(audio.Format, "."))
	if !supportedAudioFormats[format] {
		return &ErrInvalidInput{Reason: fmt.Sprintf("unsupported audio format: %q", audio.Format)}
	}
	return nil
}

// transcriptionConfidence derives a confidence score from segment log
// probabilities, falling back to a length-based estimate.
func transcriptionConfidence(resp openai.AudioResponse) float64 {
	if len(resp.Segments) > 0 {
		var sum float64
		for _, seg := range resp.Segments {
			sum += util.Clamp01(seg.AvgLogprob + 1.0)
		}
		return sum / float64(len(resp.Segments))
	}

	switch textLen := len(strings.TrimSpace(resp.Text)); {
	case textLen > 50:
		return 0.85
	case textLen > 10:
		return 0.70
	default:
		return 0.50
	}
}

// mapOpenAIError classifies SDK errors into the contract's taxonomy.
func mapOpenAIError(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == 429:
			return &ErrRateLimit{Err: err}
		case apiErr.HTTPStatusCode >= 500:
			return &ErrUnavailable{Err: err}
		case apiErr.HTTPStatusCode == 401 || apiErr.HTTPStatusCode == 403:
			return &ErrAuth{Err: err}
		case apiErr.HTTPStatusCode == 400 || apiErr.HTTPStatusCode == 404 || apiErr.HTTPStatusCode == 422:
			return &ErrBadRequest{Err: err}
		}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		if reqErr.HTTPStatusCode >= 500 {
			return &ErrUnavailable{Err: err}
		}
	}
	// Network-level failures are treated as transient.
	return &ErrUnavailable{Err: err}
}
