package service

import (
	"context"
	"encoding/json"

	"quran-coach/internal/ai"
	"quran-coach/internal/config"
	"quran-coach/internal/domain"
	"quran-coach/internal/dto"
	"quran-coach/internal/logger"

	"go.uber.org/zap"
)

// TranscriptionService turns uploaded recitation audio into text.
type TranscriptionService interface {
	Transcribe(ctx context.Context, userID string, audio []byte, format, language, prompt string) (*dto.TranscriptionResponse, error)
}

type transcriptionService struct {
	transcriber ai.Service
	cfg         *config.Config
}

// NewTranscriptionService creates a new instance of transcriptionService
func NewTranscriptionService(transcriber ai.Service, cfg *config.Config) TranscriptionService {
	return &transcriptionService{
		transcriber: transcriber,
		cfg:         cfg,
	}
}

// Transcribe implements TranscriptionService
func (s *transcriptionService) Transcribe(ctx context.Context, userID string, audio []byte, format, language, prompt string) (*dto.TranscriptionResponse, error) {
	transcribeCtx, cancel := context.WithTimeout(ctx, s.cfg.Transcription.Timeout)
	defer cancel()

	result, err := s.transcriber.Analyze(transcribeCtx, ai.Input{
		Audio: &ai.AudioInput{
			Data:     audio,
			Format:   format,
			Language: language,
			Prompt:   prompt,
		},
	})
	if err != nil {
		if ai.IsInvalidInput(err) {
			return nil, domain.NewInvalidInputError(err.Error())
		}
		return nil, domain.NewAIServiceError(err)
	}

	var transcript ai.Transcript
	if err := json.Unmarshal(result.Payload, &transcript); err != nil {
		return nil, domain.NewAnalysisParseError(err)
	}

	logger.Get().Info("Audio transcribed",
		zap.String("userID", userID),
		zap.String("model", result.Model),
		zap.Int("audioBytes", len(audio)),
		zap.Float64("confidence", result.Confidence))

	resp := &dto.TranscriptionResponse{
		Text:       transcript.Text,
		Language:   transcript.Language,
		Duration:   transcript.Duration,
		Confidence: result.Confidence,
		Model:      result.Model,
	}
	for _, seg := range transcript.Segments {
		resp.Segments = append(resp.Segments, dto.TranscriptionSegmentResponse{
			Start: seg.Start,
			End:   seg.End,
			Text:  seg.Text,
		})
	}
	return resp, nil
}
