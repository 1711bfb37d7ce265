package dto

// TranscriptionSegmentResponse is one timed segment of a transcription.
type TranscriptionSegmentResponse struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// TranscriptionResponse is the result of transcribing a recitation upload.
type TranscriptionResponse struct {
	Text       string                         `json:"text"`
	Language   string                         `json:"language,omitempty"`
	Duration   float64                        `json:"duration,omitempty"`
	Confidence float64                        `json:"confidence"`
	Model      string                         `json:"model"`
	Segments   []TranscriptionSegmentResponse `json:"segments,omitempty"`
}
