package video

// TranscriptRequest asks for the transcript of one video
type TranscriptRequest struct {
	VideoURL string `json:"video_url" validate:"required"`
	Language string `json:"language,omitempty" validate:"omitempty,min=2,max=10"`
}

// LanguagesRequest asks which caption tracks a video publishes
type LanguagesRequest struct {
	VideoURL string `query:"video_url" validate:"required"`
}

// TranslateRequest asks for a one-shot translation of a transcript
type TranslateRequest struct {
	Transcription string `json:"transcription" validate:"required"`
	Language      string `json:"language" validate:"required,min=2,max=64"`
}

// SegmentPayload is one transcript chunk sent by the client for streaming
// translation
type SegmentPayload struct {
	Timestamp string `json:"timestamp"`
	Text      string `json:"text" validate:"required"`
}

// StreamTranslateRequest asks for a chunk-by-chunk translation stream
type StreamTranslateRequest struct {
	Segments []SegmentPayload `json:"segments" validate:"required,min=1,dive"`
	Language string           `json:"language" validate:"required,min=2,max=64"`
}

// SummaryRequest asks for a summary of a transcript
type SummaryRequest struct {
	Transcription string `json:"transcription" validate:"required"`
}

// PDFRequest asks for a PDF rendering of a transcript
type PDFRequest struct {
	Title    string           `json:"title,omitempty"`
	Segments []SegmentPayload `json:"segments" validate:"required,min=1,dive"`
}
