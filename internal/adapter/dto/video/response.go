package video

// SegmentResponse is one display chunk of a transcript
type SegmentResponse struct {
	Timestamp string `json:"timestamp"`
	Text      string `json:"text"`
}

// TranscriptResponse is the resolved transcript for a video
type TranscriptResponse struct {
	Success   bool              `json:"success"`
	VideoID   string            `json:"video_id"`
	Source    string            `json:"source"`
	Language  string            `json:"language"`
	Segments  []SegmentResponse `json:"segments"`
	WordCount int               `json:"word_count"`
}

// LanguageResponse is one available caption track
type LanguageResponse struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// LanguagesResponse lists the caption tracks of a video
type LanguagesResponse struct {
	Success   bool               `json:"success"`
	VideoID   string             `json:"video_id"`
	Languages []LanguageResponse `json:"languages"`
	Default   string             `json:"default"`
}

// TranslateResponse is a one-shot translation result
type TranslateResponse struct {
	Success     bool   `json:"success"`
	Translation string `json:"translation"`
}

// SummaryResponse is a transcript summary
type SummaryResponse struct {
	Success bool   `json:"success"`
	Summary string `json:"summary"`
}
