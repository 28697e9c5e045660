package speech

import (
	"context"
	"fmt"
	"os"
	"time"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	uerrors "github.com/tubetext/tubetext/internal/usecase/errors"
	"github.com/tubetext/tubetext/pkg/config"
	"github.com/tubetext/tubetext/pkg/segmenter"
)

// AudioDownloader fetches a video's audio track to a local file
type AudioDownloader interface {
	DownloadAudio(ctx context.Context, videoURL string) (path string, cleanup func(), err error)
}

// Result is a transcription broken into timed segments
type Result struct {
	Segments  []segmenter.Segment
	WordCount int
}

// Transcriber produces transcripts from a video's audio via AssemblyAI
type Transcriber struct {
	apiKey     string
	timeout    time.Duration
	downloader AudioDownloader
}

// NewTranscriber creates a transcriber. An empty API key is allowed; calls
// will fail until one is configured.
func NewTranscriber(cfg *config.AssemblyAIConfig, downloader AudioDownloader) *Transcriber {
	var apiKey string
	timeout := 5 * time.Minute
	if cfg != nil {
		apiKey = cfg.APIKey
		if cfg.Timeout > 0 {
			timeout = cfg.Timeout
		}
	}
	return &Transcriber{
		apiKey:     apiKey,
		timeout:    timeout,
		downloader: downloader,
	}
}

// Transcribe downloads the audio for a video, submits it for transcription
// and returns the merged segments. Passing an empty language enables
// automatic detection on the provider side.
func (t *Transcriber) Transcribe(ctx context.Context, videoURL, language string) (*Result, error) {
	if t.apiKey == "" {
		return nil, uerrors.ErrNotConfigured
	}

	path, cleanup, err := t.downloader.DownloadAudio(ctx, videoURL)
	if err != nil {
		return nil, fmt.Errorf("audio download failed: %w", err)
	}
	defer cleanup()

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	client := aai.NewClient(t.apiKey)
	params := &aai.TranscriptOptionalParams{
		Punctuate:     aai.Bool(true),
		FormatText:    aai.Bool(true),
		SpeakerLabels: aai.Bool(true),
	}
	if language != "" {
		params.LanguageCode = aai.TranscriptLanguageCode(language)
	}

	transcript, err := client.Transcripts.TranscribeFromReader(ctx, f, params)
	if err != nil {
		return nil, fmt.Errorf("transcription failed: %w", err)
	}
	if transcript.Status == aai.TranscriptStatusError {
		reason := "unknown error"
		if transcript.Error != nil {
			reason = *transcript.Error
		}
		return nil, fmt.Errorf("transcription failed: %s", reason)
	}

	utterances := make([]segmenter.Utterance, 0, len(transcript.Utterances))
	for _, u := range transcript.Utterances {
		if u.Text == nil || *u.Text == "" {
			continue
		}
		var start float64
		if u.Start != nil {
			start = float64(*u.Start) / 1000.0
		}
		utterances = append(utterances, segmenter.Utterance{
			Start: start,
			Text:  *u.Text,
		})
	}
	// Some audio yields no speaker utterances; fall back to the flat text.
	if len(utterances) == 0 && transcript.Text != nil && *transcript.Text != "" {
		utterances = append(utterances, segmenter.Utterance{Start: 0, Text: *transcript.Text})
	}
	if len(utterances) == 0 {
		return nil, fmt.Errorf("transcription returned no text")
	}

	segments := segmenter.Merge(utterances, segmenter.DefaultTargetDuration)

	var words int
	for _, s := range segments {
		words += segmenter.WordCount(s.Text)
	}
	return &Result{Segments: segments, WordCount: words}, nil
}
